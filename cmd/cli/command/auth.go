package command

// auth.go handles register, login, logout and whoami.

import (
	"fmt"

	"bookhub/cmd/cli/authentication"
	"bookhub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the bookhub API. The session token is kept in the OS keyring.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a bookhub account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.Name, _ = cmd.Flags().GetString("name")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")
		req.PasswordConfirmation = req.Password

		res, err := publicClient().Register(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		if err := saveSession(res); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), success("✓ Registered and logged in as"), res.User.Name)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your bookhub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")

		res, err := publicClient().Login(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := saveSession(res); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), success("✓ Logged in as"), res.User.Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke this session and forget the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err == nil {
			if err := c.Logout(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), warning("server logout failed:"), err)
			}
		}
		if err := authentication.DeleteTokens(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), success("✓ Logged out"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		u, err := c.Me(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s <%s>\n", heading(u.Name), u.Email)
		fmt.Fprintf(w, "  %d followers, following %d\n", u.FollowersCount, u.FollowingCount)
		return nil
	},
}

func saveSession(res *dto.AuthResponse) error {
	return authentication.StoreTokens(&authentication.StoredCredentials{
		AccessToken: res.AccessToken,
		Email:       res.User.Email,
		APIURL:      apiURL(),
		ExpiresAt:   res.ExpiresAt,
	})
}

func init() {
	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)

	registerCmd.Flags().StringP("name", "n", "", "display name")
	registerCmd.Flags().StringP("email", "e", "", "email address")
	registerCmd.Flags().StringP("password", "p", "", "password, at least 8 characters")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("email", "e", "", "email address")
	loginCmd.Flags().StringP("password", "p", "", "password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}
