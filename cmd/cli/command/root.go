package command

// root.go defines the root command for the bookhub CLI and resolves its configuration.

import (
	"errors"
	"fmt"
	"os"

	"bookhub/cmd/cli/authentication"
	"bookhub/cmd/cli/command/client"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultAPIURL = "http://localhost:8080"

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "bookhub",
	Short: "bookhub - track your reading from the terminal",
	Long: `bookhub is a command line client for the bookhub API. Use it to:
- Browse and search the book catalog
- Record reading progress and yearly goals
- Follow what your friends are reading
- Take part in reading challenges

The API address comes from --api, the BOOKHUB_API environment variable or
the "api" key in ~/.bookhub.yaml, in that order.`,
	SilenceUsage: true,
}

// Execute runs the root command; main calls it once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failure("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("api", "", "API server URL (default "+defaultAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.bookhub.yaml)")
	_ = v.BindPFlag("api", rootCmd.PersistentFlags().Lookup("api"))

	rootCmd.AddCommand(authCmd, booksCmd, progressCmd, goalsCmd, feedCmd, challengesCmd)
}

func initConfig() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".bookhub")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("BOOKHUB")
	v.AutomaticEnv()
	v.SetDefault("api", defaultAPIURL)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			fmt.Fprintln(os.Stderr, warning("could not read config:"), err)
		}
	}
}

func apiURL() string {
	return v.GetString("api")
}

// publicClient is for endpoints that need no session.
func publicClient() *client.HTTPClient {
	return client.NewHTTPClient(apiURL())
}

// authedClient attaches the stored token, failing early when there is none.
func authedClient() (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, err
	}
	if creds.Expired(now()) {
		return nil, errors.New("session expired, run `bookhub auth login` again")
	}
	c := client.NewHTTPClient(apiURL())
	c.SetToken(creds.AccessToken)
	return c, nil
}
