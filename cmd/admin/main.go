package main

import "bookhub/cmd/admin/command"

func main() {
	command.Execute()
}
