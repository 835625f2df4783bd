package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the myflix CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "myflix",
		Short: "myFlix movie catalog API",
		Long: `myFlix serves a movie catalog over HTTP. Users log in with a
username and password and receive a bearer token for the protected routes.

Configuration is read from the environment (JWT_SECRET, MONGO_URI, ...).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewHashPasswordCmd())

	return cmd
}
