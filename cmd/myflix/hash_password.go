package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/myflix/movie-api/internal/core/service"
)

// NewHashPasswordCmd creates the hash-password subcommand.
func NewHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt digest for a password read from stdin",
		Long: `Reads one line from stdin and prints its bcrypt digest, for fixing
user records by hand. The password is never echoed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("no password on stdin")
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return errors.New("empty password")
			}

			hasher, err := service.NewBcryptHasher(cost, 1)
			if err != nil {
				return err
			}
			digest, err := hasher.Hash(cmd.Context(), password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), digest)
			return err
		},
	}

	cmd.Flags().IntVar(&cost, "cost", 10, "bcrypt cost factor (4-31)")

	return cmd
}
