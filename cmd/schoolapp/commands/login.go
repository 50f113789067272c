package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// login <userid>: request an OTP for the user.
func loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <userid>",
		Short: "Request an OTP for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(os.Stderr, "Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return err
				}
				// Only strip the line ending; inner whitespace is part of
				// the password.
				password = strings.TrimRight(line, "\r\n")
			}

			result, err := appFlow.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", result.Message)
			fmt.Printf("Next: schoolapp verify %s <otp>\n", result.UserID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted if omitted)")
	return cmd
}
