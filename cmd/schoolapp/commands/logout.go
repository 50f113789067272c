package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logout: destroy the stored session.
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appFlow.Logout()
			fmt.Println("Signed out")
			return nil
		},
	}
}
