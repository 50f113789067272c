package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoami: report the restored session, if any.
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user, if any",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := appFlow.Restore()
			if !ok {
				fmt.Println("Not signed in")
				return nil
			}
			fmt.Printf("Signed in as userid %s\n", sess.UserID)
			return nil
		},
	}
}
