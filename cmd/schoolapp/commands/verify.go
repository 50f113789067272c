package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// verify <userid> <otp>: exchange the OTP for a token and persist the
// session. Separators in the pasted OTP are fine; the operation sanitizes
// the value to digits before validating.
func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <userid> <otp>",
		Short: "Verify the OTP and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := appFlow.VerifyOTP(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", result.Message)
			return nil
		},
	}
}
