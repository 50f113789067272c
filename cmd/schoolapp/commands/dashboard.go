package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/jrsteele09/go-school-app/internal/errors"
)

// dashboard: fetch and print the dashboard for the signed-in user.
func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard for the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := appFlow.Dashboard(cmd.Context())
			if err != nil {
				if apperrors.IsAuth(err) {
					// Session is already cleared; send the user back to login.
					return fmt.Errorf("%s Run 'schoolapp login <userid>' to sign in", err)
				}
				return err
			}

			fmt.Printf("%s\n\n", dash.Message)
			fmt.Printf("%s (%s)  mobile %s\n", dash.User.Name, dash.User.UserID, dash.User.Mobile)
			fmt.Printf("Students: %d boys, %d girls\n", dash.Students.Boys, dash.Students.Girls)
			fmt.Printf("Fees: total %.2f, paid %.2f, due %.2f\n", dash.Amount.Total, dash.Amount.Paid, dash.Amount.Due)
			if len(dash.Carousel) > 0 {
				fmt.Printf("Carousel: %d images\n", len(dash.Carousel))
			}
			return nil
		},
	}
}
