package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-school-app/api"
	"github.com/jrsteele09/go-school-app/credstore"
	"github.com/jrsteele09/go-school-app/flow"
	"github.com/jrsteele09/go-school-app/internal/config"
	"github.com/jrsteele09/go-school-app/session"
)

var (
	baseURL    string
	dataDir    string
	passphrase string
	verbose    bool

	appFlow *flow.Flow
)

// Execute wires the credential store, session manager, gateway and services
// together and runs the command tree. Wiring happens once per invocation in
// PersistentPreRunE so every subcommand sees the same dependencies.
func Execute(cfg config.Config) error {
	root := &cobra.Command{
		Use:           "schoolapp",
		Short:         "Terminal client for the school dashboard API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				baseURL = cfg.GetBaseURL()
			}
			if dataDir == "" {
				dataDir = cfg.GetDataFolder()
			}
			if passphrase == "" {
				passphrase = cfg.GetStorePassphrase()
			}
			if err := os.MkdirAll(dataDir, 0o700); err != nil {
				return err
			}

			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()

			store := credstore.NewFileStore(dataDir, passphrase, logger)
			sessions := session.NewManager(store, session.WithLogger(logger))

			gateway, err := api.NewGateway(api.Config{
				BaseURL: baseURL,
				Timeout: cfg.GetHTTPTimeout(),
			}, sessions, api.WithLogger(logger))
			if err != nil {
				return err
			}

			auth := api.NewAuthService(gateway)
			dashboard := api.NewDashboardService(gateway, sessions)
			appFlow = flow.New(auth, dashboard, sessions, flow.WithLogger(logger))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (default from BASE_URL)")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "credential store directory (default from FOLDER)")
	root.PersistentFlags().StringVar(&passphrase, "store-passphrase", "", "credential store passphrase")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(loginCmd(), verifyCmd(), dashboardCmd(), whoamiCmd(), logoutCmd())
	return root.Execute()
}
