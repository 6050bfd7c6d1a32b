package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Shared by subcommands; set up in the root command's pre-run
var (
	cfg    *Config
	client *Client
)

// NewRootCmd builds the pageantctl command tree
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	root := &cobra.Command{
		Use:   "pageantctl",
		Short: "Command line client for the pageant scoring server",
		Long: `pageantctl talks to the pageant scoring JSON API.

Sign in as the administrator, register contestants, read the roster and
its headcounts, or follow the dashboard's live roster feed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.LoadToken(); err != nil {
				return err
			}
			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "server URL ($"+EnvServer+")")
	flags.StringVar(&cfg.Token, "token", cfg.Token, "session token ($"+EnvToken+")")
	flags.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "where the session token is saved ($"+EnvTokenFile+")")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output format: "+FormatText+" or "+FormatJSON)

	root.AddCommand(
		newAdminCmd(),
		newContestantCmd(),
		newWatchCmd(),
		newHealthCmd(),
	)
	return root
}

// newOutput formats results for cmd in the selected output format
func newOutput(cmd *cobra.Command) *Output {
	return &Output{format: cfg.Output, w: cmd.OutOrStdout()}
}

// Execute runs pageantctl and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
