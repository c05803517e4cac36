package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerctl/internal/config"
)

func newInitCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a ledgerctl.yaml with defaults and the given flags",
		Long: "Write a configuration file at --config (or the default location).\n" +
			"--api-url, --ledger and --log-level are stored in it.",
		Args: cobra.NoArgs,
		// The file may not exist yet, or may be broken and about to be
		// replaced, so the root setup is skipped.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}

			flags := cmd.Flags()
			cfg := config.Default()
			if flags.Changed("api-url") {
				cfg.API.BaseURL = a.apiURL
			}
			if flags.Changed("ledger") {
				cfg.LedgerID = a.ledgerID
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = a.logLevel
			}
			return runInit(cmd, path, cfg, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func runInit(cmd *cobra.Command, path string, cfg *config.Config, force bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (server %s, ledger %d)\n", path, cfg.API.BaseURL, cfg.LedgerID)
	return nil
}
