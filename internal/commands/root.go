package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerctl/internal/api"
	"github.com/cleared-dev/ledgerctl/internal/auth"
	"github.com/cleared-dev/ledgerctl/internal/buildinfo"
	"github.com/cleared-dev/ledgerctl/internal/config"
	"github.com/cleared-dev/ledgerctl/internal/logger"
	"github.com/cleared-dev/ledgerctl/internal/transport"
)

// app is the state shared by every subcommand, filled in before any of
// them runs.
type app struct {
	configPath string
	apiURL     string
	ledgerID   int64
	logLevel   string

	cfg       *config.Config
	log       zerolog.Logger
	transport *transport.Client
	client    *api.Client
	logout *transport.LogoutBroadcaster
	events chan transport.LogoutEvent
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "ledgerctl",
		Short:   "Command-line client for a personal finance ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ledgerctl/ledgerctl.yaml)")
	flags.StringVar(&a.apiURL, "api-url", "", "API base URL")
	flags.Int64Var(&a.ledgerID, "ledger", 0, "ledger id")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newAccountsCommand(a),
		newCategoriesCommand(a),
		newTransactionsCommand(a),
		newTransferCommand(a),
		newSnapshotsCommand(a),
		newLotsCommand(a),
		newBuyCommand(a),
		newSellCommand(a),
		newReportCommand(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		// No config dir is not fatal; defaults and env still apply.
		path, _ = config.DefaultPath()
	}
	cfg, err := config.Resolve(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.API.BaseURL = a.apiURL
	}
	if flags.Changed("ledger") {
		cfg.LedgerID = a.ledgerID
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	a.log = logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Out:    cmd.ErrOrStderr(),
	})

	durable := auth.NewFileStore(cfg.Auth.TokenDir)
	session := auth.NewFileStore(cfg.Auth.SessionDir)
	tokens := auth.NewStorage(durable, session)
	a.logout = transport.NewLogoutBroadcaster(a.log)
	a.events = a.logout.Subscribe()

	a.transport = transport.NewClient(transport.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, tokens, a.logout, a.log)
	a.client = api.New(a.transport, tokens, cfg.LedgerID, a.log)

	a.log.Debug().
		Str("base_url", a.transport.BaseURL()).
		Int64("ledger_id", cfg.LedgerID).
		Str("token_file", durable.Path()).
		Str("session_file", session.Path()).
		Msg("Client ready")
	return nil
}

// run wraps a RunE so that a session ended by the server is reported after
// the command, whatever its outcome.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		a.noticeLogout(cmd.ErrOrStderr())
		return err
	}
}

func (a *app) noticeLogout(w io.Writer) {
	if a.events == nil {
		return
	}
	select {
	case <-a.events:
		fmt.Fprintln(w, "Session expired. Run 'ledgerctl login' to sign in again.")
	default:
	}
}
