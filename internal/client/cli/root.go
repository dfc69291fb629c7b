package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/cfreminder/internal/buildinfo"
	"github.com/dmitrijs2005/cfreminder/internal/client/config"
	"github.com/dmitrijs2005/cfreminder/internal/logging"
)

// NewRootCommand creates the cfreminder command tree. Without a subcommand
// it starts the interactive session.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cfreminder",
		Short:         "Codeforces contest reminders",
		Long:          "Subscribe to upcoming Codeforces contests and manage reminder notifications.",
		Version:       buildinfo.Version(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := config.RegisterFlags(cmd.PersistentFlags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, flags)
	}

	cmd.AddCommand(newReplCommand(flags))
	cmd.AddCommand(newContestsCommand(flags))
	cmd.AddCommand(newPreviewCommand(flags))
	cmd.AddCommand(newDispatchCommand(flags))
	cmd.AddCommand(newWhoAmICommand(flags))
	cmd.AddCommand(newTimezoneCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func runSession(cmd *cobra.Command, flags *config.Flags) error {
	return withApp(cmd, flags, func(ctx context.Context, a *App) error {
		a.Run(ctx)
		return nil
	})
}

func newReplCommand(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, flags)
		},
	}
}

func newContestsCommand(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "contests",
		Short: "List upcoming contests (see --tz)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *App) error {
				a.restore(ctx)
				return reported(a.LoadContests(ctx, ""))
			})
		},
	}
}

func newPreviewCommand(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Show the reminder schedule of the stored user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *App) error {
				a.restore(ctx)
				return reported(a.ShowPreview(ctx))
			})
		},
	}
}

func newDispatchCommand(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch",
		Short: "Send due reminders for the stored user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *App) error {
				a.restore(ctx)
				return reported(a.Dispatch(ctx))
			})
		},
	}
}

func newWhoAmICommand(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *App) error {
				a.restore(ctx)
				return a.WhoAmI(ctx)
			})
		},
	}
}

func newTimezoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tz [query]",
		Short: "Suggest timezone names",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMatcher(commandContext(cmd))
			if err != nil {
				return commandError("load timezones", err)
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			for _, z := range m.Suggest(query) {
				fmt.Fprintln(cmd.OutOrStdout(), z)
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withApp resolves configuration, opens the logger and the app, runs fn and
// releases everything afterwards.
func withApp(cmd *cobra.Command, flags *config.Flags, fn func(ctx context.Context, a *App) error) error {
	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return commandError("load config", err)
	}
	flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return commandError("invalid config", err)
	}

	var paths []string
	if cfg.LogFile != "" {
		paths = append(paths, cfg.LogFile)
	}
	log, err := logging.New(cfg.LogLevel, paths...)
	if err != nil {
		return commandError("open log", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := commandContext(cmd)
	app, err := NewApp(ctx, cfg, log, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return commandError("start", err)
	}
	defer func() { _ = app.Close() }()

	return fn(ctx, app)
}
