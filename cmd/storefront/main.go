package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"
)

type rootFlags struct {
	envFile     string
	apiURL      string
	storage     string
	storagePath string
	logLevel    string
}

func rootCmd(a *app) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Food ordering storefront client",
		Long:          "Browse the menu, manage a local cart, log in, check out and review orders against the food ordering gateway.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := slogctx.Append(cmd.Context(), "command", cmd.Name())
			cmd.SetContext(ctx)
			return a.init(ctx, cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "optional dotenv file")
	pf.StringVar(&flags.apiURL, "api-url", "", "gateway base URL (overrides STOREFRONT_API_BASE_URL)")
	pf.StringVar(&flags.storage, "storage", "", "storage driver: file, sqlite, redis or memory")
	pf.StringVar(&flags.storagePath, "storage-path", "", "directory for the file and sqlite drivers")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level")

	cmd.AddCommand(
		menuCmd(a),
		dishCmd(a),
		cartCmd(a),
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		registerCmd(a),
		checkoutCmd(a),
		ordersCmd(a),
		adminCmd(a),
		incidentsCmd(a),
		serveCmd(a),
	)

	return cmd
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelOnSignal()

	a := &app{out: os.Stdout}
	defer func() {
		if err := a.Close(); err != nil {
			slogctx.Warn(ctx, "closing storage failed", "error", err)
		}
	}()

	if err := rootCmd(a).ExecuteContext(ctx); err != nil {
		err = oops.In("cli").Wrapf(err, "storefront")
		slogctx.Debug(ctx, "command failed", "error", err)
		_, _ = fmt.Fprintln(os.Stderr, "error:", userMessage(err))
		return err
	}
	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
