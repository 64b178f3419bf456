// Command xsessiond assembles the session service registry over an
// in-process supervisor and keeps it running until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	xsession "github.com/axondata/go-xsession"
)

var (
	debug       bool
	sessionFile string
)

func main() {
	root := &cobra.Command{
		Use:   "xsessiond",
		Short: "Run the declarative session service registry",
		Long: `xsessiond assembles the baseline daemons, the miscellaneous
composites, and one service family per supported display, registers them
with an in-process supervisor, and starts the baseline target.

Set ` + xsession.EnvAutostart + `="" or "0" to register without starting
anything.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.Flags().StringVar(&sessionFile, "session-file", "", "publish session variables to this path")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !debug {
		logger = logger.Level(zerolog.InfoLevel)
	}

	cfg, err := xsession.LoadConfig()
	if err != nil {
		return err
	}
	if sessionFile != "" {
		cfg.SessionFile = sessionFile
	}

	env, err := xsession.NewSessionEnv(xsession.WithLogger(logger))
	if err != nil {
		return err
	}

	sup := xsession.NewLocal(xsession.WithLocalLogger(logger))
	reg := xsession.NewRegistry(env, sup,
		xsession.WithConfig(cfg),
		xsession.WithRegistryLogger(logger),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := reg.Register(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logger.Info().Str("bus", env.BusAddress()).Msg("session registry running")
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutting down")

	// Best-effort teardown; the target always reports stopped.
	_ = sup.Stop(ctx, xsession.TargetDaemons)
	return nil
}
