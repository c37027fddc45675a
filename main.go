package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger *zap.Logger

func newRootCmd(cfg *Config, in *os.File, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "mottagning",
		Short: "Clinic reception training simulator",
		Long: `mottagning calls patients in one at a time. Type short commands to hear
their history, order tests, give a diagnosis and suggest a treatment.

Commands are matched by prefix: "n" calls in the next patient, "t crp" orders a CRP.
Run without a subcommand to start playing.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logger != nil {
				return nil
			}
			var err error
			logger, err = NewLogger(*cfg)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cfg, in, out)
		},
	}
	bindCatalogFlags(root, cfg)
	bindPlayFlags(root, cfg)

	play := &cobra.Command{
		Use:   "play",
		Short: "Play interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cfg, in, out)
		},
	}
	bindPlayFlags(play, cfg)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator as an MCP tool over streamable HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	bindServeFlags(serve, cfg)

	cases := &cobra.Command{
		Use:   "cases",
		Short: "List the cases and default tests in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCases(cfg, cmd.OutOrStdout())
		},
	}

	root.AddCommand(play, serve, cases)
	return root
}

func runPlay(cfg *Config, in *os.File, out io.Writer) error {
	catalog, err := LoadCatalog(cfg.CasesPath, cfg.TestsPath)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.Int("cases", catalog.Len()), zap.Int("tests", len(catalog.Tests)))

	game, err := NewGame(catalog, NewTerminal(out), *cfg, logger)
	if err != nil {
		return err
	}
	if cfg.Resume {
		if _, err := game.Resume(); err != nil {
			return err
		}
	}
	cmdHelp(game.Session, nil)

	reader := newLineReader(in, out, cfg.Headless)
	for {
		line, err := reader.ReadLine("> ")
		if errors.Is(err, io.EOF) {
			outPrintln(out, "👋 Mottagningen stänger.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if err := game.Execute(line); err != nil {
			outPrintf(out, "Kunde inte spara sessionen: %v\n", err)
		}
	}
}

func runServe(ctx context.Context, cfg *Config) error {
	catalog, err := LoadCatalog(cfg.CasesPath, cfg.TestsPath)
	if err != nil {
		return err
	}
	server, err := NewMCPServer(catalog, *cfg, logger)
	if err != nil {
		return err
	}
	return RunMCPHTTP(ctx, server)
}

func runCases(cfg *Config, out io.Writer) error {
	catalog, err := LoadCatalog(cfg.CasesPath, cfg.TestsPath)
	if err != nil {
		return err
	}
	outPrintln(out, "Patienter:")
	for i, c := range catalog.Cases {
		outPrintf(out, "  %d. %s (%d repliker, %d egna tester)\n", i+1, c.Name, len(c.History), len(c.Tests))
	}
	outPrintln(out, "Standardtester:")
	for _, t := range catalog.Tests {
		outPrintf(out, "  - %s\n", t.Key)
	}
	return nil
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&cfg, os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
