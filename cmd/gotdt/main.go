// Command gotdt translates technical documents and serves the translation API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gotdt"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = gotdt.Version
	commit    = gotdt.GitCommit
	buildDate = gotdt.BuildDate
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   gotdt.Name,
		Short: "Technical document translator",
		Long: `gotdt translates technical documents while keeping code blocks, inline
code and literal markup intact, and rewrites known technical terms to their
canonical form in the target language.

Settings come from a YAML file (--config, default gotdt.yaml), a .env file
and the environment; the environment wins.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file (default: gotdt.yaml if present)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Environment file to load (default: .env if present)")

	root.AddCommand(
		newServeCmd(a),
		newTranslateCmd(a),
		newTermsCmd(a),
		newLanguagesCmd(a),
		newCacheCmd(a),
		newVersionCmd(a),
	)

	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "%s %s\n", gotdt.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(a.stdout, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(a.stdout, "  built:   %s\n", buildDate)
			}
		},
	}
}
