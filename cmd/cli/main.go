package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	apperrors "tcdump/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if apperrors.IsAppError(err) {
			fmt.Fprintf(os.Stderr, "[%s] %v\n", apperrors.GetCode(err), err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "tcdump",
		Short: "Convert spreadsheet test cases into test-management project dump elements",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is fine; the environment and flags still apply
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return apperrors.Wrapf(err, "failed to load %s", envFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading configuration")

	rootCmd.AddCommand(
		newConvertCmd(),
		newInspectCmd(),
	)
	return rootCmd
}

func newConvertCmd() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert [spreadsheet]",
		Short: "Convert a test case sheet and update the project dump",
		Long: `Convert the Precondition, Action and Expected Result columns of a test case
sheet into datatypes, interactions and one test case.

Writes the JSON inventory, the <test-elements> and <testcase> XML files, then
replaces those sections in the project dump (keeping a .bak copy), checks the
result and zips it.

Configuration is read from the environment (TCDUMP_* variables, LOG_LEVEL)
after loading the env file; flags override it.

Example: tcdump convert cases.xlsx --project-dump project_dump.xml --seed 42`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd, args)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync()

			_, err = runConvert(cmd.Context(), cfg, logger, cmd.OutOrStdout())
			return err
		},
	}

	opts.bind(cmd)
	return cmd
}

func newInspectCmd() *cobra.Command {
	var opts convertOptions
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [spreadsheet]",
		Short: "Parse a test case sheet and print what a conversion would produce",
		Long: `Parse a test case sheet and print the conversion summary without writing
any file. With --json the per-row inventory is printed instead.

Example: tcdump inspect cases.xlsx --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd, args)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync()

			return runInspect(cmd.Context(), cfg, logger, cmd.OutOrStdout(), asJSON)
		},
	}

	opts.bindInput(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the per-row inventory as JSON")
	return cmd
}
