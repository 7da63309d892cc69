// Command seleq generates typed GraphQL clients and compiles operation call
// sites into query documents ahead of execution.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seleq-dev/seleq"
	"github.com/seleq-dev/seleq/compiler"
	"github.com/seleq-dev/seleq/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seleq:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:           "seleq",
		Short:         "Typed GraphQL clients with queries compiled ahead of execution",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultFile, "config file path")
	cmd.AddCommand(newGenerateCommand(&cfgPath))
	cmd.AddCommand(newQueriesCommand(&cfgPath))
	cmd.AddCommand(newCheckCommand(&cfgPath))
	return cmd
}

func newGenerateCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate the typed client for the configured schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if err := seleq.Generate(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.Output.Path)
			return nil
		},
	}
}

func newQueriesCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "Compile operation call sites and write the registration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			res, err := seleq.Queries(cfg)
			if err != nil {
				return err
			}
			printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)
			if res.Failed() {
				return fmt.Errorf("compilation failed with %d error(s)", errorCount(res.Diagnostics))
			}
			for _, site := range res.Sites {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\t%s\n", site.Key, site.Document)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.Queries.Output)
			return nil
		},
	}
}

func newCheckCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compile every operation call site without writing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			res, err := seleq.Check(cfg)
			if err != nil {
				return err
			}
			printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)
			if res.Failed() {
				return fmt.Errorf("compilation failed with %d error(s)", errorCount(res.Diagnostics))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d call site(s)\n", len(res.Sites))
			return nil
		},
	}
}

func printDiagnostics(w io.Writer, diags []compiler.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.Error())
	}
}

func errorCount(diags []compiler.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == compiler.SeverityError {
			n++
		}
	}
	return n
}
