package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/l-donovan/bnf"
	"github.com/l-donovan/bnf/internal/batch"
	"github.com/l-donovan/bnf/internal/watch"
)

const contextLines = 2

func showCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Build a grammar and print it in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.load(cmd, args[0])

			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), g, a.format(format))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (bnf, compact, json, yaml)")

	return cmd
}

func normalizeCmd(a *app) *cobra.Command {
	var (
		format string
		passes []string
	)

	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Rewrite a grammar with normalization passes",
		Long: fmt.Sprintf(`Rewrite a grammar with the given normalization passes, applied in order.
Without --passes the grammar is converted to Chomsky normal form.

Available passes: %v`, bnf.PassNames()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := bnf.PipelineOf(passes...)

			if err != nil {
				return err
			}

			g, err := a.load(cmd, args[0])

			if err != nil {
				return err
			}

			normalized, err := pass(g)

			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			a.log.Debug("normalized grammar", "file", args[0], "passes", passes, "rules_before", g.Len(), "rules_after", normalized.Len())

			return a.render(cmd.OutOrStdout(), normalized, a.format(format))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (bnf, compact, json, yaml)")
	cmd.Flags().StringSliceVarP(&passes, "passes", "p", []string{"cnf"}, "Comma separated passes to apply")

	return cmd
}

func checkCmd(a *app) *cobra.Command {
	var (
		root string
		cnf  bool
	)

	cmd := &cobra.Command{
		Use:   "check [pattern...]",
		Short: "Build every grammar matching the patterns and report failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args

			if len(patterns) == 0 {
				patterns = []string{a.cfg.Batch.Pattern}
			}

			base, err := resolveRoot(root)

			if err != nil {
				return err
			}

			paths, err := a.reader.Glob(base, patterns...)

			if err != nil {
				return err
			}

			runner := &batch.Runner{
				Reader:  a.reader,
				Options: a.cfg.BuildOptions(),
				Workers: a.cfg.Batch.Workers,
				Log:     a.log,
			}

			if cnf {
				runner.Pass = bnf.ChomskyNormalForm
			}

			results, err := runner.Run(cmd.Context(), paths)

			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, result := range results {
				if result.OK() {
					fmt.Fprintf(out, "ok   %s (%d rules)\n", result.Path, result.Grammar.Len())
					continue
				}

				fmt.Fprintf(out, "FAIL %s\n", result.Path)
				reportError(out, result.Err)
			}

			failed := batch.Failed(results)

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d grammars failed", len(failed), len(results))
			}

			a.log.Info("all grammars built", "count", len(results))

			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Directory relative patterns are resolved against (default: working directory)")
	cmd.Flags().BoolVar(&cnf, "cnf", false, "Also convert each grammar to Chomsky normal form")

	return cmd
}

func watchCmd(a *app) *cobra.Command {
	var (
		format string
		passes []string
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a grammar every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := bnf.PipelineOf(passes...)

			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := watch.New(args, watch.DefaultDebounce, a.log)

			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			refresh := func(path string) {
				if err := a.refresh(out, path, pass, a.format(format)); err != nil {
					reportError(out, err)
				}
			}

			refresh(args[0])

			return w.Run(ctx, refresh)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (bnf, compact, json, yaml)")
	cmd.Flags().StringSliceVarP(&passes, "passes", "p", nil, "Comma separated passes to apply on every change")

	return cmd
}

func (a *app) refresh(w io.Writer, path string, pass bnf.Pass, format string) error {
	g, err := a.reader.Load(path, a.cfg.BuildOptions())

	if err != nil {
		return err
	}

	if g, err = pass(g); err != nil {
		return err
	}

	fmt.Fprintf(w, "--- %s\n", path)

	return a.render(w, g, format)
}

// load builds the grammar at path, printing the failing line on error.
func (a *app) load(cmd *cobra.Command, path string) (*bnf.Grammar, error) {
	g, err := a.reader.Load(path, a.cfg.BuildOptions())

	if err != nil {
		var grammarErr *bnf.GrammarError

		if errors.As(err, &grammarErr) {
			_ = grammarErr.PrintContext(cmd.ErrOrStderr(), contextLines)
		}

		return nil, err
	}

	a.log.Debug("built grammar", "file", path, "rules", g.Len())

	return g, nil
}

func (a *app) format(flag string) string {
	if flag != "" {
		return flag
	}

	return a.cfg.Render.Format
}

func (a *app) render(w io.Writer, g *bnf.Grammar, format string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "bnf":
		data = []byte(bnf.RenderWith(g, a.cfg.Serializer()))
	case "compact":
		data = []byte(bnf.RenderCompact(g))
	case "json":
		data, err = bnf.MarshalJSON(g, !a.cfg.Render.Minify)
	case "yaml":
		data, err = bnf.MarshalYAML(g)
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "%v\n", err)

	var grammarErr *bnf.GrammarError

	if errors.As(err, &grammarErr) {
		_ = grammarErr.PrintContext(w, contextLines)
	}
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)

	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	return abs, nil
}
