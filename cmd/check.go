package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/stencil/internal/config"
	"github.com/conneroisu/stencil/internal/site"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Render every manifest page without writing output",
	Long: `Load the templates, styles and globals and render every page listed in
the configuration. Nothing is written and the build directory is left as is.

A failing template is reported with its name and the engine's message.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	s, err := site.Open(*cfg, false, site.WithLogger(logger))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, page := range cfg.Pages {
		if page.Plain() {
			fmt.Fprintf(out, "ok    %s (plain)\n", page.Path)
			continue
		}

		var data any
		if page.Data != nil {
			data = page.Data
		}
		if _, err := s.Render(page.Template, data); err != nil {
			return fmt.Errorf("page %s: %w", page.Path, err)
		}
		fmt.Fprintf(out, "ok    %s (%s)\n", page.Path, page.Template)
	}

	fmt.Fprintf(out, "%d pages checked, %d templates loaded\n", len(cfg.Pages), len(s.Templates()))

	return nil
}
