package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/stencil/internal/version"
)

var (
	versionFormat string
	versionShort  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the stencil version, git commit, build time, Go version and
target platform.

Examples:
  stencil version                 # Show version
  stencil version --short         # Version only
  stencil version --format json   # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	info := version.GetBuildInfo()

	switch versionFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	case "text":
		if versionShort {
			fmt.Fprintln(out, version.Short())
			return nil
		}

		fmt.Fprintf(out, "stencil %s", version.Short())
		if info.Dirty {
			fmt.Fprint(out, " (dirty)")
		}
		fmt.Fprintln(out)
		if !info.BuildTime.IsZero() {
			fmt.Fprintf(out, "Built: %s\n", info.BuildTime.UTC().Format("2006-01-02 15:04:05 UTC"))
		}
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)

		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", versionFormat)
	}
}
