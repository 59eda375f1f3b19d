package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/stencil/internal/config"
	"github.com/conneroisu/stencil/internal/errors"
	"github.com/conneroisu/stencil/internal/logging"
	"github.com/conneroisu/stencil/internal/server"
	"github.com/conneroisu/stencil/internal/site"
)

var (
	cfgFile string
	devMode bool
)

var rootCmd = &cobra.Command{
	Use:   "stencil",
	Short: "Build a static site from templates, styles and public assets",
	Long: `Stencil renders a directory of templates into HTML pages, compiles SCSS
styles to CSS and mirrors the public directory into a build directory.

Pages are listed in the "pages" section of .stencil.yml. Shared data can be
supplied through a globals file, which takes precedence over page data.

Examples:
  stencil                   Build into ./build
  stencil --dev             Build into ./.devbuild and serve it locally
  stencil check             Render every page without writing output`,
	SilenceUsage: true,
	RunE:         runBuild,
}

// Execute runs the root command and prints a hint for known failures.
func Execute() error {
	err := rootCmd.Execute()
	if hint := errors.Suggestion(err); hint != "" {
		fmt.Fprintln(os.Stderr, "hint:", hint)
	}

	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .stencil.yml, can also use STENCIL_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("url", "", "production base URL")
	bindFlags(rootCmd.PersistentFlags(), "log-level", "url")

	rootCmd.Flags().BoolVarP(&devMode, "dev", "d", false, "build into .devbuild and serve it on "+server.DevAddress)
}

// initConfig wires the config sources. Precedence, highest first: flags,
// STENCIL_* environment variables, then the config file from --config,
// STENCIL_CONFIG_FILE or ./.stencil.yml.
func initConfig() {
	// a missing .env is fine
	_ = godotenv.Load(".env")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("STENCIL_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stencil")
	}

	viper.SetEnvPrefix("STENCIL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags makes the named flags override config file and env values.
func bindFlags(fs *pflag.FlagSet, names ...string) {
	fs.VisitAll(func(f *pflag.Flag) {
		for _, name := range names {
			if f.Name == name {
				viper.BindPFlag(name, f)
			}
		}
	})
}

func newLogger(cmd *cobra.Command) (logging.Logger, error) {
	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}

	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: "text",
		Output: cmd.ErrOrStderr(),
	}), nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	s, err := site.New(*cfg, devMode, site.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := s.AddManifest(cfg.Pages); err != nil {
		return err
	}

	result, err := s.Finish(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !devMode {
		fmt.Fprintf(out, "Build completed: %d pages, %d styles -> %s\n", result.Pages, result.Styles, result.BuildDir)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "Serving %s at http://%s\n", result.BuildDir, server.DevAddress)

	return s.Serve(ctx)
}
