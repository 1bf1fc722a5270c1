// Package main provides the dossier_agent CLI: manifest building, certificate
// rendering and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/dossier-builder/internal/config"
	"github.com/jonathan/dossier-builder/internal/observability"
)

var (
	configFile string
	verbose    bool

	v      = config.New()
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "dossier_agent",
	Short: "Specialist certification dossier builder",
	Long: `dossier_agent numbers the attachments of a Swedish specialist certification
application, builds the cross-reference index and fills the official
certificate forms.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.ReadFile(v, configFile); err != nil {
			return err
		}
		var err error
		cfg, err = config.Decode(v)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = observability.NewLogger(cfg.LogLevel, cfg.Verbose)
		return err
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to a YAML or JSON config file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("template-dir", config.DefaultTemplateDir, "Directory holding the blank certificate forms")
	flags.String("template-base-url", "", "Fetch certificate forms from this URL instead of --template-dir")
	flags.Int("concurrency", config.DefaultRenderConcurrency, "Certificates rendered in parallel by bundle")

	bindFlag(v, "verbose", "verbose")
	bindFlag(v, "log_level", "log-level")
	bindFlag(v, "template_dir", "template-dir")
	bindFlag(v, "template_base_url", "template-base-url")
	bindFlag(v, "render_concurrency", "concurrency")
}

func bindFlag(v *viper.Viper, key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", flag, err))
	}
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
