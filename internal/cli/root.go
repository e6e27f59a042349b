package cli

import (
	"context"
	"strings"

	"github.com/picklr-io/planrisk/internal/eval"
	"github.com/picklr-io/planrisk/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	noColor    bool

	// settings is loaded once per invocation before any subcommand runs.
	settings *eval.Settings
)

var rootCmd = &cobra.Command{
	Use:   "planrisk",
	Short: "Risk and cost analysis for Terraform plans",
	Long: `Planrisk reads a Terraform JSON plan (terraform show -json) and reports
what the change will do before you apply it:
  • A risk score and level for every resource change
  • The reasons behind each score
  • An advisory monthly cost delta from a fixed price table
  • A plan-wide risk level usable as a CI gate`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Settings file (.pkl, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(pricingCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	s, err := eval.Load(cmd.Context(), configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		s.LogLevel = strings.ToLower(logLevel)
		if err := s.Validate(); err != nil {
			return err
		}
	}

	logging.InitWithFormat(s.LogLevel, s.LogFormat)
	logging.Debug("settings ready", "config", configFile, "log_format", s.LogFormat)

	settings = s
	return nil
}
