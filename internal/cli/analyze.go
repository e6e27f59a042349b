package cli

import (
	"fmt"
	"time"

	"github.com/picklr-io/planrisk/internal/logging"
	"github.com/picklr-io/planrisk/internal/planfile"
	"github.com/picklr-io/planrisk/internal/report"
	"github.com/spf13/cobra"
)

const defaultAWSRegion = "us-east-1"

var (
	analyzeJSON    bool
	analyzeOutFile string
	analyzeFailOn  string
	analyzePublish bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <plan>",
	Short: "Analyze a Terraform JSON plan",
	Long: `Analyzes a plan produced by "terraform show -json" and prints its risk
and cost report.

The plan may be a local file, "-" for stdin, or an s3://bucket/key URL.
With --fail-on, the command exits with status 2 when the overall risk
level is at or above the given level.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output in JSON format")
	analyzeCmd.Flags().StringVarP(&analyzeOutFile, "out", "o", "", "Also write the JSON report to file")
	analyzeCmd.Flags().StringVar(&analyzeFailOn, "fail-on", "", "Fail when overall risk is at or above this level")
	analyzeCmd.Flags().BoolVar(&analyzePublish, "publish", false, "Upload the JSON report to the configured S3 bucket")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	location := args[0]

	region := settings.AWSRegion
	if region == "" {
		region = defaultAWSRegion
	}

	plan, err := planfile.Open(ctx, &planfile.SourceConfig{
		Location: location,
		Region:   region,
		Profile:  settings.AWSProfile,
		Stdin:    cmd.InOrStdin(),
	})
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}

	analysis := settings.NewEngine().Analyze(plan)
	logging.Info("plan analyzed",
		"plan", location,
		"resources", analysis.TotalResources,
		"overall_risk", analysis.OverallRiskLevel,
	)

	out := cmd.OutOrStdout()
	if analyzeJSON {
		if err := report.WriteJSON(out, analysis); err != nil {
			return err
		}
	} else {
		report.NewTextRenderer(out, !useColor(out)).Render(analysis)
	}

	if analyzeOutFile != "" {
		if err := report.WriteJSONFile(analyzeOutFile, analysis); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%sReport written to %s%s\n", colorize(colorGreen), analyzeOutFile, colorize(colorReset))
	}

	if analyzePublish {
		if settings.ReportBucket == "" {
			return fmt.Errorf("--publish requires report_bucket in settings")
		}
		client, err := planfile.NewS3Client(ctx, region, settings.AWSProfile)
		if err != nil {
			return fmt.Errorf("failed to initialize report publisher: %w", err)
		}
		pub, err := report.NewS3Publisher(client, settings.ReportBucket, settings.ReportPrefix)
		if err != nil {
			return err
		}
		url, err := pub.Publish(ctx, reportName(location, time.Now()), analysis)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%sReport published to %s%s\n", colorize(colorGreen), url, colorize(colorReset))
	}

	failOn := analyzeFailOn
	if failOn == "" {
		failOn = settings.FailOn
	}
	return checkThreshold(analysis.OverallRiskLevel, failOn)
}
