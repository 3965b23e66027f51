package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/analytics"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/console"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

// App is the salesctl command line. It loads the dataset, evaluates the
// dashboard for the selection given in flags, prints it and writes reports.
type App struct {
	rootCmd  *cobra.Command
	console  *console.Console
	exporter *export.Exporter
	stderr   io.Writer
}

func NewApp(version string) *App {
	return NewAppWithOutput(version, os.Stdout, os.Stderr)
}

// NewAppWithOutput writes reports and tables to stdout and logs to stderr.
func NewAppWithOutput(version string, stdout, stderr io.Writer) *App {
	app := &App{
		console:  console.NewConsoleTo(stdout),
		exporter: export.NewExporter(),
		stderr:   stderr,
	}

	rootCmd := &cobra.Command{
		Use:           "salesctl",
		Short:         "Sales analytics dashboard reports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetVersionTemplate(`{{printf "salesctl version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("dataset", "f", "", "Transactions file: .csv, .zip, .gz or s3://bucket/key (default: $DATASET_PATH)")
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Presentation settings file: TOML, YAML or JSON")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Evaluate all six charts and print or export them",
		Args:  cobra.NoArgs,
		RunE:  app.runReport,
	}
	reportCmd.Flags().String("branch", "", "Store branch for the overview charts (default: first branch)")
	reportCmd.Flags().Bool("apply-branch", false, "Apply the branch filter to the overview charts")
	reportCmd.Flags().String("month", "", "Month for the overview charts (default: first month)")
	reportCmd.Flags().Bool("apply-month", false, "Apply the month filter to the overview charts")
	reportCmd.Flags().String("branch-month", "", "Month for the per-branch charts (default: first month)")
	reportCmd.Flags().Bool("apply-branch-month", false, "Apply the month filter to the per-branch charts")
	reportCmd.Flags().StringSliceP("report-type", "y", nil, "Report files to write: csv, json, pdf")
	reportCmd.Flags().StringP("report-name", "n", "sales_dashboard", "Base name for report files (without extension)")
	reportCmd.Flags().StringP("dir", "d", "", "Directory to save report files (default: current directory)")
	reportCmd.Flags().BoolP("quiet", "q", false, "Do not print the dashboard to the terminal")

	dimensionsCmd := &cobra.Command{
		Use:   "dimensions",
		Short: "List the selectable branches and months",
		Args:  cobra.NoArgs,
		RunE:  app.runDimensions,
	}

	rootCmd.AddCommand(reportCmd, dimensionsCmd)
	app.rootCmd = rootCmd
	return app
}

func (app *App) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

func (app *App) Execute(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

func analyticsOptions(cfg config.DashboardConfig) analytics.Options {
	opts := analytics.DefaultOptions()
	opts.OnlineBranch = cfg.OnlineBranch
	opts.NonMemberID = cfg.NonMemberID
	opts.TopN = cfg.TopN
	return opts
}

// loadService builds the analytics service and loads the dataset named by
// the flags or the environment.
func (app *App) loadService(cmd *cobra.Command) (*services.Analytics, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := observability.NewLoggerTo(app.stderr, cfg.Logger)

	path, _ := cmd.Flags().GetString("dataset")
	if path == "" {
		path = cfg.Dataset.Path
	}
	presentationFile, _ := cmd.Flags().GetString("config-file")
	if presentationFile == "" {
		presentationFile = cfg.Dashboard.PresentationFile
	}

	presentation, err := config.LoadPresentation(presentationFile)
	if err != nil {
		return nil, nil, err
	}

	svc := services.NewAnalytics(analyticsOptions(cfg.Dashboard), presentation, logger)
	loader := dataset.NewLoader(logger, dataset.WithS3Region(cfg.Dataset.S3Region))

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Dataset.LoadTimeout)
	defer cancel()
	if err := svc.Load(ctx, loader, path); err != nil {
		return nil, nil, err
	}
	return svc, logger, nil
}

func selectionFromFlags(cmd *cobra.Command) models.Selection {
	flags := cmd.Flags()
	branch, _ := flags.GetString("branch")
	applyBranch, _ := flags.GetBool("apply-branch")
	month, _ := flags.GetString("month")
	applyMonth, _ := flags.GetBool("apply-month")
	branchMonth, _ := flags.GetString("branch-month")
	applyBranchMonth, _ := flags.GetBool("apply-branch-month")

	return models.Selection{
		Overview: models.OverviewFilters{
			Branch:      branch,
			ApplyBranch: applyBranch,
			Month:       month,
			ApplyMonth:  applyMonth,
		},
		PerBranch: models.PerBranchFilters{
			Month:      branchMonth,
			ApplyMonth: applyBranchMonth,
		},
	}
}

func (app *App) runReport(cmd *cobra.Command, _ []string) error {
	reportTypes, _ := cmd.Flags().GetStringSlice("report-type")
	for _, t := range reportTypes {
		switch strings.ToLower(t) {
		case export.FormatCSV, export.FormatJSON, export.FormatPDF:
		default:
			return fmt.Errorf("unsupported report type %q: use csv, json or pdf", t)
		}
	}

	svc, logger, err := app.loadService(cmd)
	if err != nil {
		return err
	}

	dash, err := svc.Dashboard(cmd.Context(), selectionFromFlags(cmd))
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		if err := app.console.RenderDashboard(dash); err != nil {
			return err
		}
	}

	name, _ := cmd.Flags().GetString("report-name")
	dir, _ := cmd.Flags().GetString("dir")
	for _, t := range reportTypes {
		path, err := app.exporter.Write(strings.ToLower(t), dash, name, dir)
		if err != nil {
			return err
		}
		logger.Info("report written", "type", t, "path", path)
		if !quiet {
			app.console.LogSuccess("%s report saved to %s", strings.ToUpper(t), path)
		}
	}
	return nil
}

func (app *App) runDimensions(cmd *cobra.Command, _ []string) error {
	svc, _, err := app.loadService(cmd)
	if err != nil {
		return err
	}
	dims, err := svc.Dimensions()
	if err != nil {
		return err
	}
	return app.console.RenderDimensions(dims)
}
