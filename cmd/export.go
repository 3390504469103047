// =============================================================================
// Kebab Dashboard - Export Command
// =============================================================================
//
// COMMAND USAGE:
//   kebab-dashboard export [flags]
//
// FLAGS:
//   --format       : pdf | xlsx | print (default pdf)
//   --date         : only transactions on this day (YYYY-MM-DD)
//   --input        : read a saved /DetailTransaksi response instead of the backend
//   --output-dir   : override export_dir from the configuration
//   --date-subdirs : place files under YYYY/MM/DD
//   --clean-older  : remove exports older than this duration first
//
// PIPELINE:
//   1. Load the transactions (file or backend)
//   2. Filter by day, group into orders, rank products, summarise
//   3. Render the report and write it atomically into the export directory
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/kebab-dashboard/internal/aggregator"
	"github.com/ginjaninja78/kebab-dashboard/internal/report"
	"github.com/ginjaninja78/kebab-dashboard/pkg/utils"
)

var (
	exportFormat     string
	exportDate       string
	exportInput      string
	exportOutputDir  string
	exportDateSubdir bool
	exportCleanOlder time.Duration
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a transaction report to the export directory",
	Long: `The export command aggregates the transactions and writes a PDF table,
an Excel workbook or a printable HTML page into the export directory.
File names follow file_name_format from the configuration.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	kind, err := report.ParseKind(exportFormat)
	if err != nil {
		return err
	}

	day, err := parseDayFlag(exportDate)
	if err != nil {
		return err
	}

	records, _, err := loadRecords(cmd.Context(), exportInput)
	if err != nil {
		return err
	}

	agg := newAggregator()
	result := agg.Aggregate(records, day)

	dir := cfg.ExportDir
	if exportOutputDir != "" {
		dir = exportOutputDir
	}
	fm := utils.NewFileManager(dir)
	fm.UseDateSubdirs = exportDateSubdir
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	if exportCleanOlder > 0 {
		removed, err := fm.CleanOldExports(exportCleanOlder)
		if err != nil {
			return err
		}
		appLogger.Info("old exports removed", "count", removed, "older_than", exportCleanOlder.String())
	}

	exporter := report.NewExporter(cfg.FileNameFormat)
	path, err := fm.WriteOutput(exporter.FileName(kind, day), func(w io.Writer) error {
		return exporter.Write(kind, w, result)
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	appLogger.Info("report exported",
		"kind", string(kind),
		"path", path,
		"orders", len(result.Orders),
		"records", len(result.Records))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// parseDayFlag parses an optional YYYY-MM-DD flag value.
func parseDayFlag(value string) (*aggregator.Day, error) {
	if value == "" {
		return nil, nil
	}
	day, err := aggregator.ParseDay(value)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// newAggregator builds the aggregator from the configuration.
func newAggregator() *aggregator.Aggregator {
	return aggregator.New(
		aggregator.WithLocation(cfg.Location()),
		aggregator.WithTopLimit(cfg.TopProductsLimit),
		aggregator.WithLogger(appLogger.WithComponent("aggregator")),
	)
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "Report format: pdf, xlsx or print")
	exportCmd.Flags().StringVarP(&exportDate, "date", "d", "", "Only transactions on this day (YYYY-MM-DD)")
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "Saved transaction JSON to read instead of the backend")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output-dir", "o", "", "Directory for the report (default export_dir)")
	exportCmd.Flags().BoolVar(&exportDateSubdir, "date-subdirs", false, "Write into YYYY/MM/DD subdirectories")
	exportCmd.Flags().DurationVar(&exportCleanOlder, "clean-older", 0, "Remove exports older than this before writing")

	rootCmd.AddCommand(exportCmd)
}
