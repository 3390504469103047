// =============================================================================
// Kebab Dashboard - Export Entry Points
// =============================================================================
//
// Exporter ties the three formatters to an aggregation result:
//
//   KIND    FORMATTER         INPUT
//   pdf     BuildTable        grouped orders + summary
//   xlsx    BuildSheet        raw records + summary
//   print   BuildPrintView    grouped orders + summary
//
// The terminal I/O (file download, new tab, disk file) belongs to the caller:
// Exporter only writes the document to an io.Writer.
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ginjaninja78/kebab-dashboard/internal/aggregator"
	"github.com/ginjaninja78/kebab-dashboard/pkg/utils"
)

// ReportTitle heads every export.
const ReportTitle = "Laporan Transaksi"

// DefaultFileNameFormat names exports "<prefix>_<timestamp>.<ext>".
const DefaultFileNameFormat = "{prefix}_{timestamp}"

// DateLabel describes the optional day filter.
func DateLabel(day *aggregator.Day) string {
	if day == nil {
		return "Semua Tanggal"
	}
	return "Tanggal: " + day.String()
}

// =============================================================================
// EXPORT KINDS
// =============================================================================

// Kind is an export format.
type Kind string

const (
	KindPDF         Kind = "pdf"
	KindSpreadsheet Kind = "xlsx"
	KindPrint       Kind = "print"
)

// ParseKind accepts the kind names and a few aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return KindPDF, nil
	case "xlsx", "excel", "spreadsheet":
		return KindSpreadsheet, nil
	case "print", "html":
		return KindPrint, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Extension returns the file extension including the dot.
func (k Kind) Extension() string {
	switch k {
	case KindPDF:
		return ".pdf"
	case KindSpreadsheet:
		return ".xlsx"
	default:
		return ".html"
	}
}

// ContentType returns the MIME type of the document.
func (k Kind) ContentType() string {
	switch k {
	case KindPDF:
		return "application/pdf"
	case KindSpreadsheet:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/html; charset=utf-8"
	}
}

// Attachment reports whether the document is downloaded rather than shown.
func (k Kind) Attachment() bool {
	return k != KindPrint
}

// =============================================================================
// EXPORTER
// =============================================================================

// Exporter writes aggregation results in any supported format.
type Exporter struct {
	// FileNameFormat is expanded by utils.GenerateOutputFileName.
	FileNameFormat string

	// Prefix is substituted for {prefix}.
	Prefix string

	// Now stamps documents and file names.
	Now func() time.Time
}

// NewExporter creates an Exporter with the given file name format.
func NewExporter(fileNameFormat string) *Exporter {
	if fileNameFormat == "" {
		fileNameFormat = DefaultFileNameFormat
	}
	return &Exporter{
		FileNameFormat: fileNameFormat,
		Prefix:         "laporan_transaksi",
		Now:            time.Now,
	}
}

// Write renders result as kind into w.
func (e *Exporter) Write(kind Kind, w io.Writer, result aggregator.Result) error {
	now := e.Now()

	switch kind {
	case KindPDF:
		return WritePDF(w, BuildTable(result.Orders, result.Summary, result.Day, result.Location))
	case KindSpreadsheet:
		return WriteSpreadsheet(w, BuildSheet(result.Records, result.Summary, result.Day, now, result.Location))
	case KindPrint:
		return WritePrintView(w, BuildPrintView(result.Orders, result.Summary, result.Day, now, result.Location))
	default:
		return fmt.Errorf("unknown export format %q", kind)
	}
}

// FileName returns the export file name for kind, stamped with the current
// time.
func (e *Exporter) FileName(kind Kind, day *aggregator.Day) string {
	date := "semua"
	if day != nil {
		date = day.String()
	}
	params := map[string]string{
		"prefix": e.Prefix,
		"date":   date,
	}
	return utils.GenerateOutputFileName(e.FileNameFormat, params, kind.Extension(), e.Now())
}
