package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/svec-cse/efacilities-api/internal/models"
	appErrors "github.com/svec-cse/efacilities-api/pkg/errors"
	"github.com/svec-cse/efacilities-api/pkg/export"
	"github.com/svec-cse/efacilities-api/pkg/jobs"
)

// Report formats.
const (
	ReportFormatPDF = "pdf"
	ReportFormatCSV = "csv"
)

var reportTitleLines = []string{
	"SRI VASAVI ENGINEERING COLLEGE (AUTONOMOUS)",
	"PEDATADEPALLI, TADEPALLIGUDEM-534 101. W.G.Dist.",
	"Department of Computer Science & Engineering (Accredited by NBA)",
}

var reportFooterLines = []string{
	"Vision: To evolve as a centre of academic and research excellence in the area of Computer Science and Engineering.",
	"Mission:",
	" - To utilize innovative learning methods for academic improvement.",
	" - To encourage faculty and students to match the futuristic requirements of Computer Science and Engineering.",
	" - To inculcate values and etiquette to help in bringing students into good citizens.",
}

var statsHeaders = []string{"SNO", "QUESTION", "POOR", "AVG", "ABOVE", "GOOD", "EXC", "W.AVG", "USERS"}
var statsWidths = []float64{10, 75, 15, 15, 15, 15, 15, 15, 15}

type statsAggregator interface {
	Aggregate(ctx context.Context, branches []string) (*models.StatsReport, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, meta export.ReportMeta) ([]byte, error)
}

type archiveQueue interface {
	Enqueue(jobs.Job) error
}

// ArchivePayload carries a rendered report to the archive worker.
type ArchivePayload struct {
	Filename string
	Data     []byte
}

// ExportResult is a rendered statistics report ready to be served.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService turns aggregated statistics into downloadable reports.
type ExportService struct {
	stats   statsAggregator
	csv     csvRenderer
	pdf     pdfRenderer
	archive archiveQueue
	logger  *zap.Logger
}

// NewExportService constructs an ExportService. The archive queue is
// optional; when nil, generated reports are served but not retained.
func NewExportService(stats statsAggregator, csv csvRenderer, pdf pdfRenderer, archive archiveQueue, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{stats: stats, csv: csv, pdf: pdf, archive: archive, logger: logger}
}

// Generate aggregates the filtered submissions and renders the report in the
// requested format (PDF when unspecified).
func (s *ExportService) Generate(ctx context.Context, branches []string, format string) (*ExportResult, error) {
	report, err := s.stats.Aggregate(ctx, branches)
	if err != nil {
		return nil, err
	}

	dataset := buildStatsDataset(report)
	timestamp := time.Now().Unix()

	var result *ExportResult
	switch format {
	case ReportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		result = &ExportResult{
			Filename:    fmt.Sprintf("stats-%d.csv", timestamp),
			ContentType: "text/csv",
			Payload:     payload,
		}
	case ReportFormatPDF, "":
		meta := export.ReportMeta{
			TitleLines:  reportTitleLines,
			InfoLines:   reportInfoLines(branches),
			FooterLines: reportFooterLines,
		}
		payload, err := s.pdf.Render(dataset, meta)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		result = &ExportResult{
			Filename:    fmt.Sprintf("stats-%d.pdf", timestamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format "+format)
	}

	if s.archive != nil {
		job := jobs.Job{Type: "archive-report", Payload: ArchivePayload{Filename: result.Filename, Data: result.Payload}}
		if err := s.archive.Enqueue(job); err != nil {
			s.logger.Sugar().Warnw("report archive enqueue failed", "filename", result.Filename, "error", err)
		}
	}

	return result, nil
}

func reportInfoLines(branches []string) []string {
	branchLabel := "All"
	if len(branches) > 0 {
		branchLabel = strings.Join(branches, ", ")
	}
	return []string{
		"Report: Exit Feedback on College Facilities",
		"Branch: " + branchLabel,
		"Academic Year: 2024-2025",
	}
}

func buildStatsDataset(report *models.StatsReport) export.Dataset {
	rows := make([]map[string]string, 0, len(report.Stats))
	for i, entry := range report.Stats {
		avg := "-"
		if entry.WeightedAvg != nil {
			avg = strconv.FormatFloat(*entry.WeightedAvg, 'f', 1, 64)
		}
		rows = append(rows, map[string]string{
			"SNO":      strconv.Itoa(i + 1),
			"QUESTION": entry.Question,
			"POOR":     strconv.Itoa(entry.Poor),
			"AVG":      strconv.Itoa(entry.Average),
			"ABOVE":    strconv.Itoa(entry.AboveAverage),
			"GOOD":     strconv.Itoa(entry.Good),
			"EXC":      strconv.Itoa(entry.Excellent),
			"W.AVG":    avg,
			"USERS":    strconv.Itoa(entry.TotalUsers),
		})
	}
	return export.Dataset{Headers: statsHeaders, Widths: statsWidths, Rows: rows}
}
