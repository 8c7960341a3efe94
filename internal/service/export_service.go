package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/pkg/export"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type examResultsProvider interface {
	Results(ctx context.Context, token, examID string) (*ExamView, error)
}

// ExportFormat names a supported report output.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered report ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders exam report cards as CSV or PDF downloads.
type ExportService struct {
	exams   examResultsProvider
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
	enabled bool
}

// NewExportService constructs an ExportService instance.
func NewExportService(exams examResultsProvider, logger *zap.Logger, enabled bool) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		exams:   exams,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		enabled: enabled,
	}
}

// ReportCard renders the classified results of an exam in the requested
// format.
func (s *ExportService) ReportCard(ctx context.Context, token, examID string, format ExportFormat) (*ExportFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	view, err := s.exams.Results(ctx, token, examID)
	if err != nil {
		return nil, err
	}

	dataset := buildReportDataset(view)
	title := view.Exam.Name
	if title == "" {
		title = "Report Card"
	}

	switch format {
	case FormatCSV:
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ExportFile{
			Filename:    exportFilename(title, "csv"),
			ContentType: "text/csv",
			Body:        body,
		}, nil
	case FormatPDF:
		body, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ExportFile{
			Filename:    exportFilename(title, "pdf"),
			ContentType: "application/pdf",
			Body:        body,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildReportDataset(view *ExamView) export.Dataset {
	headers := []string{"Student", "Marks", "Total", "Percent", "Grade", "Outcome"}
	rows := make([]map[string]string, 0, len(view.Results))
	for _, result := range view.Results {
		name := result.Result.StudentName
		if name == "" {
			name = result.Result.StudentID
		}
		rows = append(rows, map[string]string{
			"Student": name,
			"Marks":   fmt.Sprintf("%g", result.Result.MarksObtained),
			"Total":   fmt.Sprintf("%g", view.Exam.TotalMarks),
			"Percent": fmt.Sprintf("%.2f", result.Percent),
			"Grade":   result.Letter,
			"Outcome": string(result.Outcome),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func exportFilename(title, ext string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "report-card"
	}
	return slug + "." + ext
}
