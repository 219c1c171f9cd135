// Package report renders registration records into spreadsheet files.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"recruitbot/internal/platform/metrics"
	"recruitbot/internal/registration/models"
	dErrors "recruitbot/pkg/domain-errors"
	"recruitbot/pkg/requestcontext"
)

const (
	// SheetName is the only sheet in a report workbook.
	SheetName = "Отчет"

	filePrefix    = "report_"
	fileExtension = ".xlsx"
	fileTimestamp = "20060102_150405"
	dateTimeCell  = "2006-01-02 15:04:05"
	firstDataRow  = 3
)

var headers = []string{
	"Фамилия", "Имя", "Отчество", "Дата рождения", "Телефон",
	"ВУС и профессия", "Санация", "Справки", "Загранпаспорт",
	"Контракты", "Дата регистрации",
}

var columnWidths = []float64{15, 15, 15, 15, 15, 30, 10, 10, 12, 10, 20}

// RecordLister is the read side of the record store.
type RecordLister interface {
	// ListSince returns records registered at or after cutoff, newest first.
	ListSince(ctx context.Context, cutoff time.Time) ([]*models.Record, error)
}

type Generator struct {
	records RecordLister
	dir     string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Generator)

// WithDir sets the directory report files are written to.
func WithDir(dir string) Option {
	return func(g *Generator) {
		g.dir = dir
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

func New(records RecordLister, opts ...Option) (*Generator, error) {
	if records == nil {
		return nil, errors.New("record store is required")
	}
	g := &Generator{records: records, dir: "."}
	for _, opt := range opts {
		opt(g)
	}
	if err := os.MkdirAll(g.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return g, nil
}

// FileName is the report file name for period generated at now.
func FileName(period Period, now time.Time) string {
	return filePrefix + string(period) + "_" + now.Format(fileTimestamp) + fileExtension
}

// Generate writes the report for period and returns the file path. The caller
// owns the file and removes it after delivery.
func (g *Generator) Generate(ctx context.Context, period Period) (string, error) {
	now := requestcontext.Now(ctx)

	recs, err := g.records.ListSince(ctx, period.Cutoff(now))
	if err != nil {
		g.metrics.IncrementReports(string(period), "failed")
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
	}

	f, err := Render(period, recs, now.Location())
	if err != nil {
		g.metrics.IncrementReports(string(period), "failed")
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to render report")
	}
	defer f.Close()

	path := filepath.Join(g.dir, FileName(period, now))
	if err := f.SaveAs(path); err != nil {
		g.metrics.IncrementReports(string(period), "failed")
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to save report")
	}

	g.metrics.IncrementReports(string(period), "generated")
	if g.logger != nil {
		g.logger.InfoContext(ctx, "report generated",
			"period", period,
			"records", len(recs),
			"path", path,
		)
	}
	return path, nil
}

// Render builds the workbook in memory. Registration times are shown in loc.
func Render(period Period, recs []*models.Record, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, err
	}
	if err := layout(f, period); err != nil {
		f.Close()
		return nil, err
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, rec := range recs {
		row := firstDataRow + i
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(len(headers), row)
		values := []any{
			rec.LastName,
			rec.FirstName,
			rec.Patronymic,
			rec.BirthDate,
			rec.PhoneNumber,
			rec.MilitarySpec,
			yesNo(rec.DentalSanation),
			yesNo(rec.MedicalCertificates),
			yesNo(rec.ForeignPassport),
			yesNo(rec.ActiveContracts),
			rec.RegisteredAt.In(loc).Format(dateTimeCell),
		}
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellStyle(SheetName, start, end, cellStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// layout writes the title, the header row and the column widths.
func layout(f *excelize.File, period Period) error {
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"CCCCCC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellValue(SheetName, "A1", "Отчет по регистрациям "+period.Title()); err != nil {
		return err
	}
	if err := f.MergeCell(SheetName, "A1", lastCol+"1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", titleStyle); err != nil {
		return err
	}

	if err := f.SetSheetRow(SheetName, "A2", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A2", lastCol+"2", headerStyle); err != nil {
		return err
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func yesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}
