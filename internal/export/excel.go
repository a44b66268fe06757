package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wayfarer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// ExcelExporter renders booking reports as xlsx workbooks, grouped by
// check-in day.
type ExcelExporter struct {
	repo       domain.Repository
	exportPath string
	logger     *zerolog.Logger
}

func NewExcelExporter(repo domain.Repository, exportPath string, logger *zerolog.Logger) *ExcelExporter {
	return &ExcelExporter{
		repo:       repo,
		exportPath: exportPath,
		logger:     logger,
	}
}

// Generate builds the workbook for bookings with a check-in inside the
// period. The caller owns the returned file and must Close it.
func (e *ExcelExporter) Generate(ctx context.Context, startDate, endDate time.Time) (*excelize.File, error) {
	dailyBookings, err := e.repo.GetDailyBookings(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("error getting bookings: %v", err)
	}

	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		startDate.Format("02.01.2006"), endDate.Format("02.01.2006")))
	_ = f.MergeCell(sheetName, "A1", "H1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	row := writeHeaders(f, 2, headerStyle)

	// Walk days in order so the report is stable
	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		bookings := dailyBookings[day.Format("2006-01-02")]
		for _, b := range bookings {
			setRow(f, row, []interface{}{
				b.Reference,
				b.HotelName,
				b.CheckInDate.Format("02.01.2006"),
				b.CheckOutDate.Format("02.01.2006"),
				b.Guests,
				b.TotalAmount,
				b.Currency,
				b.Status,
			})
			row++
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 15)
	_ = f.SetColWidth(sheetName, "B", "B", 30)
	_ = f.SetColWidth(sheetName, "C", "H", 14)

	_ = f.DeleteSheet("Sheet1")

	return f, nil
}

// Export writes the report to the exports directory and returns its path.
func (e *ExcelExporter) Export(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(e.exportPath, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f, err := e.Generate(ctx, startDate, endDate)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))
	filePath := filepath.Join(e.exportPath, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

func writeHeaders(f *excelize.File, row int, style int) int {
	headers := []interface{}{"Reference", "Hotel", "Check-in", "Check-out", "Guests", "Total", "Currency", "Status"}
	setRow(f, row, headers)

	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(headers), row)
	_ = f.SetCellStyle(sheetName, first, last, style)

	return row + 1
}

func setRow(f *excelize.File, row int, values []interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheetName, cell, v)
	}
}
