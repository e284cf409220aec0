package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exporter writes booking reports as xlsx workbooks.
type Exporter struct {
	bookings domain.BookingService
	path     string
	logger   *zerolog.Logger
}

func NewExporter(bookings domain.BookingService, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{
		bookings: bookings,
		path:     path,
		logger:   logger,
	}
}

// BookingsReport builds a workbook of all bookings overlapping the period
// and saves it under the export directory. Returns the file path.
func (e *Exporter) BookingsReport(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	bookings, err := e.bookings.GetBookingsByDateRange(ctx, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		startDate.Format("02.01.2006"), endDate.Format("02.01.2006")))

	headers := []string{"ID", "Item", "Booker", "Start", "End", "Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	for row, b := range bookings {
		e.writeBookingRow(f, sheetName, row+3, b)
	}

	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 20)

	_ = f.MergeCell(sheetName, "A1", "F1")
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", style)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}

func (e *Exporter) writeBookingRow(f *excelize.File, sheetName string, row int, b *models.Booking) {
	itemName := ""
	if b.Item != nil {
		itemName = b.Item.Name
	}
	bookerName := ""
	if b.Booker != nil {
		bookerName = b.Booker.Name
	}

	values := []interface{}{
		b.ID,
		itemName,
		bookerName,
		b.Start.Format("02.01.2006 15:04"),
		b.End.Format("02.01.2006 15:04"),
		b.Status,
	}
	for col, val := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheetName, cell, val)
	}
}
