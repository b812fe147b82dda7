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

const bookingsSheet = "Bookings"

// Exporter writes booking reports as Excel workbooks into a configured
// directory. Owner names are resolved live through the item table.
type Exporter struct {
	store  domain.Store
	dir    string
	logger *zerolog.Logger
}

func NewExporter(store domain.Store, dir string, logger *zerolog.Logger) *Exporter {
	return &Exporter{store: store, dir: dir, logger: logger}
}

// BookingsReport dumps every booking into a dated .xlsx file and
// returns the file path.
func (e *Exporter) BookingsReport(ctx context.Context) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	bookings, err := e.store.AllBookings(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Item", "Owner ID", "Booker", "Start", "End", "Status", "Created"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, header)
		_ = f.SetCellStyle(bookingsSheet, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 2
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("B%d", row), e.itemLabel(ctx, booking.ItemID))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("C%d", row), e.ownerID(ctx, booking.ItemID))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("D%d", row), e.bookerLabel(ctx, booking.BookerID))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("E%d", row), booking.Start.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("F%d", row), booking.End.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("G%d", row), booking.Status)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("H%d", row), booking.CreatedAt.Format("02.01.2006 15:04"))

		if styleID, err := e.statusStyle(f, booking.Status); err == nil {
			cell := fmt.Sprintf("G%d", row)
			_ = f.SetCellStyle(bookingsSheet, cell, cell, styleID)
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 8)
	_ = f.SetColWidth(bookingsSheet, "B", "D", 25)
	_ = f.SetColWidth(bookingsSheet, "E", "F", 18)
	_ = f.SetColWidth(bookingsSheet, "G", "H", 16)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}

func (e *Exporter) itemLabel(ctx context.Context, itemID int64) string {
	item, err := e.store.GetItem(ctx, itemID)
	if err != nil {
		return fmt.Sprintf("item #%d", itemID)
	}
	return fmt.Sprintf("%s (#%d)", item.Name, item.ID)
}

func (e *Exporter) ownerID(ctx context.Context, itemID int64) int64 {
	item, err := e.store.GetItem(ctx, itemID)
	if err != nil {
		return 0
	}
	return item.OwnerID
}

func (e *Exporter) bookerLabel(ctx context.Context, bookerID int64) string {
	user, err := e.store.GetUser(ctx, bookerID)
	if err != nil {
		return fmt.Sprintf("user #%d", bookerID)
	}
	return fmt.Sprintf("%s (#%d)", user.Name, user.ID)
}

func (e *Exporter) statusStyle(f *excelize.File, status string) (int, error) {
	var color string
	switch status {
	case models.StatusApproved:
		color = "#C6EFCE"
	case models.StatusWaiting:
		color = "#FFEB9C"
	case models.StatusRejected, models.StatusCanceled:
		color = "#FFC7CE"
	default:
		color = "#FFFFFF"
	}
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}
