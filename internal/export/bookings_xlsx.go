package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of generated workbooks.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const bookingsSheet = "Bookings"

// BookingRow is one exported booking. Amounts are in minor currency units.
type BookingRow struct {
	BookingID       string
	TenantID        string
	PropertyID      string
	PropertyName    string
	RoomID          string
	Status          string
	MonthlyRent     int64
	SecurityDeposit int64
	StartDate       time.Time
	EndDate         *time.Time
	CreatedAt       time.Time
}

var bookingHeader = []struct {
	title string
	width float64
}{
	{"Booking ID", 38},
	{"Tenant ID", 38},
	{"Property ID", 38},
	{"Property", 28},
	{"Room ID", 38},
	{"Status", 12},
	{"Monthly Rent", 14},
	{"Security Deposit", 16},
	{"Start Date", 12},
	{"End Date", 12},
	{"Created At", 20},
}

// BookingsWorkbook renders rows into an .xlsx document with a frozen header row.
func BookingsWorkbook(rows []BookingRow) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close happens explicitly after it.

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range bookingHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(bookingsSheet, cell, h.title); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(bookingsSheet, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(bookingsSheet, col, col, h.width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		values := []interface{}{
			r.BookingID,
			r.TenantID,
			r.PropertyID,
			r.PropertyName,
			r.RoomID,
			r.Status,
			r.MonthlyRent,
			r.SecurityDeposit,
			r.StartDate.Format("2006-01-02"),
			formatOptionalDate(r.EndDate),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(bookingsSheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(bookingsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
