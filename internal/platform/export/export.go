// Package export builds xlsx spreadsheets of front-office records.
package export

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/frontdesk/frontdesk/pkg/pktime"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column is a sheet column. A zero Width keeps the spreadsheet default.
type Column struct {
	Header string
	Width  float64
}

// Sheet is a single-sheet workbook: a styled header row followed by one row
// per record.
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

func NewSheet(name string, columns ...Column) *Sheet {
	return &Sheet{Name: name, Columns: columns}
}

// AddRow appends a record. Values are written in column order; missing
// trailing values leave cells empty.
func (s *Sheet) AddRow(values ...any) {
	s.Rows = append(s.Rows, values)
}

// Bytes renders the sheet as an xlsx workbook.
func (s *Sheet) Bytes() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := s.Name
	if name == "" {
		name = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, col := range s.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(name, cell, col.Header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(name, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
		if col.Width > 0 {
			letter, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetColWidth(name, letter, letter, col.Width); err != nil {
				return nil, fmt.Errorf("set width %s: %w", letter, err)
			}
		}
	}

	for r, row := range s.Rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns "<prefix>-ddMMyyyy.xlsx" with the PKT date of t.
func Filename(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", prefix, pktime.FormatFileDate(t))
}

// Send renders the sheet and writes it as a download.
func Send(c echo.Context, s *Sheet, filename string) error {
	data, err := s.Bytes()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, ContentType, data)
}
