package workbook

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/cellkit/internal/address"
)

// Sheet is a read-only copy of one worksheet's cell text.
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// Workbook is a read-only copy of every sheet in a file.
type Workbook struct {
	Sheets []Sheet `json:"sheets"`
}

// ReadFile reads an .xlsx file into a snapshot.
func ReadFile(path string) (*Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}
	defer f.Close()

	return snapshot(f)
}

// ReadBytes reads .xlsx data into a snapshot.
func ReadBytes(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not read Excel data: %w", err)
	}
	defer f.Close()

	return snapshot(f)
}

func snapshot(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

// GetSheet returns the sheet with the given name.
func (wb *Workbook) GetSheet(name string) (*Sheet, error) {
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == name {
			return &wb.Sheets[i], nil
		}
	}

	available := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		available[i] = s.Name
	}
	return nil, fmt.Errorf("sheet %q not found — available sheets: %v", name, available)
}

// SheetAt returns the sheet at a one-based sheet number.
func (wb *Workbook) SheetAt(number int) (*Sheet, error) {
	if number < 1 || number > len(wb.Sheets) {
		return nil, fmt.Errorf("sheet %d not found — the workbook has %d sheet(s)", number, len(wb.Sheets))
	}
	return &wb.Sheets[number-1], nil
}

// Cell returns the text at c, or "" when the cell is outside the sheet's data.
func (s *Sheet) Cell(c address.Coordinate) string {
	if c.Row < 0 || c.Row >= len(s.Rows) {
		return ""
	}
	row := s.Rows[c.Row]
	if c.Column < 0 || c.Column >= len(row) {
		return ""
	}
	return row[c.Column]
}

// ToCSV renders the sheet as CSV.
func (s *Sheet) ToCSV() string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.WriteAll(s.Rows)
	return b.String()
}

// RowCount returns the number of rows holding at least one non-empty cell.
func (s *Sheet) RowCount() int {
	count := 0
	for _, row := range s.Rows {
		for _, cell := range row {
			if cell != "" {
				count++
				break
			}
		}
	}
	return count
}
