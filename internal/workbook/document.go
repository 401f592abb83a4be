// Package workbook adapts excelize to the small set of operations cell
// writers need: open from a stream, get or create a sheet by index, set a
// typed cell value and serialize back to a stream.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/cellkit/internal/address"
)

// Document is an open in-memory workbook. It is not safe for concurrent use;
// callers serialize access themselves.
type Document struct {
	f *excelize.File
}

// NewFile returns an empty document with a single sheet named "Sheet1".
func NewFile() *Document {
	return &Document{f: excelize.NewFile()}
}

// OpenReader parses a document from r. It fails if r is not a valid .xlsx stream.
func OpenReader(r io.Reader) (*Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse workbook — is this a valid .xlsx file? %w", err)
	}
	return &Document{f: f}, nil
}

// CreateFile writes an empty document to path. An existing file is only
// replaced when overwrite is set.
func CreateFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists — pass --force to overwrite", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("could not stat %s: %w", path, err)
		}
	}

	doc := NewFile()
	defer doc.Close()
	return doc.SaveAs(path)
}

// SheetNames lists sheets in workbook order.
func (d *Document) SheetNames() []string {
	return d.f.GetSheetList()
}

// MaxSheets bounds how far Sheet grows a workbook.
const MaxSheets = 1024

// Sheet returns the name of the sheet at the zero-based index, appending empty
// sheets until the index exists. Indexes at or past MaxSheets are rejected.
func (d *Document) Sheet(index int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("sheet index %d is negative", index)
	}
	if index >= MaxSheets {
		return "", fmt.Errorf("sheet %d is past the limit of %d sheets per workbook", index+1, MaxSheets)
	}
	names := d.f.GetSheetList()
	for n := len(names); n <= index; n++ {
		name := d.freeSheetName(n + 1)
		if _, err := d.f.NewSheet(name); err != nil {
			return "", fmt.Errorf("could not create sheet %q: %w", name, err)
		}
		names = append(names, name)
	}
	return names[index], nil
}

func (d *Document) freeSheetName(n int) string {
	for {
		name := fmt.Sprintf("Sheet%d", n)
		if idx, err := d.f.GetSheetIndex(name); err == nil && idx == -1 {
			return name
		}
		n++
	}
}

// SetString stores v as text. Rows and cells are created as needed.
func (d *Document) SetString(sheet string, c address.Coordinate, v string) error {
	cell, err := cellName(c)
	if err != nil {
		return err
	}
	if err := d.f.SetCellStr(sheet, cell, v); err != nil {
		return fmt.Errorf("could not set %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// SetNumber stores v as a number.
func (d *Document) SetNumber(sheet string, c address.Coordinate, v float64) error {
	cell, err := cellName(c)
	if err != nil {
		return err
	}
	if err := d.f.SetCellFloat(sheet, cell, v, -1, 64); err != nil {
		return fmt.Errorf("could not set %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// SetTime stores v as a date serial with a date number format.
func (d *Document) SetTime(sheet string, c address.Coordinate, v time.Time) error {
	cell, err := cellName(c)
	if err != nil {
		return err
	}
	if err := d.f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("could not set %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// Value returns the formatted value of a cell, or "" if it is empty.
func (d *Document) Value(sheet string, c address.Coordinate) (string, error) {
	cell, err := cellName(c)
	if err != nil {
		return "", err
	}
	return d.f.GetCellValue(sheet, cell)
}

// WriteTo serializes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.f.WriteTo(w)
}

// SaveAs serializes the document to path, creating or truncating it.
func (d *Document) SaveAs(path string) error {
	if err := d.f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}

// Close releases temporary resources held by the document.
func (d *Document) Close() error {
	if d == nil || d.f == nil {
		return nil
	}
	return d.f.Close()
}

func cellName(c address.Coordinate) (string, error) {
	cell, err := excelize.CoordinatesToCellName(c.Column+1, c.Row+1)
	if err != nil {
		return "", fmt.Errorf("invalid cell coordinates (%d, %d): %w", c.Column, c.Row, err)
	}
	return cell, nil
}
