//go:build ignore

// This program generates test fixture files for cellkit.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klytics/cellkit/internal/entry"
	"github.com/klytics/cellkit/internal/workbook"
	"github.com/klytics/cellkit/internal/writer"
)

func main() {
	if err := generateXlsx(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sample.xlsx: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Test fixtures generated successfully.")
}

func generateXlsx() error {
	path := filepath.Join("testdata", "sample.xlsx")
	if err := workbook.CreateFile(path, true); err != nil {
		return err
	}

	rows := [][]string{
		{"Region", "Q1", "Q2", "Updated"},
		{"North", "12000", "15500", "2024-03-31"},
		{"South", "9800", "11200", "2024-03-31"},
		{"East", "14300", "13900", "2024-04-02"},
	}

	var batch []*entry.Entry
	for r, row := range rows {
		for c, v := range row {
			kind := entry.Text
			if r > 0 && c > 0 && c < 3 {
				kind = entry.Number
			} else if r > 0 && c == 3 {
				kind = entry.Timestamp
			}
			e, err := entry.New(v, kind, fmt.Sprintf("%c%d", 'A'+c, r+1))
			if err != nil {
				return err
			}
			batch = append(batch, e)
		}
	}

	w, rep := writer.Open(path)
	defer w.Close()
	if !rep.OK() {
		return fmt.Errorf("open: %s", rep)
	}
	if rep := w.ApplyBatch(batch); !rep.OK() {
		return fmt.Errorf("write: %s", rep)
	}
	return nil
}
