package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/klytics/cellkit/internal/workbook"
	"github.com/klytics/cellkit/internal/writer"
)

// ReportJSON is the JSON form of a writer.Report.
type ReportJSON struct {
	Result  writer.Result `json:"result"`
	Applied int           `json:"applied"`
	Path    string        `json:"path,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// NewReportJSON converts a report for PrintJSON.
func NewReportJSON(rep writer.Report) ReportJSON {
	return ReportJSON{
		Result:  rep.Result,
		Applied: rep.Applied,
		Path:    rep.Path,
		Error:   rep.Message(),
	}
}

// ExitCode maps a writer result to a process exit code.
func ExitCode(r writer.Result) int {
	switch r {
	case writer.Success:
		return ExitOK
	case writer.ParamError, writer.Failure, writer.Canceled:
		return ExitUserError
	default:
		return ExitSystemError
	}
}

// PrintReport writes a one-line, colored summary of rep.
func PrintReport(w io.Writer, rep writer.Report) {
	var style *color.Color
	switch rep.Result {
	case writer.Success:
		style = color.New(color.FgGreen)
	case writer.ParamError, writer.Failure:
		style = color.New(color.FgYellow)
	default:
		style = color.New(color.FgRed)
	}

	style.Fprintf(w, "%s", rep.Result)
	if rep.Applied > 0 {
		fmt.Fprintf(w, "  %d written", rep.Applied)
	}
	if rep.Path != "" {
		color.New(color.FgHiBlack).Fprintf(w, "  %s", rep.Path)
	}
	fmt.Fprintln(w)
	if msg := rep.Message(); msg != "" {
		fmt.Fprintf(w, "  %s\n", msg)
	}
}

// PrintSheet renders a sheet as an aligned table. The first row is treated
// as the header.
func PrintSheet(w io.Writer, sheet workbook.Sheet) {
	headerStyle := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	headerStyle.Fprintf(w, "Sheet: %s\n", sheet.Name)
	if len(sheet.Rows) == 0 {
		dim.Fprintln(w, "  (empty)")
		return
	}

	widths := columnWidths(sheet.Rows)

	printRow(w, sheet.Rows[0], widths, color.New(color.Bold))
	dim.Fprint(w, "  ")
	for j, n := range widths {
		if j > 0 {
			dim.Fprint(w, "+-")
		}
		dim.Fprint(w, strings.Repeat("-", n+1))
	}
	dim.Fprintln(w)

	for i := 1; i < len(sheet.Rows); i++ {
		printRow(w, sheet.Rows[i], widths, nil)
	}
	rows := sheet.RowCount()
	if rows > 0 {
		rows-- // header
	}
	dim.Fprintf(w, "  (%d rows)\n\n", rows)
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for j, cell := range row {
			for len(widths) <= j {
				widths = append(widths, 0)
			}
			if len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}
	for i := range widths {
		if widths[i] > 40 {
			widths[i] = 40
		}
		if widths[i] < 3 {
			widths[i] = 3
		}
	}
	return widths
}

func printRow(w io.Writer, row []string, widths []int, style *color.Color) {
	fmt.Fprint(w, "  ")
	for j := range widths {
		if j > 0 {
			fmt.Fprint(w, "| ")
		}
		cell := ""
		if j < len(row) {
			cell = row[j]
		}
		if len(cell) > widths[j] {
			cell = cell[:widths[j]-1] + "~"
		}
		padded := cell + strings.Repeat(" ", widths[j]-len(cell)+1)
		if style != nil {
			style.Fprint(w, padded)
		} else {
			fmt.Fprint(w, padded)
		}
	}
	fmt.Fprintln(w)
}

// EmitReport prints rep for command name, as JSON or as a colored line, and
// turns a non-success result into an *ExitError with the matching code.
func EmitReport(name string, jsonOut bool, rep writer.Report) error {
	code := ExitCode(rep.Result)
	if jsonOut {
		if rep.OK() {
			return PrintJSON(name, NewReportJSON(rep))
		}
		if err := PrintJSONError(name, reportError(rep), code); err != nil {
			return err
		}
	} else {
		PrintReport(Stdout, rep)
	}
	if rep.OK() {
		return nil
	}
	return &ExitError{Code: code, Err: reportError(rep), Reported: true}
}

func reportError(rep writer.Report) error {
	if rep.Err != nil {
		return fmt.Errorf("%s: %w", rep.Result, rep.Err)
	}
	return fmt.Errorf("%s", rep.Result)
}
