package entry

import (
	"errors"
	"testing"
	"time"

	"github.com/klytics/cellkit/internal/address"
)

func TestNewFromA1(t *testing.T) {
	e, err := New("42", Number, "C5")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if e.R1C1() != "R5C3" {
		t.Errorf("R1C1() = %q, want R5C3", e.R1C1())
	}
	if e.A1() != "C5" {
		t.Errorf("A1() = %q, want C5", e.A1())
	}
	if e.Coordinate() != (address.Coordinate{Column: 2, Row: 4}) {
		t.Errorf("Coordinate() = %+v", e.Coordinate())
	}
	if e.SheetIndex() != 0 || e.SheetNumber() != 1 {
		t.Errorf("sheet = %d/%d, want 0/1", e.SheetIndex(), e.SheetNumber())
	}
}

func TestNewFromR1C1(t *testing.T) {
	e, err := New("x", Text, "R5C3", WithNotation(address.R1C1), WithSheetNumber(3), WithDocument("book.xlsx"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if e.A1() != "C5" {
		t.Errorf("A1() = %q, want C5", e.A1())
	}
	if e.SheetIndex() != 2 {
		t.Errorf("SheetIndex() = %d, want 2", e.SheetIndex())
	}
	if e.DocumentPath != "book.xlsx" {
		t.Errorf("DocumentPath = %q", e.DocumentPath)
	}
}

func TestNewInvalidAddress(t *testing.T) {
	var called string
	_, err := New("x", Text, "1A", WithOnInvalidAddress(func(addr string, err error) {
		called = addr
	}))
	if !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
	if called != "1A" {
		t.Errorf("callback got %q, want 1A", called)
	}

	_, err = New("x", Text, "R1C1", WithNotation(address.R1C1))
	if !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("R1C1 should be rejected, got %v", err)
	}
}

func TestNewInvalidSheet(t *testing.T) {
	called := false
	for _, n := range []int{0, -1} {
		_, err := New("x", Text, "A1", WithSheetNumber(n), WithOnInvalidAddress(func(string, error) { called = true }))
		if !errors.Is(err, ErrInvalidSheet) {
			t.Errorf("sheet %d: expected ErrInvalidSheet, got %v", n, err)
		}
	}
	if called {
		t.Error("invalid sheet must not trigger the address callback")
	}
}

func TestSetOtherNotationOverwrites(t *testing.T) {
	e, err := New("v", Text, "A1")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetR1C1("R10C4"); err != nil {
		t.Fatal(err)
	}
	if e.A1() != "D10" || e.Coordinate() != (address.Coordinate{Column: 3, Row: 9}) {
		t.Errorf("after SetR1C1: A1=%q coord=%+v", e.A1(), e.Coordinate())
	}
	if err := e.SetA1("b2"); err != nil {
		t.Fatal(err)
	}
	if e.R1C1() != "R2C2" || e.A1() != "b2" {
		t.Errorf("after SetA1: A1=%q R1C1=%q", e.A1(), e.R1C1())
	}
}

func TestSetFailureLeavesEntryUnchanged(t *testing.T) {
	e, err := New("v", Text, "C5")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetA1("nope"); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
	if err := e.SetR1C1("R0C0"); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
	if e.A1() != "C5" || e.R1C1() != "R5C3" {
		t.Errorf("entry changed: %s / %s", e.A1(), e.R1C1())
	}
	if err := e.SetSheetNumber(0); !errors.Is(err, ErrInvalidSheet) {
		t.Errorf("expected ErrInvalidSheet, got %v", err)
	}
	if e.SheetNumber() != 1 {
		t.Errorf("SheetNumber() = %d", e.SheetNumber())
	}
}

func TestParseValueKind(t *testing.T) {
	tests := map[string]ValueKind{
		"text": Text, "String": Text, "": Text,
		"number": Number, "DOUBLE": Number,
		"timestamp": Timestamp, "datetime": Timestamp, "date": Timestamp,
	}
	for in, want := range tests {
		got, err := ParseValueKind(in)
		if err != nil {
			t.Errorf("ParseValueKind(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseValueKind(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseValueKind("blob"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-15", "15.03.2024", "03/15/2024", "2024-03-15T00:00:00Z"} {
		got, err := ParseTimestamp(in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseTimestamp(%q) = %v", in, got)
		}
	}
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("expected error")
	}
}

func TestParseNumber(t *testing.T) {
	if f, err := ParseNumber(" 3.5 "); err != nil || f != 3.5 {
		t.Errorf("ParseNumber = %v, %v", f, err)
	}
	if _, err := ParseNumber("forty-two"); err == nil {
		t.Error("expected error")
	}
}

func TestString(t *testing.T) {
	e, _ := New("42", Number, "C5", WithSheetNumber(2))
	if got := e.String(); got != `sheet 2!C5 (number "42")` {
		t.Errorf("String() = %q", got)
	}
}
