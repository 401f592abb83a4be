// Package entry describes a single intended cell write: the target sheet and
// cell, the typed value, and an optional target document.
package entry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/klytics/cellkit/internal/address"
)

var (
	// ErrInvalidAddress is returned when an address does not decode in the
	// requested notation.
	ErrInvalidAddress = errors.New("invalid cell address")
	// ErrInvalidSheet is returned for sheet numbers below 1.
	ErrInvalidSheet = errors.New("invalid sheet number")
)

// ValueKind tells the writer how to interpret Entry.Value.
type ValueKind int

const (
	// Text stores the value as a raw string.
	Text ValueKind = iota
	// Number parses the value as a float64.
	Number
	// Timestamp parses the value as a date/time.
	Timestamp
)

func (k ValueKind) String() string {
	switch k {
	case Number:
		return "number"
	case Timestamp:
		return "timestamp"
	default:
		return "text"
	}
}

// ParseValueKind accepts text|string, number|double and timestamp|datetime|date.
func ParseValueKind(s string) (ValueKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "string", "":
		return Text, nil
	case "number", "double":
		return Number, nil
	case "timestamp", "datetime", "date":
		return Timestamp, nil
	}
	return Text, fmt.Errorf("unknown value kind %q — expected text, number or timestamp", s)
}

// TimestampLayouts are tried in order by ParseTimestamp.
var TimestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// ParseTimestamp parses s against TimestampLayouts.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse %q as a date/time", s)
}

// ParseNumber parses s as a float64.
func ParseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse %q as a number: %w", s, err)
	}
	return f, nil
}

// Entry is one cell write. The A1 and R1C1 forms of its address always agree
// with its coordinate; setting either one re-derives the other.
type Entry struct {
	Value string
	Kind  ValueKind
	// DocumentPath overrides the writer's open document when non-empty.
	DocumentPath string

	sheetIndex int
	coord      address.Coordinate
	a1         string
	r1c1       string
}

// Option configures New.
type Option func(*options)

type options struct {
	notation  address.Notation
	sheet     int
	document  string
	onInvalid func(addr string, err error)
}

// WithNotation selects the notation of the address passed to New. Default A1.
func WithNotation(n address.Notation) Option {
	return func(o *options) { o.notation = n }
}

// WithSheetNumber sets the one-based sheet number. Default 1.
func WithSheetNumber(n int) Option {
	return func(o *options) { o.sheet = n }
}

// WithDocument sets the target document path.
func WithDocument(path string) Option {
	return func(o *options) { o.document = path }
}

// WithOnInvalidAddress registers a callback run before New reports an
// undecodable address.
func WithOnInvalidAddress(fn func(addr string, err error)) Option {
	return func(o *options) { o.onInvalid = fn }
}

// New builds an Entry from an address in the configured notation.
//
// A sheet number below 1 fails with ErrInvalidSheet before the address is
// looked at. An undecodable address invokes the WithOnInvalidAddress callback,
// if any, and fails with ErrInvalidAddress.
func New(value string, kind ValueKind, addr string, opts ...Option) (*Entry, error) {
	o := options{notation: address.A1, sheet: 1}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Entry{Value: value, Kind: kind, DocumentPath: o.document}
	if err := e.SetSheetNumber(o.sheet); err != nil {
		return nil, err
	}

	var err error
	if o.notation == address.R1C1 {
		err = e.SetR1C1(addr)
	} else {
		err = e.SetA1(addr)
	}
	if err != nil {
		if o.onInvalid != nil {
			o.onInvalid(addr, err)
		}
		return nil, err
	}
	return e, nil
}

// SetA1 points the entry at an A1 address. On failure the entry is unchanged.
func (e *Entry) SetA1(addr string) error {
	c, ok := address.DecodeA1(addr)
	if !ok {
		return fmt.Errorf("%w: %q is not an A1 address", ErrInvalidAddress, addr)
	}
	e.coord = c
	e.a1 = addr
	e.r1c1 = address.EncodeR1C1(c)
	return nil
}

// SetR1C1 points the entry at an R1C1 address. On failure the entry is unchanged.
func (e *Entry) SetR1C1(addr string) error {
	c, ok := address.DecodeR1C1(addr)
	if !ok {
		return fmt.Errorf("%w: %q is not an R1C1 address", ErrInvalidAddress, addr)
	}
	e.coord = c
	e.r1c1 = addr
	e.a1 = address.EncodeA1(c)
	return nil
}

// SetSheetNumber sets the one-based sheet number.
func (e *Entry) SetSheetNumber(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d (sheets are numbered from 1)", ErrInvalidSheet, n)
	}
	e.sheetIndex = n - 1
	return nil
}

// Coordinate returns the zero-based target cell.
func (e *Entry) Coordinate() address.Coordinate { return e.coord }

// A1 returns the address in A1 notation, as given or as derived.
func (e *Entry) A1() string { return e.a1 }

// R1C1 returns the address in R1C1 notation, as given or as derived.
func (e *Entry) R1C1() string { return e.r1c1 }

// SheetIndex returns the zero-based sheet index.
func (e *Entry) SheetIndex() int { return e.sheetIndex }

// SheetNumber returns the one-based sheet number.
func (e *Entry) SheetNumber() int { return e.sheetIndex + 1 }

func (e *Entry) String() string {
	return fmt.Sprintf("sheet %d!%s (%s %q)", e.SheetNumber(), e.a1, e.Kind, e.Value)
}
