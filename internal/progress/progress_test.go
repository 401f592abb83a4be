package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithEnvDisable(t *testing.T) {
	t.Setenv("CELLKIT_NO_PROGRESS", "1")
	bar := New("test", 10)
	if bar.Enabled {
		t.Error("expected bar to be disabled with CELLKIT_NO_PROGRESS=1")
	}
}

func TestBarIncrementCapsAtTotal(t *testing.T) {
	bar := &Bar{Total: 2, Width: 10}
	bar.Increment("a")
	if bar.Current != 1 {
		t.Errorf("expected current=1, got %d", bar.Current)
	}
	bar.Increment("b")
	bar.Increment("c")
	if bar.Current != 2 {
		t.Errorf("expected current capped at 2, got %d", bar.Current)
	}
}

func TestBarPct(t *testing.T) {
	tests := []struct {
		total, current int
		want           float64
	}{
		{10, 0, 0},
		{10, 5, 50},
		{10, 10, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		bar := &Bar{Total: tt.total, Current: tt.current}
		if got := bar.Pct(); got != tt.want {
			t.Errorf("Pct(%d/%d) = %.1f, want %.1f", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestBarRender(t *testing.T) {
	var buf bytes.Buffer
	bar := &Bar{Total: 2, Label: "Applying", Width: 10, Enabled: true, Out: &buf}

	bar.Increment("book.xlsx")
	if !strings.Contains(buf.String(), "Applying [=====     ] 1/2  book.xlsx") {
		t.Errorf("unexpected render: %q", buf.String())
	}

	bar.Finish("4 cells written")
	if !strings.HasSuffix(buf.String(), "✓ 4 cells written\n") {
		t.Errorf("unexpected finish: %q", buf.String())
	}
}

func TestDisabledBarDoesNotWrite(t *testing.T) {
	var buf bytes.Buffer
	bar := &Bar{Total: 10, Width: 10, Out: &buf}
	bar.Increment("test")
	bar.Abort()
	bar.Finish("done")
	if buf.Len() != 0 {
		t.Errorf("disabled bar wrote %q", buf.String())
	}
}
