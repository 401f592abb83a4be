package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"github.com/klytics/cellkit/internal/output"
)

func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)
	color.NoColor = true

	var buf bytes.Buffer
	prev := output.Stdout
	output.Stdout = &buf
	t.Cleanup(func() { output.Stdout = prev })
	return &buf
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestAllCommandsExist(t *testing.T) {
	setup(t)
	root := NewRootCommand()
	want := []string{"cell", "address", "book", "watch", "shell", "audit", "config", "completion", "version"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q is not registered", name)
		}
	}
}

func TestHelpRuns(t *testing.T) {
	setup(t)
	for _, args := range [][]string{
		{"--help"},
		{"cell", "write", "--help"},
		{"cell", "apply", "--help"},
		{"watch", "start", "--help"},
	} {
		if err := execute(t, args...); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}
}

func TestBookWriteReadRoundTrip(t *testing.T) {
	buf := setup(t)
	path := filepath.Join(t.TempDir(), "book.xlsx")

	if err := execute(t, "book", "new", path); err != nil {
		t.Fatalf("book new: %v", err)
	}
	if err := execute(t, "cell", "write", "C5", "42", "--kind", "number", "--doc", path); err != nil {
		t.Fatalf("cell write: %v", err)
	}
	if err := execute(t, "cell", "write", "R5C4", "label", "--notation", "r1c1", "--doc", path); err != nil {
		t.Fatalf("cell write r1c1: %v", err)
	}

	buf.Reset()
	if err := execute(t, "book", "read", path, "--json"); err != nil {
		t.Fatalf("book read: %v", err)
	}
	var got struct {
		OK   bool `json:"ok"`
		Data []struct {
			Name string     `json:"name"`
			Rows [][]string `json:"rows"`
		} `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if !got.OK || len(got.Data) != 1 || len(got.Data[0].Rows) != 5 {
		t.Fatalf("unexpected workbook: %+v", got)
	}
	row := got.Data[0].Rows[4]
	if len(row) != 4 || row[2] != "42" || row[3] != "label" {
		t.Errorf("row 5 = %q", row)
	}
}

func TestConfigDefaultsFlowIntoWrite(t *testing.T) {
	setup(t)
	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := execute(t, "book", "new", path); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "config", "set", "document", path); err != nil {
		t.Fatalf("config set: %v", err)
	}
	viper.Reset()

	if err := execute(t, "cell", "write", "A1", "configured"); err != nil {
		t.Fatalf("cell write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(os.Getenv("HOME"), ".cellkit", "config.yaml")); err != nil {
		t.Errorf("config not saved: %v", err)
	}
}

func TestAuditRecordsWrites(t *testing.T) {
	buf := setup(t)
	path := filepath.Join(t.TempDir(), "book.xlsx")
	t.Setenv("CELLKIT_AUDIT_ENABLED", "true")

	if err := execute(t, "book", "new", path); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "cell", "write", "A1", "x", "--doc", path); err != nil {
		t.Fatal(err)
	}

	buf.Reset()
	if err := execute(t, "audit", "log", "--json"); err != nil {
		t.Fatalf("audit log: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"operation": "open"`) || !strings.Contains(out, `"operation": "apply"`) {
		t.Errorf("expected open and apply records:\n%s", out)
	}

	buf.Reset()
	if err := execute(t, "audit", "log", "--json", "--result", "SUCCESS"); err != nil {
		t.Fatalf("audit log --result: %v", err)
	}
	if strings.Contains(buf.String(), `"result": "failure"`) {
		t.Errorf("filter kept other results:\n%s", buf.String())
	}

	err := execute(t, "audit", "log", "--result", "fine")
	var exitErr *output.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != output.ExitUserError {
		t.Errorf("expected user error for unknown result, got %v", err)
	}
}

func TestWriteFailureIsExitError(t *testing.T) {
	setup(t)
	err := execute(t, "cell", "write", "A1", "x", "--doc", filepath.Join(t.TempDir(), "missing.xlsx"))
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(err.Error(), "failure") {
		t.Errorf("error = %v", err)
	}
}
