package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ChicagoDave/auditcalc/internal/config"
)

const plant = "../../examples/plant"

func testOptions(t *testing.T) *options {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return &options{cfg: cfg}
}

func TestExportPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plant.pdf")
	if err := runExport(context.Background(), testOptions(t), plant, "pdf", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output starts with %q, want %%PDF-", data[:min(8, len(data))])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	err := runExport(context.Background(), testOptions(t), plant, "csv", filepath.Join(t.TempDir(), "x"))
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestEvaluateMissingProject(t *testing.T) {
	if _, err := evaluate(context.Background(), testOptions(t), t.TempDir()); err == nil {
		t.Fatal("expected error for missing audit.yaml")
	}
}

func TestRootCommands(t *testing.T) {
	want := map[string]bool{"run": false, "validate": false, "export": false, "serve": false}
	for _, c := range rootCmd().Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
