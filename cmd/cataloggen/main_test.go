// v0
// cmd/cataloggen/main_test.go
package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/whatifwestudios/the-commons/internal/catalog"
)

var testColumns = []string{
	"id", "name", "category", "description", "graphicsFile", "isDefault", "civicScore",
	"buildCost", "constructionDays", "maxRevenue", "maintenanceCost", "decayRate",
	"jobsProvided", "jobsRequired", "energyProvided", "energyRequired",
	"educationProvided", "educationRequired", "foodProvided", "foodRequired",
	"housingProvided", "housingRequired", "healthcareProvided", "healthcareRequired",
	"culture_impact", "culture_attenuation", "affordability_impact", "affordability_attenuation",
	"resilience_impact", "resilience_attenuation", "environment_impact", "environment_attenuation",
	"noise_impact", "noise_attenuation", "safety_impact", "safety_attenuation",
}

func writeSnapshot(t *testing.T, columns []string, values map[string]string) string {
	t.Helper()
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = values[col]
	}
	path := filepath.Join(t.TempDir(), "buildings-data.csv")
	content := strings.Join(columns, ",") + "\n" + strings.Join(row, ",") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestRunConvertsSnapshot(t *testing.T) {
	in := writeSnapshot(t, testColumns, map[string]string{
		"id": "cottage", "name": "Cottage", "category": "housing",
		"graphicsFile":   "assets/buildings/cottage.svg",
		"culture_impact": "10", "culture_attenuation": "4",
	})
	out := filepath.Join(t.TempDir(), "buildings-data.json")

	var stdout bytes.Buffer
	err := run(options{inPath: in, outPath: out, pretty: true, breakdown: true}, &stdout)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output artifact missing: %v", err)
	}
	if !strings.Contains(string(raw), `"housing"`) {
		t.Fatalf("output lacks the housing category: %s", raw)
	}
	if !strings.Contains(stdout.String(), "CIVIC SCORE CALCULATIONS") {
		t.Fatalf("breakdown report missing from stdout")
	}
	if !strings.Contains(stdout.String(), "Total buildings: 1") {
		t.Fatalf("summary missing from stdout: %q", stdout.String())
	}
}

func TestRunMalformedSnapshotFailsBeforeAnyOutput(t *testing.T) {
	columns := make([]string, 0, len(testColumns)-1)
	for _, col := range testColumns {
		if col == "maintenanceCost" {
			continue
		}
		columns = append(columns, col)
	}
	in := writeSnapshot(t, columns, map[string]string{
		"id": "cottage", "name": "Cottage", "category": "housing",
	})
	out := filepath.Join(t.TempDir(), "buildings-data.json")

	var stdout bytes.Buffer
	err := run(options{inPath: in, outPath: out, pretty: true, breakdown: true}, &stdout)

	var missing *catalog.MissingColumnError
	if !errors.As(err, &missing) || missing.Column != "maintenanceCost" {
		t.Fatalf("expected a missing-column error for maintenanceCost, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("structural failure must be the only output, stdout got %q", stdout.String())
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("no artifact may be written on structural failure")
	}
}
