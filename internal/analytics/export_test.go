package analytics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sebx/internal/cost"
	"sebx/internal/domain"
)

func sampleComparison(t *testing.T) *domain.ConversionComparison {
	t.Helper()
	engine := NewEngine(cost.Default())
	doc := buildDoc(t, "Large",
		"LargeBlockArmorBlock",
		"LargeBlockArmorBlock",
		"LargeBlockCockpit",
	)
	mapping := map[string]string{"LargeBlockArmorBlock": "LargeHeavyBlockArmorBlock"}
	return engine.Compare(doc, "Test Ship", mapping, "heavy")
}

func TestExportComparisonCSV(t *testing.T) {
	cmp := sampleComparison(t)
	dest := filepath.Join(t.TempDir(), "reports", "out.csv")
	if err := ExportComparisonCSV(cmp, dest); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) == 0 || strings.Join(rows[0], ",") != "Metric,Before,After,Delta" {
		t.Fatalf("header = %v", rows[0])
	}

	var steelRow []string
	for _, row := range rows {
		if len(row) == 4 && row[0] == "SteelPlate" {
			steelRow = row
		}
	}
	if steelRow == nil {
		t.Fatal("no SteelPlate row")
	}
	if steelRow[3] != "250" {
		t.Errorf("steel plate delta = %q, want 250", steelRow[3])
	}
}

func TestExportComparisonText(t *testing.T) {
	cmp := sampleComparison(t)
	dest := filepath.Join(t.TempDir(), "reports", "out.txt")
	if err := ExportComparisonText(cmp, dest); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	for _, want := range []string{
		"Mode: heavy",
		"LargeBlockArmorBlock -> LargeHeavyBlockArmorBlock (x2)",
		"SteelPlate: +250",
		"Block changes:",
		"Ore deltas:",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if !strings.Contains(text, "Mass: ") || !strings.Contains(text, "(delta +") {
		t.Error("report missing signed mass delta")
	}
}
