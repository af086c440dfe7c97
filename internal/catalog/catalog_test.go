// v1
// internal/catalog/catalog_test.go
package catalog

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func testRow(id, name, category string) Row {
	row := make(Row, len(requiredColumns))
	for _, col := range requiredColumns {
		row[col] = ""
	}
	row["id"] = id
	row["name"] = name
	row["category"] = category
	row["description"] = name + " description"
	row["graphicsFile"] = "assets/buildings/" + id + ".svg"
	row["isDefault"] = "false"
	row["buildCost"] = "200"
	row["constructionDays"] = "14"
	row["maxRevenue"] = "32.5"
	row["jobsProvided"] = "3"
	row["culture_impact"] = "10"
	row["culture_attenuation"] = "4"
	return row
}

func testTable(rows ...Row) *Table {
	return &Table{Header: append([]string(nil), requiredColumns...), Rows: rows}
}

func TestBuildRoundTrip(t *testing.T) {
	table := testTable(
		testRow("cottage", "Cottage", "housing"),
		testRow("farmers-market", "Farmers Market", "commercial"),
		testRow("solar-farm", "Solar Farm", "utilities"),
		testRow("apartments", "Apartments", "housing"),
	)

	cat, err := Build(table)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if cat.Len() != 4 {
		t.Fatalf("expected 4 records, got %d", cat.Len())
	}

	wantOrder := []string{"housing", "commercial", "utilities"}
	gotOrder := cat.Categories()
	if len(gotOrder) != len(wantOrder) {
		t.Fatalf("categories = %v, want %v", gotOrder, wantOrder)
	}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("categories = %v, want first-seen order %v", gotOrder, wantOrder)
		}
	}

	housing, ok := cat.Entries("housing")
	if !ok || len(housing) != 2 {
		t.Fatalf("expected 2 housing records, got %d (ok=%v)", len(housing), ok)
	}
	if housing[0].ID != "cottage" || housing[1].ID != "apartments" {
		t.Fatalf("housing order = [%s %s], want input row order", housing[0].ID, housing[1].ID)
	}
}

func TestBuildSkipsBlankRows(t *testing.T) {
	table := testTable(
		testRow("cottage", "Cottage", "housing"),
		testRow("", "Ghost", "housing"),
	)

	cat, err := Build(table)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("expected blank-id row to be skipped, got %d records", cat.Len())
	}
	for _, category := range cat.Categories() {
		records, _ := cat.Entries(category)
		for _, record := range records {
			if record.Name == "Ghost" {
				t.Fatalf("blank-id row leaked into category %q", category)
			}
		}
	}
}

func TestBuildMissingColumnIsFatal(t *testing.T) {
	header := make([]string, 0, len(requiredColumns)-1)
	for _, col := range requiredColumns {
		if col == "maintenanceCost" {
			continue
		}
		header = append(header, col)
	}
	table := &Table{Header: header, Rows: []Row{testRow("cottage", "Cottage", "housing")}}

	cat, err := Build(table)
	if err == nil {
		t.Fatalf("expected structural error, got catalog with %d records", cat.Len())
	}
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %T: %v", err, err)
	}
	if missing.Column != "maintenanceCost" {
		t.Fatalf("error names column %q, want maintenanceCost", missing.Column)
	}
	if cat != nil {
		t.Fatalf("expected no partial catalog on structural failure")
	}
}

func TestMissingColumnSuggestsClosestHeader(t *testing.T) {
	header := make([]string, 0, len(requiredColumns))
	for _, col := range requiredColumns {
		if col == "maxRevenue" {
			header = append(header, "maxRevenu") // typo in hand-edited snapshot
			continue
		}
		header = append(header, col)
	}
	err := checkHeader(header)
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Suggestion != "maxRevenu" {
		t.Fatalf("suggestion = %q, want maxRevenu", missing.Suggestion)
	}
	if !strings.Contains(missing.Error(), "maxRevenue") {
		t.Fatalf("error text should name the missing column: %s", missing.Error())
	}
}

func TestTransformRowShape(t *testing.T) {
	row := testRow("solar-farm", "Solar Farm", "utilities")
	row["graphicsFile"] = "assets/buildings/energy/solar-farm.svg"

	record := transformRow(row)

	if record.Graphics.Filename != "solar-farm.svg" {
		t.Fatalf("filename = %q, want last path segment", record.Graphics.Filename)
	}
	if record.Graphics.Path != row["graphicsFile"] {
		t.Fatalf("path = %q, want %q", record.Graphics.Path, row["graphicsFile"])
	}
	if record.Graphics.FallbackPath != FallbackGraphicsPath {
		t.Fatalf("fallback = %q, want %q", record.Graphics.FallbackPath, FallbackGraphicsPath)
	}
	if record.Images.Built != row["graphicsFile"] {
		t.Fatalf("images.built = %q, want %q", record.Images.Built, row["graphicsFile"])
	}
	// culture 10/sqrt(4) = 5.0; the input civicScore column is ignored.
	if record.CivicScore != 5.0 {
		t.Fatalf("civicScore = %v, want recomputed 5.0", record.CivicScore)
	}
	if record.IsDefault.Bool() {
		t.Fatalf("isDefault should coerce to boolean false")
	}
	if record.Economics.BuildCost.Int() != 200 {
		t.Fatalf("buildCost = %d, want integer 200", record.Economics.BuildCost.Int())
	}
	if record.Economics.DecayRate.Kind().String() != "absent" {
		t.Fatalf("empty decayRate should stay absent, got %v", record.Economics.DecayRate.Kind())
	}
}

func TestCatalogJSONShape(t *testing.T) {
	cat, err := Build(testTable(testRow("cottage", "Cottage", "housing")))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	raw, err := json.Marshal(cat)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var doc map[string][]map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("catalog JSON not a category map: %v", err)
	}
	records := doc["housing"]
	if len(records) != 1 {
		t.Fatalf("expected one housing record, got %d", len(records))
	}
	record := records[0]
	if record["decayRate"] != nil {
		// decayRate lives under economics, not at top level.
		t.Fatalf("unexpected top-level decayRate")
	}
	economics, ok := record["economics"].(map[string]any)
	if !ok {
		t.Fatalf("economics group missing")
	}
	if economics["decayRate"] != nil {
		t.Fatalf("absent decayRate should marshal as null, got %v", economics["decayRate"])
	}
	if economics["maxRevenue"] != 32.5 {
		t.Fatalf("maxRevenue = %v, want 32.5", economics["maxRevenue"])
	}
	livability, ok := record["livability"].(map[string]any)
	if !ok {
		t.Fatalf("livability group missing")
	}
	culture, ok := livability["culture"].(map[string]any)
	if !ok {
		t.Fatalf("livability.culture missing")
	}
	if culture["impact"] != float64(10) {
		t.Fatalf("culture.impact = %v, want 10", culture["impact"])
	}
}

func TestReadRowsBuildsHeaderKeyedRows(t *testing.T) {
	input := "id,name,category\ncottage,Cottage,housing\n,,\n"
	table, err := ReadRows(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(table.Header) != 3 {
		t.Fatalf("header = %v", table.Header)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0]["name"] != "Cottage" {
		t.Fatalf("row 0 name = %q", table.Rows[0]["name"])
	}
	if table.Rows[1]["id"] != "" {
		t.Fatalf("blank row should carry empty id")
	}
}
