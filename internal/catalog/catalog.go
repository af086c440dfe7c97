// v2
// internal/catalog/catalog.go
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/whatifwestudios/the-commons/internal/civic"
	"github.com/whatifwestudios/the-commons/internal/coerce"
)

// FallbackGraphicsPath is served whenever a building's own artwork cannot be
// loaded by the client.
const FallbackGraphicsPath = "assets/buildings/default.svg"

// requiredColumns lists every column the transformation reads. A snapshot
// missing any of these is structurally malformed and rejected as a whole.
var requiredColumns = []string{
	"id",
	"name",
	"category",
	"description",
	"graphicsFile",
	"isDefault",
	"civicScore",
	"buildCost",
	"constructionDays",
	"maxRevenue",
	"maintenanceCost",
	"decayRate",
	"jobsProvided",
	"jobsRequired",
	"energyProvided",
	"energyRequired",
	"educationProvided",
	"educationRequired",
	"foodProvided",
	"foodRequired",
	"housingProvided",
	"housingRequired",
	"healthcareProvided",
	"healthcareRequired",
	"culture_impact",
	"culture_attenuation",
	"affordability_impact",
	"affordability_attenuation",
	"resilience_impact",
	"resilience_attenuation",
	"environment_impact",
	"environment_attenuation",
	"noise_impact",
	"noise_attenuation",
	"safety_impact",
	"safety_attenuation",
}

// MissingColumnError reports a required column absent from the input header.
// It is the only error surfaced by the builder; every other irregular input
// condition has a defined local substitution.
type MissingColumnError struct {
	Column     string
	Suggestion string
}

func (e *MissingColumnError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("required column %q missing from input (closest header: %q)", e.Column, e.Suggestion)
	}
	return fmt.Sprintf("required column %q missing from input", e.Column)
}

// Catalog maps category names to their building records. Categories keep
// their first-seen order and records keep input row order within each
// category.
type Catalog struct {
	categories []string
	byCategory map[string][]EntityRecord
}

// Categories returns the category names in first-seen order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// Entries returns a defensive copy of the records filed under the category.
func (c *Catalog) Entries(category string) ([]EntityRecord, bool) {
	records, ok := c.byCategory[category]
	if !ok {
		return nil, false
	}
	out := make([]EntityRecord, len(records))
	copy(out, records)
	return out, true
}

// Len reports the total number of records across all categories.
func (c *Catalog) Len() int {
	total := 0
	for _, records := range c.byCategory {
		total += len(records)
	}
	return total
}

// MarshalJSON renders the catalog as a plain category-to-array object,
// emitting categories in first-seen order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range c.categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(category)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		records, err := json.Marshal(c.byCategory[category])
		if err != nil {
			return nil, err
		}
		buf.Write(records)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Build transforms the tabular snapshot into a category-grouped catalog.
// Rows with an empty id are blank filler rows and are skipped without
// comment. The result is a pure function of the input: identical tables
// always produce identical catalogs.
func Build(table *Table) (*Catalog, error) {
	if table == nil {
		return &Catalog{byCategory: map[string][]EntityRecord{}}, nil
	}
	if err := checkHeader(table.Header); err != nil {
		return nil, err
	}

	cat := &Catalog{byCategory: make(map[string][]EntityRecord)}
	for _, row := range table.Rows {
		if row["id"] == "" {
			continue
		}
		record := transformRow(row)
		if _, seen := cat.byCategory[record.Category]; !seen {
			cat.categories = append(cat.categories, record.Category)
		}
		cat.byCategory[record.Category] = append(cat.byCategory[record.Category], record)
	}
	return cat, nil
}

// BuildCSV reads a CSV snapshot and builds the catalog in one step.
func BuildCSV(r io.Reader) (*Catalog, error) {
	table, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	return Build(table)
}

func checkHeader(header []string) error {
	present := make(map[string]struct{}, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = struct{}{}
	}
	for _, col := range requiredColumns {
		if _, ok := present[col]; !ok {
			return &MissingColumnError{Column: col, Suggestion: closestHeader(col, header)}
		}
	}
	return nil
}

// closestHeader finds the present header nearest to the missing column so
// operators can spot typos in hand-edited snapshots quickly.
func closestHeader(missing string, header []string) string {
	best := ""
	bestDist := len(missing)/2 + 1
	for _, col := range header {
		candidate := strings.TrimSpace(col)
		if candidate == "" {
			continue
		}
		dist := levenshtein.ComputeDistance(strings.ToLower(missing), strings.ToLower(candidate))
		if dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}
	return best
}

func transformRow(row Row) EntityRecord {
	score, _ := civic.Calculate(row)

	graphicsFile := row["graphicsFile"]
	segments := strings.Split(graphicsFile, "/")
	filename := segments[len(segments)-1]

	return EntityRecord{
		ID:           row["id"],
		Name:         row["name"],
		Category:     row["category"],
		Description:  row["description"],
		GraphicsFile: graphicsFile,
		IsDefault:    coerce.Coerce(row["isDefault"]),
		CivicScore:   score,
		Economics: Economics{
			BuildCost:        coerce.Coerce(row["buildCost"]),
			ConstructionDays: coerce.Coerce(row["constructionDays"]),
			MaxRevenue:       coerce.Coerce(row["maxRevenue"]),
			MaintenanceCost:  coerce.Coerce(row["maintenanceCost"]),
			DecayRate:        coerce.Coerce(row["decayRate"]),
		},
		Resources: Resources{
			JobsProvided:       coerce.Coerce(row["jobsProvided"]),
			JobsRequired:       coerce.Coerce(row["jobsRequired"]),
			EnergyProvided:     coerce.Coerce(row["energyProvided"]),
			EnergyRequired:     coerce.Coerce(row["energyRequired"]),
			EducationProvided:  coerce.Coerce(row["educationProvided"]),
			EducationRequired:  coerce.Coerce(row["educationRequired"]),
			FoodProvided:       coerce.Coerce(row["foodProvided"]),
			FoodRequired:       coerce.Coerce(row["foodRequired"]),
			HousingProvided:    coerce.Coerce(row["housingProvided"]),
			HousingRequired:    coerce.Coerce(row["housingRequired"]),
			HealthcareProvided: coerce.Coerce(row["healthcareProvided"]),
			HealthcareRequired: coerce.Coerce(row["healthcareRequired"]),
		},
		Livability: Livability{
			Culture:       dimension(row, "culture"),
			Affordability: dimension(row, "affordability"),
			Resilience:    dimension(row, "resilience"),
			Environment:   dimension(row, "environment"),
			Noise:         dimension(row, "noise"),
			Safety:        dimension(row, "safety"),
		},
		Graphics: Graphics{
			Filename:     filename,
			Path:         graphicsFile,
			FallbackPath: FallbackGraphicsPath,
		},
		Images: Images{
			Built: graphicsFile,
		},
	}
}

func dimension(row Row, name string) Dimension {
	return Dimension{
		Impact:      coerce.Coerce(row[name+"_impact"]),
		Attenuation: coerce.Coerce(row[name+"_attenuation"]),
	}
}
