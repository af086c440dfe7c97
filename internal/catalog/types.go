// v1
// internal/catalog/types.go
package catalog

import (
	"github.com/whatifwestudios/the-commons/internal/coerce"
)

// Row is one flat key-value record from the tabular building snapshot.
type Row map[string]string

// Table couples the declared header with the data rows so structural
// validation can run against the columns actually present in the input.
type Table struct {
	Header []string
	Rows   []Row
}

// EntityRecord is one fully transformed building definition. Field order
// matches the published catalog document.
type EntityRecord struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Description  string       `json:"description"`
	GraphicsFile string       `json:"graphicsFile"`
	IsDefault    coerce.Value `json:"isDefault"`
	CivicScore   float64      `json:"civicScore"`
	Economics    Economics    `json:"economics"`
	Resources    Resources    `json:"resources"`
	Livability   Livability   `json:"livability"`
	Graphics     Graphics     `json:"graphics"`
	Images       Images       `json:"images"`
}

// Economics groups the monetary lifecycle fields of a building. Absent
// inputs stay null in the catalog document.
type Economics struct {
	BuildCost        coerce.Value `json:"buildCost"`
	ConstructionDays coerce.Value `json:"constructionDays"`
	MaxRevenue       coerce.Value `json:"maxRevenue"`
	MaintenanceCost  coerce.Value `json:"maintenanceCost"`
	DecayRate        coerce.Value `json:"decayRate"`
}

// Resources groups the six provided/required pairs a building exchanges
// with the city.
type Resources struct {
	JobsProvided       coerce.Value `json:"jobsProvided"`
	JobsRequired       coerce.Value `json:"jobsRequired"`
	EnergyProvided     coerce.Value `json:"energyProvided"`
	EnergyRequired     coerce.Value `json:"energyRequired"`
	EducationProvided  coerce.Value `json:"educationProvided"`
	EducationRequired  coerce.Value `json:"educationRequired"`
	FoodProvided       coerce.Value `json:"foodProvided"`
	FoodRequired       coerce.Value `json:"foodRequired"`
	HousingProvided    coerce.Value `json:"housingProvided"`
	HousingRequired    coerce.Value `json:"housingRequired"`
	HealthcareProvided coerce.Value `json:"healthcareProvided"`
	HealthcareRequired coerce.Value `json:"healthcareRequired"`
}

// Dimension is one CARENS livability dimension: a raw impact and the
// attenuation damping it. The civic score pipeline substitutes defaults at
// calculation time; the catalog document keeps the values as supplied.
type Dimension struct {
	Impact      coerce.Value `json:"impact"`
	Attenuation coerce.Value `json:"attenuation"`
}

// Livability carries the six CARENS dimensions of a building.
type Livability struct {
	Culture       Dimension `json:"culture"`
	Affordability Dimension `json:"affordability"`
	Resilience    Dimension `json:"resilience"`
	Environment   Dimension `json:"environment"`
	Noise         Dimension `json:"noise"`
	Safety        Dimension `json:"safety"`
}

// Graphics describes where renderers find the building artwork.
type Graphics struct {
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	FallbackPath string `json:"fallbackPath"`
}

// Images lists the per-state artwork variants. Only the built state exists
// today.
type Images struct {
	Built string `json:"built"`
}
