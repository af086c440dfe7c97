// v1
// internal/civic/civic.go
package civic

import (
	"fmt"
	"math"

	"github.com/whatifwestudios/the-commons/internal/coerce"
)

// Dimensions lists the six CARENS livability dimensions in the fixed order
// used for score accumulation and breakdown reporting: culture,
// affordability, resilience, environment, noise, safety.
var Dimensions = []string{
	"culture",
	"affordability",
	"resilience",
	"environment",
	"noise",
	"safety",
}

const (
	impactSuffix      = "_impact"
	attenuationSuffix = "_attenuation"
)

// Calculate computes the civic score for one building from its raw field
// map. For every CARENS dimension the raw <dimension>_impact and
// <dimension>_attenuation fields are extracted; a missing or non-numeric
// impact counts as 0 and a missing, non-numeric, or non-positive attenuation
// is substituted with 1 so the formula never divides by zero. Each dimension
// contributes impact / sqrt(attenuation) to the total.
//
// The returned score is rounded to one decimal place. The breakdown holds
// one line per dimension, in the fixed dimension order, naming the effective
// impact/attenuation pair and the weighted contribution.
func Calculate(fields map[string]string) (float64, []string) {
	var total float64
	breakdown := make([]string, 0, len(Dimensions))

	for _, dim := range Dimensions {
		impact := coerce.Coerce(fields[dim+impactSuffix]).FloatOr(0)
		attenuation := coerce.Coerce(fields[dim+attenuationSuffix]).FloatOr(1)
		if attenuation <= 0 {
			attenuation = 1
		}

		weighted := impact / math.Sqrt(attenuation)
		total += weighted

		breakdown = append(breakdown, fmt.Sprintf("%s: %g/%g = %.1f", dim, impact, attenuation, weighted))
	}

	return Round1(total), breakdown
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
