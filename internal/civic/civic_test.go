// v0
// internal/civic/civic_test.go
package civic

import (
	"strings"
	"testing"
)

func TestCalculateSingleDimension(t *testing.T) {
	fields := map[string]string{
		"culture_impact":      "10",
		"culture_attenuation": "4",
	}
	score, breakdown := Calculate(fields)
	// 10 / sqrt(4) = 5.0 with the other five dimensions defaulting to 0.
	if score != 5.0 {
		t.Fatalf("score = %v, want 5.0", score)
	}
	if len(breakdown) != len(Dimensions) {
		t.Fatalf("breakdown lines = %d, want %d", len(breakdown), len(Dimensions))
	}
	if !strings.HasPrefix(breakdown[0], "culture: 10/4 = 5.0") {
		t.Fatalf("unexpected culture line: %q", breakdown[0])
	}
}

func TestCalculateNonPositiveAttenuationSubstituted(t *testing.T) {
	cases := []string{"0", "-4", "-0.5", ""}
	for _, atten := range cases {
		fields := map[string]string{
			"safety_impact":      "6",
			"safety_attenuation": atten,
		}
		score, _ := Calculate(fields)
		// Effective attenuation must be exactly 1, so the contribution is 6.0.
		if score != 6.0 {
			t.Errorf("attenuation %q: score = %v, want 6.0", atten, score)
		}
	}
}

func TestCalculateNegativeImpactSubtracts(t *testing.T) {
	fields := map[string]string{
		"culture_impact":    "10",
		"noise_impact":      "-4",
		"noise_attenuation": "4",
	}
	score, _ := Calculate(fields)
	// 10/sqrt(1) + (-4)/sqrt(4) = 10 - 2 = 8.0
	if score != 8.0 {
		t.Fatalf("score = %v, want 8.0", score)
	}
}

func TestCalculateNonNumericFieldsDefault(t *testing.T) {
	fields := map[string]string{
		"environment_impact":      "lots",
		"environment_attenuation": "some",
	}
	score, _ := Calculate(fields)
	if score != 0.0 {
		t.Fatalf("score = %v, want 0.0", score)
	}
}

func TestCalculateBreakdownPreservesDimensionOrder(t *testing.T) {
	fields := map[string]string{}
	_, breakdown := Calculate(fields)
	for i, dim := range Dimensions {
		if !strings.HasPrefix(breakdown[i], dim+":") {
			t.Fatalf("breakdown[%d] = %q, want prefix %q", i, breakdown[i], dim+":")
		}
	}
}

func TestCalculateRoundsToOneDecimal(t *testing.T) {
	fields := map[string]string{
		"culture_impact":      "1",
		"culture_attenuation": "3",
	}
	score, _ := Calculate(fields)
	// 1/sqrt(3) = 0.577... -> 0.6
	if score != 0.6 {
		t.Fatalf("score = %v, want 0.6", score)
	}
}

func TestRound1HalfAwayFromZero(t *testing.T) {
	if got := Round1(0.25); got != 0.3 {
		t.Fatalf("Round1(0.25) = %v, want 0.3", got)
	}
	if got := Round1(-0.25); got != -0.3 {
		t.Fatalf("Round1(-0.25) = %v, want -0.3", got)
	}
}
