package core

import (
	"fmt"
	"math"
	"riskmap_service/internal/domain/model"
)

// Weights of each normalized variable in the risk score. They sum to 1.
const (
	weightYellowZoneEvents       = 0.08
	weightRedZoneEvents          = 0.15
	weightExitFrequency          = 0.10
	weightExpansionVelocity      = 0.12
	weightAffectedSurface        = 0.10
	weightProjectDuration        = 0.05
	weightHistoricalRisk         = 0.15
	weightSensitiveZoneProximity = 0.12
	weightTemporalTrend          = 0.13
)

// RiskScore reduces the variables to an integer score in [1, 100].
func RiskScore(v model.RiskVariables) int {
	score := weightYellowZoneEvents*normalize(float64(v.YellowZoneEvents), 20) +
		weightRedZoneEvents*normalize(float64(v.RedZoneEvents), 10) +
		weightExitFrequency*normalize(v.ExitFrequency, 5) +
		weightExpansionVelocity*normalize(float64(v.ExpansionVelocity), 1000) +
		weightAffectedSurface*normalize(v.AffectedSurface, 100) +
		weightProjectDuration*normalize(float64(v.ProjectDuration), 365) +
		weightHistoricalRisk*clamp01(v.HistoricalRisk) +
		weightSensitiveZoneProximity*clamp01(v.SensitiveZoneProximity) +
		weightTemporalTrend*clamp01((v.TemporalTrend+1)/2)

	return int(math.Max(1, math.Min(100, math.Round(score*100))))
}

func normalize(value, limit float64) float64 {
	return clamp01(value / limit)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

var riskLevels = [...]struct {
	below int
	level model.RiskLevel
}{
	{30, model.RiskLevel{Level: model.RiskLow, Label: "Bajo", Color: "#27ae60"}},
	{60, model.RiskLevel{Level: model.RiskMedium, Label: "Medio", Color: "#f39c12"}},
	{80, model.RiskLevel{Level: model.RiskHigh, Label: "Alto", Color: "#e67e22"}},
}

var criticalLevel = model.RiskLevel{Level: model.RiskCritical, Label: "Crítico", Color: "#e74c3c"}

// RiskLevelFor maps a score to its band. Lower bounds are inclusive.
func RiskLevelFor(score int) model.RiskLevel {
	for _, band := range riskLevels {
		if score < band.below {
			return band.level
		}
	}
	return criticalLevel
}

// RiskColorHex is the map fill color for a score.
func RiskColorHex(score int) string {
	switch {
	case score < 30:
		return "#27ae60"
	case score < 50:
		return "#f1c40f"
	case score < 70:
		return "#e67e22"
	default:
		return "#e74c3c"
	}
}

type rgb struct{ r, g, b float64 }

var (
	colorGreen  = rgb{39, 174, 96}
	colorYellow = rgb{243, 156, 18}
	colorOrange = rgb{230, 126, 34}
	colorRed    = rgb{231, 76, 60}
)

// RiskColor returns a CSS rgba() color on a green-yellow-orange-red gradient.
func RiskColor(score int, opacity float64) string {
	s := float64(score)
	var c rgb
	switch {
	case score < 30:
		c = colorGreen
	case score < 50:
		c = lerp(colorGreen, colorYellow, (s-30)/20)
	case score < 70:
		c = lerp(colorYellow, colorOrange, (s-50)/20)
	default:
		c = lerp(colorOrange, colorRed, math.Min(1, (s-70)/30))
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", int(math.Round(c.r)), int(math.Round(c.g)), int(math.Round(c.b)), opacity)
}

func lerp(from, to rgb, t float64) rgb {
	return rgb{
		r: from.r + (to.r-from.r)*t,
		g: from.g + (to.g-from.g)*t,
		b: from.b + (to.b-from.b)*t,
	}
}
