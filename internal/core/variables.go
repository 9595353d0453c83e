package core

import (
	"math"
	"riskmap_service/internal/domain/model"
	"strconv"
	"strings"
	"time"
)

const (
	defaultComplianceRisk = 0.3
	defaultVegetationLoss = 10.0
	minProjectDuration    = 30
)

var complianceRisks = map[string]float64{
	"compliant": 0.1,
	"warning":   0.4,
	"violation": 0.7,
}

var startDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// ComplianceRisk maps the project's compliance state to the latent risk factor
// every synthetic variable is modulated by.
func ComplianceRisk(project model.Project) float64 {
	state := project.Compliance
	if strings.TrimSpace(state) == "" {
		state = project.RiskState
	}
	if risk, ok := complianceRisks[strings.ToLower(strings.TrimSpace(state))]; ok {
		return risk
	}
	return defaultComplianceRisk
}

// RiskVariablesAt synthesizes the monitoring variables a project would show
// daysFuture days after asOf. Fields describing history use a seed derived
// from the id alone; freshly observed fields use a seed that also includes
// the day offset.
func RiskVariablesAt(project model.Project, daysFuture int, asOf time.Time) model.RiskVariables {
	if daysFuture < 0 {
		daysFuture = 0
	}
	d := float64(daysFuture)
	seed := SeedFromString(project.ID + strconv.Itoa(daysFuture))
	baseSeed := SeedFromString(project.ID)
	cr := ComplianceRisk(project)

	workType := DetermineWorkType(project)
	area := project.Area
	if area <= 0 {
		area = defaultAreaHectares
	}
	vegetationLoss := project.VegetationLoss
	if vegetationLoss <= 0 {
		vegetationLoss = defaultVegetationLoss
	}

	yellow := math.Floor(20 * cr * (1 + d/120) * (0.6 + 0.4*Draw(seed, 1)))
	red := math.Floor(10 * cr * (1 + d/150) * (0.6 + 0.4*Draw(seed, 2)))
	exits := 5 * cr * (1 + d/240) * (0.6 + 0.4*Draw(seed, 3))

	baseVelocity := WorkTypeConfig(workType).ExpansionRate * area * 10000 / 30
	velocity := baseVelocity * (0.5 + cr + 0.3*Draw(seed, 4))

	affected := vegetationLoss * (1 + d/180) * (0.8 + 0.4*Draw(seed, 5))

	historical := 0.5*Draw(baseSeed, 6) + 0.5*cr
	proximity := 0.6 * Draw(baseSeed, 7)
	if len(project.ProtectedZones) > 0 {
		proximity += 0.4
	}

	trend := (Draw(seed, 8) - 0.3) * 2 * cr

	return model.RiskVariables{
		YellowZoneEvents:       int(yellow),
		RedZoneEvents:          int(red),
		ExitFrequency:          round(exits, 1),
		ExpansionVelocity:      int(math.Round(velocity)),
		AffectedSurface:        round(affected, 1),
		ProjectDuration:        max(minProjectDuration, daysSinceStart(project.StartDate, asOf)) + daysFuture,
		WorkType:               workType,
		HistoricalRisk:         round(historical, 2),
		SensitiveZoneProximity: round(proximity, 2),
		TemporalTrend:          round(trend, 2),
	}
}

// daysSinceStart counts whole days from the start date to asOf. Missing or
// unparseable dates count as starting at asOf.
func daysSinceStart(startDate string, asOf time.Time) int {
	startDate = strings.TrimSpace(startDate)
	if startDate == "" {
		return 0
	}
	for _, layout := range startDateLayouts {
		start, err := time.Parse(layout, startDate)
		if err == nil {
			return int(math.Floor(asOf.Sub(start).Hours() / 24))
		}
	}
	return 0
}

func round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
