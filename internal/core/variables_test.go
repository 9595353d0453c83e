package core

import (
	"riskmap_service/internal/domain/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testAsOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// testProject is a punctual project with default area and vegetation loss
// that started 365 days before testAsOf.
func testProject(id, compliance string) model.Project {
	return model.Project{
		ID:         id,
		Name:       "Mina " + id,
		Category:   "Minería",
		Compliance: compliance,
		StartDate:  "2024-06-01",
	}
}

func TestComplianceRisk(t *testing.T) {
	tests := []struct {
		name     string
		project  model.Project
		expected float64
	}{
		{"compliant", model.Project{Compliance: "compliant"}, 0.1},
		{"warning", model.Project{Compliance: "warning"}, 0.4},
		{"violation", model.Project{Compliance: "violation"}, 0.7},
		{"case and spaces", model.Project{Compliance: "  Violation "}, 0.7},
		{"risk state fallback", model.Project{RiskState: "warning"}, 0.4},
		{"compliance wins", model.Project{Compliance: "compliant", RiskState: "violation"}, 0.1},
		{"unknown", model.Project{RiskState: "unknown"}, 0.3},
		{"missing", model.Project{}, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComplianceRisk(tt.project))
		})
	}
}

func TestRiskVariablesAtCompliantToday(t *testing.T) {
	v := RiskVariablesAt(testProject("p1", "compliant"), 0, testAsOf)

	assert.Equal(t, model.RiskVariables{
		YellowZoneEvents:       1,
		RedZoneEvents:          0,
		ExitFrequency:          0.4,
		ExpansionVelocity:      415,
		AffectedSurface:        11.6,
		ProjectDuration:        365,
		WorkType:               model.WorkTypePunctual,
		HistoricalRisk:         0.11,
		SensitiveZoneProximity: 0.45,
		TemporalTrend:          -0.01,
	}, v)
}

func TestRiskVariablesAtViolationHalfYear(t *testing.T) {
	v := RiskVariablesAt(testProject("p1", "violation"), 180, testAsOf)

	assert.Equal(t, 23, v.YellowZoneEvents)
	assert.Equal(t, 13, v.RedZoneEvents)
	assert.Equal(t, 6.0, v.ExitFrequency)
	assert.Equal(t, 807, v.ExpansionVelocity)
	assert.Equal(t, 17.2, v.AffectedSurface)
	assert.Equal(t, 545, v.ProjectDuration)
	assert.Equal(t, 0.41, v.HistoricalRisk)
	assert.Equal(t, 0.45, v.SensitiveZoneProximity)
	assert.Equal(t, 0.82, v.TemporalTrend)
}

func TestRiskVariablesAtIsDeterministic(t *testing.T) {
	project := testProject("proj-nl-001", "warning")
	assert.Equal(t, RiskVariablesAt(project, 90, testAsOf), RiskVariablesAt(project, 90, testAsOf))
}

func TestRiskVariablesAtClampsNegativeDays(t *testing.T) {
	project := testProject("p1", "warning")
	assert.Equal(t, RiskVariablesAt(project, 0, testAsOf), RiskVariablesAt(project, -15, testAsOf))
}

func TestRiskVariablesAtHistoryIgnoresHorizon(t *testing.T) {
	project := testProject("proj-cdmx-001", "violation")
	today := RiskVariablesAt(project, 0, testAsOf)
	later := RiskVariablesAt(project, 120, testAsOf)

	assert.Equal(t, today.HistoricalRisk, later.HistoricalRisk)
	assert.Equal(t, today.SensitiveZoneProximity, later.SensitiveZoneProximity)
	assert.Equal(t, today.ProjectDuration+120, later.ProjectDuration)
}

func TestRiskVariablesAtProtectedZonesRaiseProximity(t *testing.T) {
	project := testProject("p1", "warning")
	without := RiskVariablesAt(project, 0, testAsOf)

	project.ProtectedZones = []model.ProtectedZone{{ID: 1, Name: "Reserva"}}
	with := RiskVariablesAt(project, 0, testAsOf)

	assert.InDelta(t, without.SensitiveZoneProximity+0.4, with.SensitiveZoneProximity, 0.011)
	assert.Equal(t, without.RedZoneEvents, with.RedZoneEvents)
}

func TestRiskVariablesAtUsesAreaAndVegetation(t *testing.T) {
	project := testProject("p1", "warning")
	base := RiskVariablesAt(project, 0, testAsOf)

	project.Area = 200
	project.VegetationLoss = 20
	larger := RiskVariablesAt(project, 0, testAsOf)

	assert.InDelta(t, 2*float64(base.ExpansionVelocity), float64(larger.ExpansionVelocity), 1)
	assert.InDelta(t, 2*base.AffectedSurface, larger.AffectedSurface, 0.11)
}

func TestDaysSinceStart(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		expected  int
	}{
		{"date", "2024-06-01", 365},
		{"rfc3339", "2025-05-01T12:00:00Z", 30},
		{"local timestamp", "2025-05-22T00:00:00", 10},
		{"future", "2025-07-01", -30},
		{"empty", "", 0},
		{"garbage", "not a date", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, daysSinceStart(tt.startDate, testAsOf))
		})
	}
}

func TestProjectDurationFloor(t *testing.T) {
	project := testProject("p1", "compliant")
	project.StartDate = "2025-07-01"
	assert.Equal(t, 30, RiskVariablesAt(project, 0, testAsOf).ProjectDuration)

	project.StartDate = ""
	assert.Equal(t, 40, RiskVariablesAt(project, 10, testAsOf).ProjectDuration)
}
