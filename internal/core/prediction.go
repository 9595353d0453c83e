package core

import (
	"riskmap_service/internal/domain/model"
	"time"
)

const (
	DefaultTimelineDays = 180
	DefaultTimelineStep = 30
)

// PredictRisk runs the full model for a project daysFuture days after asOf.
// Identical inputs always produce identical predictions.
func PredictRisk(project model.Project, daysFuture int, asOf time.Time) model.RiskPrediction {
	if daysFuture < 0 {
		daysFuture = 0
	}
	variables := RiskVariablesAt(project, daysFuture, asOf)
	score := RiskScore(variables)

	return model.RiskPrediction{
		DaysFuture:      daysFuture,
		Variables:       variables,
		RiskScore:       score,
		RiskLevel:       RiskLevelFor(score),
		ExpansionFactor: ExpansionFactor(project, daysFuture, score),
		WorkType:        WorkTypeConfig(variables.WorkType),
	}
}

// RiskTimeline samples PredictRisk at day 0, step, 2·step, … up to maxDays.
func RiskTimeline(project model.Project, maxDays, step int, asOf time.Time) []model.TimelinePoint {
	if step <= 0 {
		step = DefaultTimelineStep
	}
	if maxDays < 0 {
		return []model.TimelinePoint{}
	}

	timeline := make([]model.TimelinePoint, 0, maxDays/step+1)
	for day := 0; ; day += step {
		prediction := PredictRisk(project, day, asOf)
		timeline = append(timeline, model.TimelinePoint{
			Day:       day,
			Score:     prediction.RiskScore,
			Expansion: prediction.ExpansionFactor,
			Level:     prediction.RiskLevel.Level,
		})
		// Compared before incrementing so day never overflows.
		if day > maxDays-step {
			return timeline
		}
	}
}
