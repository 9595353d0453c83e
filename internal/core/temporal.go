package core

import (
	"riskmap_service/internal/domain/model"
	"sort"
)

type TemporalAnalyzer struct{}

func (a *TemporalAnalyzer) Analyze(timeline []model.TimelinePoint) model.TemporalFeatures {
	data := make([]model.TimelinePoint, len(timeline))
	copy(data, timeline)
	sort.Slice(data, func(i, j int) bool {
		return data[i].Day < data[j].Day
	})

	features := model.TemporalFeatures{
		FirstHighDay: -1,
	}

	if len(data) == 0 {
		return features
	}

	first, last := data[0], data[len(data)-1]
	features.DaysAnalyzed = last.Day - first.Day
	features.StartScore = first.Score
	features.EndScore = last.Score

	for _, point := range data {
		features.PeakScore = max(features.PeakScore, point.Score)
		if features.FirstHighDay < 0 && (point.Level == model.RiskHigh || point.Level == model.RiskCritical) {
			features.FirstHighDay = point.Day
		}
	}

	// Наклон тренда: изменение балла за 30 дней
	if features.DaysAnalyzed > 0 {
		features.TrendSlope = float64(last.Score-first.Score) / float64(features.DaysAnalyzed) * 30
	}

	return features
}
