package model

import "time"

// WorkTypeName classifies how a project's footprint is expected to grow.
type WorkTypeName string

const (
	WorkTypePunctual  WorkTypeName = "punctual"
	WorkTypeLinear    WorkTypeName = "linear"
	WorkTypeExtensive WorkTypeName = "extensive"
)

type WorkType struct {
	Name           WorkTypeName `json:"name"`
	Label          string       `json:"label"`
	ExpansionRate  float64      `json:"expansion_rate"` // fraction per 30 days
	MaxExpansion   float64      `json:"max_expansion"`
	Directionality string       `json:"directionality"` // radial | axial
}

// RiskVariables are the synthetic monitoring variables of a project at a future day.
type RiskVariables struct {
	YellowZoneEvents       int          `json:"yellow_zone_events"`
	RedZoneEvents          int          `json:"red_zone_events"`
	ExitFrequency          float64      `json:"exit_frequency"`     // per week
	ExpansionVelocity      int          `json:"expansion_velocity"` // m²/day
	AffectedSurface        float64      `json:"affected_surface"`   // hectares
	ProjectDuration        int          `json:"project_duration"`   // days
	WorkType               WorkTypeName `json:"work_type"`
	HistoricalRisk         float64      `json:"historical_risk"`
	SensitiveZoneProximity float64      `json:"sensitive_zone_proximity"`
	TemporalTrend          float64      `json:"temporal_trend"`
}

type RiskLevelName string

const (
	RiskLow      RiskLevelName = "low"
	RiskMedium   RiskLevelName = "medium"
	RiskHigh     RiskLevelName = "high"
	RiskCritical RiskLevelName = "critical"
)

type RiskLevel struct {
	Level RiskLevelName `json:"level"`
	Label string        `json:"label"`
	Color string        `json:"color"`
}

type RiskPrediction struct {
	DaysFuture      int           `json:"days_future"`
	Variables       RiskVariables `json:"variables"`
	RiskScore       int           `json:"risk_score"`
	RiskLevel       RiskLevel     `json:"risk_level"`
	ExpansionFactor float64       `json:"expansion_factor"`
	WorkType        WorkType      `json:"work_type"`
}

// TimelinePoint is one sample of a risk timeline.
type TimelinePoint struct {
	Day       int           `json:"day"`
	Score     int           `json:"score"`
	Expansion float64       `json:"expansion"`
	Level     RiskLevelName `json:"level"`
}

// RiskMapEntry is a project as drawn on the risk map.
type RiskMapEntry struct {
	ProjectID string        `json:"project_id"`
	Name      string        `json:"name"`
	RiskLabel RiskLevelName `json:"risk_label"`
	RiskScore int           `json:"risk_score"`
	Color     string        `json:"color"`
	Geometry  *Geometry     `json:"geometry"`
}

// Alert is raised when a project's predicted risk reaches the high band.
type Alert struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	Severity  string         `json:"severity"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	CreatedAt time.Time      `json:"created_at"`
	Geometry  *Geometry      `json:"geometry,omitempty"`
	Metric    map[string]any `json:"metric,omitempty"`
}

// SpatialFeatures describe a footprint relative to nearby protected zones.
type SpatialFeatures struct {
	FootprintAreaKm2 float64 `json:"footprint_area_km2"`
	ProtectedZones   int     `json:"protected_zones"`
	NearestZoneKm    float64 `json:"nearest_zone_km"` // -1 when no zone has known bounds
}

// TemporalFeatures summarize a risk timeline. TrendSlope is the score change
// per 30 days between the first and last sample.
type TemporalFeatures struct {
	DaysAnalyzed int     `json:"days_analyzed"`
	StartScore   int     `json:"start_score"`
	EndScore     int     `json:"end_score"`
	PeakScore    int     `json:"peak_score"`
	TrendSlope   float64 `json:"trend_slope"`
	FirstHighDay int     `json:"first_high_day"` // -1 when the high band is never reached
}
