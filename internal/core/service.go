package core

import (
	"context"
	"fmt"
	"log"
	"riskmap_service/internal/domain/model"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Protected zones are searched around the red buffer, padded by this share of its size.
const protectedZoneMargin = 0.25

type ProjectRepository interface {
	List(ctx context.Context) ([]model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
}

type ProtectedZoneFinder interface {
	FindProtectedZones(ctx context.Context, bounds model.Bounds) ([]model.ProtectedZone, error)
}

type AlertPublisher interface {
	Publish(ctx context.Context, alerts []model.Alert) error
}

// RiskService exposes the risk model over stored projects.
type RiskService struct {
	projects     ProjectRepository
	zones        ProtectedZoneFinder
	publisher    AlertPublisher
	alertHorizon int
	now          func() time.Time
}

// NewRiskService wires the collaborators. zones and publisher may be nil.
func NewRiskService(
	projects ProjectRepository,
	zones ProtectedZoneFinder,
	publisher AlertPublisher,
	alertHorizon int,
) *RiskService {
	if alertHorizon <= 0 {
		alertHorizon = DefaultTimelineDays
	}
	return &RiskService{
		projects:     projects,
		zones:        zones,
		publisher:    publisher,
		alertHorizon: alertHorizon,
		now:          time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *RiskService) WithClock(now func() time.Time) *RiskService {
	s.now = now
	return s
}

// asOf is today at UTC midnight so repeated calls on one day are identical.
func (s *RiskService) asOf() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

func (s *RiskService) ListProjects(ctx context.Context) ([]model.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject loads a project and attaches nearby protected zones when none are recorded.
func (s *RiskService) GetProject(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.enrichProtectedZones(ctx, project)
	return project, nil
}

func (s *RiskService) enrichProtectedZones(ctx context.Context, project *model.Project) {
	if s.zones == nil || len(project.ProtectedZones) > 0 {
		return
	}
	workZone, err := ResolveWorkZone(*project)
	if err != nil {
		return
	}
	red, err := ScalePolygon(workZone, RedBufferScale)
	if err != nil {
		return
	}

	searchArea := ExpandBounds(model.RingBounds(red.OuterRing()), protectedZoneMargin)
	zones, err := s.zones.FindProtectedZones(ctx, searchArea)
	if err != nil {
		log.Printf("Warning: failed to get protected zones for project %s: %v", project.ID, err)
		return
	}
	project.ProtectedZones = zones
}

func (s *RiskService) Predict(ctx context.Context, id string, daysFuture int) (*model.RiskPrediction, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	prediction := PredictRisk(*project, daysFuture, s.asOf())
	return &prediction, nil
}

type TimelineResult struct {
	ProjectID string                 `json:"project_id"`
	Points    []model.TimelinePoint  `json:"timeline"`
	Summary   model.TemporalFeatures `json:"summary"`
}

func (s *RiskService) Timeline(ctx context.Context, id string, maxDays, step int) (*TimelineResult, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	points := RiskTimeline(*project, maxDays, step, s.asOf())
	analyzer := TemporalAnalyzer{}
	return &TimelineResult{
		ProjectID: project.ID,
		Points:    points,
		Summary:   analyzer.Analyze(points),
	}, nil
}

type WorkZoneResult struct {
	model.WorkZone
	Projected  model.Feature         `json:"projected"`
	Prediction model.RiskPrediction  `json:"prediction"`
	Spatial    model.SpatialFeatures `json:"spatial"`
}

// WorkZone returns the footprint, its buffers and the footprint projected daysFuture days ahead.
func (s *RiskService) WorkZone(ctx context.Context, id string, daysFuture int) (*WorkZoneResult, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	workZone, err := ResolveWorkZone(*project)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", project.ID, err)
	}
	zone, err := BuffersFor(workZone)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", project.ID, err)
	}

	prediction := PredictRisk(*project, daysFuture, s.asOf())
	projected, err := ProjectedWorkZone(workZone, prediction.ExpansionFactor, *project)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", project.ID, err)
	}

	analyzer := SpatialAnalyzer{}
	return &WorkZoneResult{
		WorkZone:   zone,
		Projected:  *projected,
		Prediction: prediction,
		Spatial:    analyzer.Analyze(workZone, project.ProtectedZones),
	}, nil
}

// RiskMap predicts every project whose footprint centroid lies within bounds.
// A nil bounds selects all projects. Projects without geometry are listed
// without one.
func (s *RiskService) RiskMap(ctx context.Context, bounds *model.Bounds, daysFuture int) ([]model.RiskMapEntry, error) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	asOf := s.asOf()

	entries := make([]model.RiskMapEntry, 0, len(projects))
	for _, project := range projects {
		workZone, zoneErr := ResolveWorkZone(project)
		hasZone := zoneErr == nil
		if bounds != nil {
			if !hasZone {
				continue
			}
			center, err := PolygonCentroid(workZone)
			if err != nil || !bounds.Contains(center.Lat(), center.Lng()) {
				continue
			}
		}

		prediction := PredictRisk(project, daysFuture, asOf)
		var geometry *model.Geometry
		if hasZone {
			if projected, err := ProjectedWorkZone(workZone, prediction.ExpansionFactor, project); err == nil {
				geometry = &projected.Geometry
			}
		}

		entries = append(entries, model.RiskMapEntry{
			ProjectID: project.ID,
			Name:      project.Name,
			RiskLabel: prediction.RiskLevel.Level,
			RiskScore: prediction.RiskScore,
			Color:     RiskColorHex(prediction.RiskScore),
			Geometry:  geometry,
		})
	}
	return entries, nil
}

type AlertFilter struct {
	ProjectID string
	Severity  string
	Limit     int
}

// Alerts derives alerts from each project's timeline up to the alert horizon.
// Like the risk map, it uses only the protected zones recorded on projects.
func (s *RiskService) Alerts(ctx context.Context, filter AlertFilter) ([]model.Alert, error) {
	var projects []model.Project
	if filter.ProjectID != "" {
		project, err := s.projects.GetByID(ctx, filter.ProjectID)
		if err != nil {
			return nil, err
		}
		projects = []model.Project{*project}
	} else {
		list, err := s.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
		projects = list
	}

	asOf := s.asOf()
	severity := strings.ToLower(strings.TrimSpace(filter.Severity))
	alerts := make([]model.Alert, 0)
	for _, project := range projects {
		alert, ok := s.alertFor(project, asOf)
		if !ok || (severity != "" && alert.Severity != severity) {
			continue
		}
		alerts = append(alerts, alert)
		if filter.Limit > 0 && len(alerts) >= filter.Limit {
			break
		}
	}
	return alerts, nil
}

// PublishAlerts derives alerts and hands them to the publisher.
func (s *RiskService) PublishAlerts(ctx context.Context, filter AlertFilter) ([]model.Alert, error) {
	alerts, err := s.Alerts(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.publisher == nil || len(alerts) == 0 {
		return alerts, nil
	}
	if err := s.publisher.Publish(ctx, alerts); err != nil {
		return nil, fmt.Errorf("failed to publish alerts: %w", err)
	}
	return alerts, nil
}

// alertFor raises an alert for the most severe band reached within the
// horizon. The first critical day gives "critical"; otherwise the first high
// day gives "warning".
func (s *RiskService) alertFor(project model.Project, asOf time.Time) (model.Alert, bool) {
	var (
		point    model.TimelinePoint
		severity string
	)
	for _, candidate := range RiskTimeline(project, s.alertHorizon, DefaultTimelineStep, asOf) {
		if candidate.Level == model.RiskCritical {
			point, severity = candidate, "critical"
			break
		}
		if candidate.Level == model.RiskHigh && severity == "" {
			point, severity = candidate, "warning"
		}
	}
	if severity == "" {
		return model.Alert{}, false
	}

	prediction := PredictRisk(project, point.Day, asOf)
	alert := model.Alert{
		ID:        uuid.NewString(),
		ProjectID: project.ID,
		Severity:  severity,
		Title:     fmt.Sprintf("%s risk predicted for %s", prediction.RiskLevel.Label, project.Name),
		Message: fmt.Sprintf("Risk score %d expected in %d days; footprint may grow to %.2fx its authorized area.",
			point.Score, point.Day, point.Expansion),
		CreatedAt: s.now().UTC(),
		Metric: map[string]any{
			"risk_score":         point.Score,
			"day":                point.Day,
			"expansion_factor":   point.Expansion,
			"yellow_zone_events": prediction.Variables.YellowZoneEvents,
			"red_zone_events":    prediction.Variables.RedZoneEvents,
			"affected_surface":   prediction.Variables.AffectedSurface,
		},
	}
	if workZone, err := ResolveWorkZone(project); err == nil {
		if projected, err := ProjectedWorkZone(workZone, point.Expansion, project); err == nil {
			alert.Geometry = &projected.Geometry
		}
	}
	return alert, true
}
