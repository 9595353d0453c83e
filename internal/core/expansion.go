package core

import (
	"math"
	"riskmap_service/internal/domain/model"
)

// Stream offsets on the project seed. 6 and 7 are taken by the historical variables.
const (
	growthAxisOffset   = 9
	vertexJitterOffset = 10
)

// ExpansionFactor is how much larger the footprint is expected to be after
// daysFuture days at the given risk score. It never exceeds the work type's
// MaxExpansion.
func ExpansionFactor(project model.Project, daysFuture, riskScore int) float64 {
	if daysFuture < 0 {
		daysFuture = 0
	}
	config := WorkTypeConfig(DetermineWorkType(project))

	timeExpansion := 1 + config.ExpansionRate*float64(daysFuture)/30
	riskMultiplier := 1 + float64(riskScore)/100*0.5

	return math.Min(config.MaxExpansion, timeExpansion*riskMultiplier)
}

// ProjectedPolygon expands a ring away from its centroid by expansionFactor.
// Linear works grow more along a growth axis fixed per project. Every vertex
// gets a ±10% jitter keyed by its index, and the closing vertex mirrors the first.
// The jitter is not symmetric, so the projected centroid drifts from the
// original by at most 0.1·expansionFactor times the bounding radius.
func ProjectedPolygon(ring model.Ring, expansionFactor float64, project model.Project) (model.Ring, error) {
	center, err := ringCentroid(ring)
	if err != nil {
		return nil, err
	}

	linear := DetermineWorkType(project) == model.WorkTypeLinear
	seed := SeedFromString(project.ID)
	growthAxis := Draw(seed, growthAxisOffset) * math.Pi * 2

	closed := ring.Closed()
	n := len(ring)
	if closed {
		n--
	}

	projected := make(model.Ring, 0, len(ring))
	for i, p := range ring[:n] {
		dx := p.Lng() - center.Lng()
		dy := p.Lat() - center.Lat()

		local := expansionFactor
		if linear {
			axial := math.Abs(math.Cos(math.Atan2(dy, dx) - growthAxis))
			local = 1 + (expansionFactor-1)*(0.5+axial*0.5)
		}
		local *= 0.9 + Draw(seed, vertexJitterOffset+i)*0.2

		projected = append(projected, model.Position{
			center.Lng() + dx*local,
			center.Lat() + dy*local,
		})
	}
	if closed {
		projected = append(projected, projected[0])
	}
	return projected, nil
}

// ProjectedWorkZone wraps ProjectedPolygon for a Feature.
func ProjectedWorkZone(workZone model.Feature, expansionFactor float64, project model.Project) (*model.Feature, error) {
	ring, err := ProjectedPolygon(workZone.OuterRing(), expansionFactor, project)
	if err != nil {
		return nil, err
	}
	feature := model.NewPolygonFeature(ring, map[string]any{
		"project_id":       project.ID,
		"expansion_factor": expansionFactor,
	})
	return &feature, nil
}
