package core

import (
	"errors"
	"math"
	"riskmap_service/internal/domain/model"
)

var (
	ErrTooFewVertices = errors.New("polygon ring has fewer than 3 vertices")
	ErrNoGeometry     = errors.New("project has neither a work zone nor center coordinates")
)

const (
	defaultAreaHectares = 100.0
	kmPerDegree         = 111.0

	// Buffer scales for the advisory zones drawn around a work zone.
	YellowBufferScale = 1.1
	RedBufferScale    = 1.2
)

// GenerateSyntheticPolygon builds an irregular closed footprint around the
// center whose size follows areaHectares. The same id always yields the same shape.
func GenerateSyntheticPolygon(id string, centerLng, centerLat, areaHectares float64) model.Feature {
	if areaHectares <= 0 {
		areaHectares = defaultAreaHectares
	}
	random := NewStream(SeedFromString(id))

	// 1 ha = 0.01 km², 1° ≈ 111 km on both axes.
	radiusKm := math.Sqrt(areaHectares * 0.01 / math.Pi)
	baseRadius := radiusKm / kmPerDegree

	// Small projects would vanish at country zoom, so the footprint is
	// drawn 2.5–4× larger than its real area.
	visibility := 2.5 + random.Float64()*1.5
	radiusLng := baseRadius * visibility
	radiusLat := baseRadius * visibility

	numVertices := int(random.Float64()*7) + 6

	var aspectRatio, elongationAngle float64
	switch archetype := random.Float64(); {
	case archetype < 0.35: // elongated: roads, pipelines
		aspectRatio = 2.5 + random.Float64()*2
		elongationAngle = random.Float64() * math.Pi
	case archetype < 0.65: // angular industrial lots
		aspectRatio = 1.3 + random.Float64()*0.5
		elongationAngle = random.Float64() * math.Pi * 2
	default: // compact
		aspectRatio = 1.1 + random.Float64()*0.3
		elongationAngle = random.Float64() * math.Pi * 2
	}

	rotation := (random.Float64() - 0.5) * math.Pi * 0.4
	sinRot, cosRot := math.Sincos(rotation)

	step := 2 * math.Pi / float64(numVertices)
	vertices := make(model.Ring, 0, numVertices+3)
	for i := 0; i < numVertices; i++ {
		angle := float64(i)*step + (random.Float64()-0.5)*step*0.3
		r := 0.7 + random.Float64()*0.6

		elongation := math.Abs(math.Cos(angle - elongationAngle))
		aspect := 1 + (aspectRatio-1)*elongation

		x := r * math.Cos(angle) * radiusLng * aspect
		y := r * math.Sin(angle) * radiusLat

		vertices = append(vertices, model.Position{
			centerLng + x*cosRot - y*sinRot,
			centerLat + x*sinRot + y*cosRot,
		})
	}

	ring := addIndentations(vertices, random)
	ring = append(ring, ring[0])

	return model.NewPolygonFeature(ring, nil)
}

// addIndentations inserts up to two midpoints pushed off their edge so the
// footprint is not perfectly convex.
func addIndentations(vertices model.Ring, random *Stream) model.Ring {
	count := int(random.Float64() * 3)
	positions := make(map[int]struct{}, count)
	for i := 0; i < count; i++ {
		positions[int(random.Float64()*float64(len(vertices)))] = struct{}{}
	}

	result := make(model.Ring, 0, len(vertices)+len(positions)+1)
	for i, current := range vertices {
		result = append(result, current)
		if _, ok := positions[i]; !ok {
			continue
		}

		next := vertices[(i+1)%len(vertices)]
		dx := next.Lng() - current.Lng()
		dy := next.Lat() - current.Lat()
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}

		perpX, perpY := -dy/length, dx/length
		depth := length * (0.15 + random.Float64()*0.2)
		direction := -1.0
		if random.Float64() > 0.5 {
			direction = 1
		}

		result = append(result, model.Position{
			(current.Lng()+next.Lng())/2 + perpX*depth*direction,
			(current.Lat()+next.Lat())/2 + perpY*depth*direction,
		})
	}
	return result
}

// ringCentroid is the mean of the ring vertices without the closing duplicate.
func ringCentroid(ring model.Ring) (model.Position, error) {
	if len(ring) < 3 {
		return model.Position{}, ErrTooFewVertices
	}
	n := len(ring)
	if ring.Closed() {
		n--
	}
	var lng, lat float64
	for _, p := range ring[:n] {
		lng += p.Lng()
		lat += p.Lat()
	}
	return model.Position{lng / float64(n), lat / float64(n)}, nil
}

// PolygonCentroid returns the vertex mean of the feature's outer ring.
func PolygonCentroid(feature model.Feature) (model.Position, error) {
	return ringCentroid(feature.OuterRing())
}

// ScalePolygon returns a copy of feature scaled about its centroid.
func ScalePolygon(feature model.Feature, scale float64) (*model.Feature, error) {
	ring := feature.OuterRing()
	center, err := ringCentroid(ring)
	if err != nil {
		return nil, err
	}

	scaled := make(model.Ring, 0, len(ring)+1)
	for _, p := range ring {
		scaled = append(scaled, model.Position{
			center.Lng() + (p.Lng()-center.Lng())*scale,
			center.Lat() + (p.Lat()-center.Lat())*scale,
		})
	}
	if !scaled.Closed() {
		scaled = append(scaled, scaled[0])
	}

	properties := make(map[string]any, len(feature.Properties))
	for k, v := range feature.Properties {
		properties[k] = v
	}
	out := model.NewPolygonFeature(scaled, properties)
	return &out, nil
}

// BoundingRadius is the largest distance, in degrees, from the centroid to a vertex.
func BoundingRadius(feature model.Feature) (float64, error) {
	ring := feature.OuterRing()
	center, err := ringCentroid(ring)
	if err != nil {
		return 0, err
	}
	var radius float64
	for _, p := range ring {
		radius = max(radius, math.Hypot(p.Lng()-center.Lng(), p.Lat()-center.Lat()))
	}
	return radius, nil
}

// BuffersFor derives the yellow and red advisory buffers of a footprint.
func BuffersFor(workZone model.Feature) (model.WorkZone, error) {
	yellow, err := ScalePolygon(workZone, YellowBufferScale)
	if err != nil {
		return model.WorkZone{}, err
	}
	red, err := ScalePolygon(workZone, RedBufferScale)
	if err != nil {
		return model.WorkZone{}, err
	}
	return model.WorkZone{
		WorkZone:     workZone,
		YellowBuffer: *yellow,
		RedBuffer:    *red,
	}, nil
}

// WorkZoneWithBuffers generates a synthetic footprint together with its buffers.
func WorkZoneWithBuffers(id string, centerLng, centerLat, areaHectares float64) model.WorkZone {
	// A generated ring always has at least 7 positions, so BuffersFor cannot fail.
	zone, _ := BuffersFor(GenerateSyntheticPolygon(id, centerLng, centerLat, areaHectares))
	return zone
}

// ResolveWorkZone returns the project's authored footprint, closing it if
// needed, or a synthetic one built from its center and area.
func ResolveWorkZone(project model.Project) (model.Feature, error) {
	if project.WorkZone != nil {
		ring := project.WorkZone.OuterRing()
		if len(ring) < 3 {
			return model.Feature{}, ErrTooFewVertices
		}
		closed := make(model.Ring, len(ring), len(ring)+1)
		copy(closed, ring)
		if !closed.Closed() {
			closed = append(closed, closed[0])
		}
		return model.NewPolygonFeature(closed, project.WorkZone.Properties), nil
	}
	if !project.HasCenter() {
		return model.Feature{}, ErrNoGeometry
	}
	return GenerateSyntheticPolygon(project.ID, *project.CenterLng, *project.CenterLat, project.Area), nil
}
