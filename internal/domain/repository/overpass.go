package repository

import (
	"context"
	"fmt"
	"net/http"
	"riskmap_service/internal/domain/model"
	"sort"
	"time"

	"github.com/serjvanilla/go-overpass"
)

type OverpassRepository struct {
	client  *overpass.Client
	timeout time.Duration
}

func NewOverpassRepository(endpoint string, timeout time.Duration) *OverpassRepository {
	httpClient := &http.Client{
		Timeout: timeout,
	}
	client := overpass.NewWithSettings(endpoint, 2, httpClient)
	return &OverpassRepository{
		client:  &client,
		timeout: timeout,
	}
}

// ProtectedAreasQuery returns the Overpass QL for protected areas and nature
// reserves intersecting bounds.
func ProtectedAreasQuery(bounds model.Bounds) string {
	bbox := FormatBBox(bounds)
	return fmt.Sprintf(`
		[out:json][timeout:25];
		(
			way["boundary"="protected_area"](%s);
			relation["boundary"="protected_area"](%s);
			way["leisure"="nature_reserve"](%s);
			relation["leisure"="nature_reserve"](%s);
			node["boundary"="protected_area"](%s);
		);
		out tags bb;
	`, bbox, bbox, bbox, bbox, bbox)
}

// FindProtectedZones lists the protected areas intersecting bounds.
func (r *OverpassRepository) FindProtectedZones(ctx context.Context, bounds model.Bounds) ([]model.ProtectedZone, error) {
	result, err := r.executeQuery(ctx, ProtectedAreasQuery(bounds))
	if err != nil {
		return nil, fmt.Errorf("failed to execute protected areas query: %w", err)
	}
	return convertToProtectedZones(result), nil
}

func (r *OverpassRepository) executeQuery(ctx context.Context, query string) (*overpass.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type outcome struct {
		result overpass.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := r.client.Query(query)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("overpass query cancelled: %w", ctx.Err())
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("overpass query failed: %w", out.err)
		}
		return &out.result, nil
	}
}

func convertToProtectedZones(result *overpass.Result) []model.ProtectedZone {
	var zones []model.ProtectedZone

	for _, node := range result.Nodes {
		zones = append(zones, model.ProtectedZone{
			ID:   node.ID,
			Name: node.Tags["name"],
			Kind: zoneKind(node.Tags),
			Bounds: model.Bounds{
				MinLat: node.Lat, MaxLat: node.Lat,
				MinLon: node.Lon, MaxLon: node.Lon,
			},
		})
	}

	for _, way := range result.Ways {
		zone := model.ProtectedZone{
			ID:   way.ID,
			Name: way.Tags["name"],
			Kind: zoneKind(way.Tags),
		}
		if way.Bounds != nil {
			zone.Bounds = model.Bounds{
				MinLat: way.Bounds.Min.Lat,
				MinLon: way.Bounds.Min.Lon,
				MaxLat: way.Bounds.Max.Lat,
				MaxLon: way.Bounds.Max.Lon,
			}
		}
		zones = append(zones, zone)
	}

	// Relation bounds are not decoded; they only count as present.
	for _, relation := range result.Relations {
		zones = append(zones, model.ProtectedZone{
			ID:   relation.ID,
			Name: relation.Tags["name"],
			Kind: zoneKind(relation.Tags),
		})
	}

	// Result maps have no order.
	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })
	return zones
}

func zoneKind(tags map[string]string) string {
	if tags["leisure"] == "nature_reserve" {
		return "nature_reserve"
	}
	if class := tags["protect_class"]; class != "" {
		return "protected_area:" + class
	}
	return "protected_area"
}
