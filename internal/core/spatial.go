package core

import (
	"math"
	"riskmap_service/internal/domain/model"
)

type SpatialAnalyzer struct{}

func (a *SpatialAnalyzer) Analyze(workZone model.Feature, zones []model.ProtectedZone) model.SpatialFeatures {
	features := model.SpatialFeatures{
		ProtectedZones: len(zones),
		NearestZoneKm:  -1,
	}

	ring := workZone.OuterRing()
	if len(ring) == 0 {
		return features
	}
	features.FootprintAreaKm2 = calculateArea(model.RingBounds(ring))

	center, err := ringCentroid(ring)
	if err != nil {
		return features
	}

	// Расстояние до ближайшей охраняемой зоны
	for _, zone := range zones {
		if zone.Bounds == (model.Bounds{}) {
			continue
		}
		dist := distanceToBounds(center.Lat(), center.Lng(), zone.Bounds)
		if features.NearestZoneKm < 0 || dist < features.NearestZoneKm {
			features.NearestZoneKm = dist
		}
	}

	return features
}

// calculateArea approximates the area of a bounding box in km².
func calculateArea(bounds model.Bounds) float64 {
	// Более точный расчет площади с учетом кривизны Земли
	latMid := (bounds.MinLat + bounds.MaxLat) / 2 * math.Pi / 180
	dLat := bounds.MaxLat - bounds.MinLat
	dLon := bounds.MaxLon - bounds.MinLon

	// Коэффициенты перевода градусов в метры
	kx := 111132.92 - 559.82*math.Cos(2*latMid)
	ky := 111412.84 * math.Cos(latMid)

	return math.Abs(dLat*kx*dLon*ky) / 1000000
}

// distanceToBounds is the great-circle distance in km from a point to the
// closest point of a box; zero when the point is inside.
func distanceToBounds(lat, lon float64, b model.Bounds) float64 {
	closestLat := math.Max(b.MinLat, math.Min(lat, b.MaxLat))
	closestLon := math.Max(b.MinLon, math.Min(lon, b.MaxLon))
	return haversine(lat, lon, closestLat, closestLon)
}

// ExpandBounds grows a box by ratio of its size on every side.
func ExpandBounds(b model.Bounds, ratio float64) model.Bounds {
	padLat := (b.MaxLat - b.MinLat) * ratio
	padLon := (b.MaxLon - b.MinLon) * ratio
	return model.Bounds{
		MinLat: math.Max(-90, b.MinLat-padLat),
		MinLon: math.Max(-180, b.MinLon-padLon),
		MaxLat: math.Min(90, b.MaxLat+padLat),
		MaxLon: math.Min(180, b.MaxLon+padLon),
	}
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // Радиус Земли в км
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
