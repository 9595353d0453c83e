package model

// Position is a GeoJSON position: [lng, lat].
type Position [2]float64

func (p Position) Lng() float64 { return p[0] }
func (p Position) Lat() float64 { return p[1] }

// Ring is a linear ring of positions. Closed rings repeat the first position last.
type Ring []Position

// Closed reports whether the ring's last position equals its first.
func (r Ring) Closed() bool {
	return len(r) > 1 && r[0] == r[len(r)-1]
}

// Geometry is a GeoJSON Polygon geometry with a single outer ring.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates []Ring `json:"coordinates"`
}

// Feature is a GeoJSON Feature wrapping a polygon footprint.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// NewPolygonFeature wraps ring in a Polygon Feature.
func NewPolygonFeature(ring Ring, properties map[string]any) Feature {
	if properties == nil {
		properties = map[string]any{}
	}
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Polygon",
			Coordinates: []Ring{ring},
		},
		Properties: properties,
	}
}

// OuterRing returns the first ring of the polygon, or nil.
func (f Feature) OuterRing() Ring {
	if len(f.Geometry.Coordinates) == 0 {
		return nil
	}
	return f.Geometry.Coordinates[0]
}

type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point lies inside the box, edges included.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// RingBounds returns the bounding box of a ring.
func RingBounds(ring Ring) Bounds {
	if len(ring) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinLat: ring[0].Lat(), MaxLat: ring[0].Lat(),
		MinLon: ring[0].Lng(), MaxLon: ring[0].Lng(),
	}
	for _, p := range ring[1:] {
		b.MinLat = min(b.MinLat, p.Lat())
		b.MaxLat = max(b.MaxLat, p.Lat())
		b.MinLon = min(b.MinLon, p.Lng())
		b.MaxLon = max(b.MaxLon, p.Lng())
	}
	return b
}

// WorkZone is a project footprint with its advisory buffers.
type WorkZone struct {
	WorkZone     Feature `json:"work_zone"`
	YellowBuffer Feature `json:"yellow_buffer"`
	RedBuffer    Feature `json:"red_buffer"`
}
