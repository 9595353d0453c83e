package core

import (
	"math"
	"riskmap_service/internal/domain/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare() model.Feature {
	return model.NewPolygonFeature(model.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}, map[string]any{"name": "square"})
}

func TestGenerateSyntheticPolygon(t *testing.T) {
	feature := GenerateSyntheticPolygon("proj-nl-001", -100.19, 25.78, 85)

	assert.Equal(t, "Feature", feature.Type)
	assert.Equal(t, "Polygon", feature.Geometry.Type)

	ring := feature.OuterRing()
	assert.True(t, ring.Closed())
	// 6–12 vertices, up to 2 indentations, plus the closing position.
	assert.GreaterOrEqual(t, len(ring), 7)
	assert.LessOrEqual(t, len(ring), 15)

	center, err := PolygonCentroid(feature)
	require.NoError(t, err)
	assert.InDelta(t, -100.19, center.Lng(), 0.12)
	assert.InDelta(t, 25.78, center.Lat(), 0.12)
}

func TestGenerateSyntheticPolygonIsDeterministic(t *testing.T) {
	a := GenerateSyntheticPolygon("proj-cdmx-001", -99.2, 19.4, 140)
	b := GenerateSyntheticPolygon("proj-cdmx-001", -99.2, 19.4, 140)
	assert.Equal(t, a, b)

	other := GenerateSyntheticPolygon("proj-qr-001", -99.2, 19.4, 140)
	assert.NotEqual(t, a.OuterRing(), other.OuterRing())
}

func TestGenerateSyntheticPolygonScalesWithArea(t *testing.T) {
	small := GenerateSyntheticPolygon("p1", 0, 0, 100)
	large := GenerateSyntheticPolygon("p1", 0, 0, 400)

	rSmall, err := BoundingRadius(small)
	require.NoError(t, err)
	rLarge, err := BoundingRadius(large)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, rLarge/rSmall, 1e-9)
}

func TestGenerateSyntheticPolygonDefaultArea(t *testing.T) {
	assert.Equal(t,
		GenerateSyntheticPolygon("p1", 10, 10, 100),
		GenerateSyntheticPolygon("p1", 10, 10, 0))
}

func TestPolygonCentroidSkipsClosingVertex(t *testing.T) {
	center, err := PolygonCentroid(unitSquare())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, center.Lng(), 1e-12)
	assert.InDelta(t, 0.5, center.Lat(), 1e-12)

	open := model.NewPolygonFeature(model.Ring{{0, 0}, {3, 0}, {0, 3}}, nil)
	center, err = PolygonCentroid(open)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, center.Lng(), 1e-12)
	assert.InDelta(t, 1.0, center.Lat(), 1e-12)
}

func TestPolygonCentroidTooFewVertices(t *testing.T) {
	_, err := PolygonCentroid(model.NewPolygonFeature(model.Ring{{0, 0}, {1, 1}}, nil))
	assert.ErrorIs(t, err, ErrTooFewVertices)

	_, err = PolygonCentroid(model.Feature{})
	assert.ErrorIs(t, err, ErrTooFewVertices)
}

func TestScalePolygon(t *testing.T) {
	square := unitSquare()

	scaled, err := ScalePolygon(square, 2)
	require.NoError(t, err)

	want := model.Ring{{-0.5, -0.5}, {1.5, -0.5}, {1.5, 1.5}, {-0.5, 1.5}, {-0.5, -0.5}}
	ring := scaled.OuterRing()
	require.Len(t, ring, len(want))
	for i := range want {
		assert.InDelta(t, want[i].Lng(), ring[i].Lng(), 1e-12)
		assert.InDelta(t, want[i].Lat(), ring[i].Lat(), 1e-12)
	}
	assert.True(t, ring.Closed())

	// Properties are copied, not shared.
	assert.Equal(t, "square", scaled.Properties["name"])
	scaled.Properties["name"] = "changed"
	assert.Equal(t, "square", square.Properties["name"])
}

func TestScalePolygonKeepsCentroid(t *testing.T) {
	feature := GenerateSyntheticPolygon("proj-son-001", -110.95, 29.07, 210)
	before, err := PolygonCentroid(feature)
	require.NoError(t, err)

	scaled, err := ScalePolygon(feature, 1.7)
	require.NoError(t, err)
	after, err := PolygonCentroid(*scaled)
	require.NoError(t, err)

	assert.InDelta(t, before.Lng(), after.Lng(), 1e-9)
	assert.InDelta(t, before.Lat(), after.Lat(), 1e-9)
}

func TestScalePolygonClosesOpenRing(t *testing.T) {
	open := model.NewPolygonFeature(model.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}}, nil)
	scaled, err := ScalePolygon(open, 1)
	require.NoError(t, err)
	assert.Len(t, scaled.OuterRing(), 5)
	assert.True(t, scaled.OuterRing().Closed())
}

func TestScalePolygonTooFewVertices(t *testing.T) {
	_, err := ScalePolygon(model.NewPolygonFeature(model.Ring{{0, 0}, {1, 1}}, nil), 1.1)
	assert.ErrorIs(t, err, ErrTooFewVertices)
}

func TestBoundingRadius(t *testing.T) {
	radius, err := BoundingRadius(unitSquare())
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.5), radius, 1e-12)
}

func TestBuffersFor(t *testing.T) {
	feature := GenerateSyntheticPolygon("proj-qr-001", -86.94, 20.5, 60)
	zone, err := BuffersFor(feature)
	require.NoError(t, err)

	base, err := BoundingRadius(zone.WorkZone)
	require.NoError(t, err)
	yellow, err := BoundingRadius(zone.YellowBuffer)
	require.NoError(t, err)
	red, err := BoundingRadius(zone.RedBuffer)
	require.NoError(t, err)

	assert.Equal(t, feature, zone.WorkZone)
	assert.InDelta(t, base*YellowBufferScale, yellow, 1e-12)
	assert.InDelta(t, base*RedBufferScale, red, 1e-12)
}

func TestWorkZoneWithBuffers(t *testing.T) {
	zone := WorkZoneWithBuffers("p1", -99, 19, 50)
	assert.Equal(t, GenerateSyntheticPolygon("p1", -99, 19, 50), zone.WorkZone)
	assert.True(t, zone.YellowBuffer.OuterRing().Closed())
	assert.True(t, zone.RedBuffer.OuterRing().Closed())
}

func TestResolveWorkZone(t *testing.T) {
	lat, lng := 19.4, -99.2

	t.Run("authored zone is closed", func(t *testing.T) {
		authored := model.NewPolygonFeature(model.Ring{{0, 0}, {1, 0}, {1, 1}}, map[string]any{"source": "survey"})
		project := model.Project{ID: "a", WorkZone: &authored, CenterLat: &lat, CenterLng: &lng}

		feature, err := ResolveWorkZone(project)
		require.NoError(t, err)
		assert.Equal(t, model.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, feature.OuterRing())
		assert.Equal(t, "survey", feature.Properties["source"])
		// The project's own ring is left untouched.
		assert.Len(t, authored.OuterRing(), 3)
	})

	t.Run("center only", func(t *testing.T) {
		project := model.Project{ID: "b", CenterLat: &lat, CenterLng: &lng, Area: 20}
		feature, err := ResolveWorkZone(project)
		require.NoError(t, err)
		assert.Equal(t, GenerateSyntheticPolygon("b", lng, lat, 20), feature)
	})

	t.Run("no geometry", func(t *testing.T) {
		_, err := ResolveWorkZone(model.Project{ID: "c", CenterLat: &lat})
		assert.ErrorIs(t, err, ErrNoGeometry)
	})

	t.Run("degenerate authored zone", func(t *testing.T) {
		authored := model.NewPolygonFeature(model.Ring{{0, 0}, {1, 1}}, nil)
		_, err := ResolveWorkZone(model.Project{ID: "d", WorkZone: &authored})
		assert.ErrorIs(t, err, ErrTooFewVertices)
	})
}
