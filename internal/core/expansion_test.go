package core

import (
	"math"
	"riskmap_service/internal/domain/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpansionFactor(t *testing.T) {
	punctual := model.Project{Name: "Mina"}
	linear := model.Project{Name: "Tren Ligero"}
	extensive := model.Project{Name: "Resort"}

	assert.InDelta(t, 1.0, ExpansionFactor(punctual, 0, 0), 1e-12)
	assert.InDelta(t, 1.02, ExpansionFactor(punctual, 30, 0), 1e-12)
	assert.InDelta(t, 1.13, ExpansionFactor(punctual, 0, 26), 1e-12)
	assert.InDelta(t, 1.4, ExpansionFactor(linear, 90, 50), 1e-12)

	// Capped at the work type maximum.
	assert.Equal(t, 1.3, ExpansionFactor(punctual, 3650, 100))
	assert.Equal(t, 1.6, ExpansionFactor(linear, 3650, 100))
	assert.Equal(t, 2.0, ExpansionFactor(extensive, 3650, 100))

	assert.Equal(t, ExpansionFactor(punctual, 0, 40), ExpansionFactor(punctual, -30, 40))
}

func TestExpansionFactorGrowsWithTime(t *testing.T) {
	project := model.Project{Name: "Resort"}
	previous := 0.0
	for day := 0; day <= 720; day += 30 {
		factor := ExpansionFactor(project, day, 50)
		assert.GreaterOrEqual(t, factor, previous)
		assert.LessOrEqual(t, factor, 2.0)
		previous = factor
	}
}

func vertexRatios(t *testing.T, original, projected model.Ring) []float64 {
	t.Helper()
	center, err := ringCentroid(original)
	require.NoError(t, err)

	ratios := make([]float64, 0, len(original))
	for i, p := range original {
		before := math.Hypot(p.Lng()-center.Lng(), p.Lat()-center.Lat())
		after := math.Hypot(projected[i].Lng()-center.Lng(), projected[i].Lat()-center.Lat())
		ratios = append(ratios, after/before)
	}
	return ratios
}

func TestProjectedPolygonRadial(t *testing.T) {
	project := testProject("p1", "violation")
	ring := GenerateSyntheticPolygon(project.ID, -99, 19, 100).OuterRing()

	projected, err := ProjectedPolygon(ring, 1.5, project)
	require.NoError(t, err)

	require.Len(t, projected, len(ring))
	assert.True(t, projected.Closed())
	for _, ratio := range vertexRatios(t, ring, projected) {
		assert.GreaterOrEqual(t, ratio, 1.5*0.9-1e-9)
		assert.LessOrEqual(t, ratio, 1.5*1.1+1e-9)
	}
}

func TestProjectedPolygonLinear(t *testing.T) {
	project := model.Project{ID: "proj-cdmx-001", Name: "Tren Interurbano"}
	ring := GenerateSyntheticPolygon(project.ID, -99.2, 19.4, 140).OuterRing()

	projected, err := ProjectedPolygon(ring, 1.5, project)
	require.NoError(t, err)

	// Growth varies between half and all of the expansion along the axis.
	for _, ratio := range vertexRatios(t, ring, projected) {
		assert.GreaterOrEqual(t, ratio, 1.25*0.9-1e-9)
		assert.LessOrEqual(t, ratio, 1.5*1.1+1e-9)
	}
}

func TestProjectedPolygonCentroidShiftIsBounded(t *testing.T) {
	project := testProject("proj-son-001", "warning")
	feature := GenerateSyntheticPolygon(project.ID, -110.95, 29.07, 210)
	ring := feature.OuterRing()

	before, err := ringCentroid(ring)
	require.NoError(t, err)
	radius, err := BoundingRadius(feature)
	require.NoError(t, err)

	factor := 1.25
	projected, err := ProjectedPolygon(ring, factor, project)
	require.NoError(t, err)
	after, err := ringCentroid(projected)
	require.NoError(t, err)

	shift := math.Hypot(after.Lng()-before.Lng(), after.Lat()-before.Lat())
	assert.LessOrEqual(t, shift, 0.1*factor*radius+1e-12)
}

func TestProjectedPolygonIsDeterministic(t *testing.T) {
	project := testProject("p1", "warning")
	ring := GenerateSyntheticPolygon(project.ID, 0, 0, 100).OuterRing()

	a, err := ProjectedPolygon(ring, 1.2, project)
	require.NoError(t, err)
	b, err := ProjectedPolygon(ring, 1.2, project)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProjectedPolygonOpenRing(t *testing.T) {
	ring := model.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	projected, err := ProjectedPolygon(ring, 1.1, model.Project{ID: "x"})
	require.NoError(t, err)
	assert.Len(t, projected, 4)
}

func TestProjectedPolygonTooFewVertices(t *testing.T) {
	_, err := ProjectedPolygon(model.Ring{{0, 0}, {1, 1}}, 1.2, model.Project{ID: "x"})
	assert.ErrorIs(t, err, ErrTooFewVertices)
}

func TestProjectedWorkZone(t *testing.T) {
	project := testProject("p1", "warning")
	feature := GenerateSyntheticPolygon(project.ID, 0, 0, 100)

	projected, err := ProjectedWorkZone(feature, 1.15, project)
	require.NoError(t, err)

	assert.Equal(t, "Feature", projected.Type)
	assert.Equal(t, "Polygon", projected.Geometry.Type)
	assert.Equal(t, "p1", projected.Properties["project_id"])
	assert.Equal(t, 1.15, projected.Properties["expansion_factor"])
	assert.True(t, projected.OuterRing().Closed())
}
