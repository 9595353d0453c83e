package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"riskmap_service/internal/domain/model"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var ErrProjectNotFound = errors.New("project not found")

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(connStr string) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an already opened connection pool.
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// The active geomarker is the highest active version; vegetation loss comes
// from the last completed monitoring run. The schema keeps no footprint area,
// so Area stays zero and the risk core applies its default.
const projectSelect = `
	SELECT
		p.id,
		p.name,
		COALESCE(p.description, '') AS description,
		COALESCE(p.category, '') AS category,
		COALESCE(p.status, 'active') AS status,
		COALESCE(p.risk_label, 'unknown') AS risk_label,
		COALESCE(c.name, '') AS company,
		COALESCE(rg.name, '') AS region,
		COALESCE(p.monitoring_start_date::text, '') AS start_date,
		COALESCE(lr.hectares_change, 0) AS vegetation_loss,
		p.center_lat,
		p.center_lng,
		g.geojson
	FROM projects p
	LEFT JOIN companies c ON c.id = p.company_id
	LEFT JOIN regions rg ON rg.id = p.region_id
	LEFT JOIN LATERAL (
		SELECT geojson FROM geomarkers
		WHERE project_id = p.id AND is_active
		ORDER BY version DESC LIMIT 1
	) g ON true
	LEFT JOIN LATERAL (
		SELECT hectares_change FROM runs
		WHERE project_id = p.id AND status = 'completed'
		ORDER BY end_date DESC LIMIT 1
	) lr ON true`

type projectRow struct {
	ID             string          `db:"id"`
	Name           string          `db:"name"`
	Description    string          `db:"description"`
	Category       string          `db:"category"`
	Status         string          `db:"status"`
	RiskLabel      string          `db:"risk_label"`
	Company        string          `db:"company"`
	Region         string          `db:"region"`
	StartDate      string          `db:"start_date"`
	VegetationLoss float64         `db:"vegetation_loss"`
	CenterLat      sql.NullFloat64 `db:"center_lat"`
	CenterLng      sql.NullFloat64 `db:"center_lng"`
	GeoJSON        []byte          `db:"geojson"`
}

func (row projectRow) toModel() (model.Project, error) {
	project := model.Project{
		ID:             row.ID,
		Name:           row.Name,
		Description:    row.Description,
		Category:       row.Category,
		Status:         row.Status,
		RiskState:      strings.ToLower(strings.TrimSpace(row.RiskLabel)),
		Company:        row.Company,
		Region:         row.Region,
		StartDate:      row.StartDate,
		VegetationLoss: row.VegetationLoss,
	}
	if row.CenterLat.Valid && row.CenterLng.Valid {
		lat, lng := row.CenterLat.Float64, row.CenterLng.Float64
		project.CenterLat = &lat
		project.CenterLng = &lng
	}

	if len(row.GeoJSON) > 0 {
		var geometry model.Geometry
		if err := json.Unmarshal(row.GeoJSON, &geometry); err != nil {
			return model.Project{}, fmt.Errorf("invalid geomarker geojson for project %s: %w", row.ID, err)
		}
		if geometry.Type == "Polygon" && len(geometry.Coordinates) > 0 {
			project.WorkZone = &model.Feature{
				Type:       "Feature",
				Geometry:   geometry,
				Properties: map[string]any{"name": row.Name, "compliance": project.RiskState},
			}
		}
	}
	return project, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]model.Project, error) {
	var rows []projectRow
	if err := r.db.SelectContext(ctx, &rows, projectSelect+` ORDER BY p.name`); err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}

	projects := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		project, err := row.toModel()
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var row projectRow
	err := r.db.GetContext(ctx, &row, projectSelect+` WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query project %s: %w", id, err)
	}

	project, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ParseBBox parses a bbox string in format "lat1,lon1,lat2,lon2".
func ParseBBox(bbox string) (model.Bounds, error) {
	parts := strings.Split(bbox, ",")
	if len(parts) != 4 {
		return model.Bounds{}, fmt.Errorf("bbox must have 4 components, got %d", len(parts))
	}

	var values [4]float64
	names := [4]string{"minLat", "minLon", "maxLat", "maxLon"}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return model.Bounds{}, fmt.Errorf("invalid %s: %w", names[i], err)
		}
		values[i] = v
	}
	b := model.Bounds{MinLat: values[0], MinLon: values[1], MaxLat: values[2], MaxLon: values[3]}

	if b.MinLat < -90 || b.MinLat > 90 || b.MaxLat < -90 || b.MaxLat > 90 {
		return model.Bounds{}, fmt.Errorf("latitude out of range [-90, 90]")
	}
	if b.MinLon < -180 || b.MinLon > 180 || b.MaxLon < -180 || b.MaxLon > 180 {
		return model.Bounds{}, fmt.Errorf("longitude out of range [-180, 180]")
	}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return model.Bounds{}, fmt.Errorf("minLat must be <= maxLat and minLon must be <= maxLon")
	}
	return b, nil
}

// FormatBBox renders bounds in the "lat1,lon1,lat2,lon2" order Overpass expects.
func FormatBBox(b model.Bounds) string {
	return fmt.Sprintf("%f,%f,%f,%f", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}
