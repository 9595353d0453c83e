package model

// Project is a monitored construction or mining project.
// The risk core treats it as read-only input. Area and VegetationLoss
// are in hectares.
type Project struct {
	ID             string          `json:"id" yaml:"id" db:"id"`
	Name           string          `json:"name" yaml:"name" db:"name"`
	Description    string          `json:"description,omitempty" yaml:"description" db:"description"`
	Category       string          `json:"category,omitempty" yaml:"category" db:"category"`
	Status         string          `json:"status,omitempty" yaml:"status" db:"status"`
	Compliance     string          `json:"compliance,omitempty" yaml:"compliance" db:"-"`
	RiskState      string          `json:"risk_state,omitempty" yaml:"riskState" db:"risk_label"`
	Company        string          `json:"company,omitempty" yaml:"company" db:"company"`
	Region         string          `json:"region,omitempty" yaml:"state" db:"region"`
	StartDate      string          `json:"start_date,omitempty" yaml:"startDate" db:"start_date"`
	Area           float64         `json:"area,omitempty" yaml:"area" db:"area"`
	VegetationLoss float64         `json:"vegetation_loss,omitempty" yaml:"vegetationLoss" db:"vegetation_loss"`
	CenterLat      *float64        `json:"center_lat,omitempty" yaml:"centerLat" db:"center_lat"`
	CenterLng      *float64        `json:"center_lng,omitempty" yaml:"centerLng" db:"center_lng"`
	WorkZone       *Feature        `json:"work_zone,omitempty" yaml:"workZone" db:"-"`
	ProtectedZones []ProtectedZone `json:"protected_zones,omitempty" yaml:"protectedZones" db:"-"`
}

// HasCenter reports whether both center coordinates are known.
func (p Project) HasCenter() bool {
	return p.CenterLat != nil && p.CenterLng != nil
}

// ProtectedZone is a protected area close to a project footprint.
type ProtectedZone struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Kind   string `json:"kind" yaml:"kind"`
	Bounds Bounds `json:"bounds" yaml:"-"`
}
