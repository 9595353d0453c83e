package core

import (
	"riskmap_service/internal/domain/model"
	"strings"
)

var workTypes = map[model.WorkTypeName]model.WorkType{
	model.WorkTypePunctual: {
		Name:           model.WorkTypePunctual,
		Label:          "Puntual",
		ExpansionRate:  0.02,
		MaxExpansion:   1.3,
		Directionality: "radial",
	},
	model.WorkTypeLinear: {
		Name:           model.WorkTypeLinear,
		Label:          "Lineal",
		ExpansionRate:  0.04,
		MaxExpansion:   1.6,
		Directionality: "axial",
	},
	model.WorkTypeExtensive: {
		Name:           model.WorkTypeExtensive,
		Label:          "Extensiva",
		ExpansionRate:  0.06,
		MaxExpansion:   2.0,
		Directionality: "radial",
	},
}

var (
	linearCategories    = []string{"transporte"}
	linearNames         = []string{"carretera", "tren", "metro", "highway"}
	extensiveCategories = []string{"turismo", "desarrollo"}
	extensiveNames      = []string{"resort", "industrial"}
)

// WorkTypeConfig returns the expansion constants of a work type.
// Unknown names fall back to punctual.
func WorkTypeConfig(name model.WorkTypeName) model.WorkType {
	if wt, ok := workTypes[name]; ok {
		return wt
	}
	return workTypes[model.WorkTypePunctual]
}

// DetermineWorkType classifies a project from keywords in its category and name.
func DetermineWorkType(project model.Project) model.WorkTypeName {
	category := strings.ToLower(project.Category)
	name := strings.ToLower(project.Name)

	if containsAny(category, linearCategories) || containsAny(name, linearNames) {
		return model.WorkTypeLinear
	}
	if containsAny(category, extensiveCategories) || containsAny(name, extensiveNames) {
		return model.WorkTypeExtensive
	}
	return model.WorkTypePunctual
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
