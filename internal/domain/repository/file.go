package repository

import (
	"context"
	"fmt"
	"os"
	"riskmap_service/internal/domain/model"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileRepository serves projects from a YAML fixture, for demos and local
// development without a database.
type FileRepository struct {
	projects map[string]model.Project
	order    []string
}

type projectsFile struct {
	Projects []model.Project `yaml:"projects"`
}

func NewFileRepository(path string) (*FileRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects file: %w", err)
	}
	return ParseProjects(data)
}

// ParseProjects decodes a YAML document with a top-level "projects" list.
func ParseProjects(data []byte) (*FileRepository, error) {
	var file projectsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode projects file: %w", err)
	}

	repo := &FileRepository{projects: make(map[string]model.Project, len(file.Projects))}
	for i, project := range file.Projects {
		if project.ID == "" {
			return nil, fmt.Errorf("project %d has no id", i)
		}
		if _, exists := repo.projects[project.ID]; exists {
			return nil, fmt.Errorf("duplicate project id %q", project.ID)
		}
		repo.projects[project.ID] = project
		repo.order = append(repo.order, project.ID)
	}
	sort.Strings(repo.order)
	return repo, nil
}

func (r *FileRepository) List(ctx context.Context) ([]model.Project, error) {
	projects := make([]model.Project, 0, len(r.order))
	for _, id := range r.order {
		projects = append(projects, r.projects[id])
	}
	return projects, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return &project, nil
}
