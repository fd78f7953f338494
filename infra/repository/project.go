package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/project"
	repo "github.com/innofund/escrow/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a project repository using the provided
// *gorm.DB session.
func NewProjectRepository(db *gorm.DB) repo.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Get(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var m Project
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapGormError(err, project.ErrProjectNotFound, nil)
	}
	return projectToDomain(&m), nil
}

// GetForUpdate locks the project row so concurrent pool movements are
// linearized.
func (r *projectRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var m Project
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, mapGormError(err, project.ErrProjectNotFound, nil)
	}
	return projectToDomain(&m), nil
}

func (r *projectRepository) Create(ctx context.Context, p *project.Project) error {
	m := projectToModel(p)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *projectRepository) Update(ctx context.Context, p *project.Project) error {
	m := projectToModel(p)
	result := r.db.WithContext(ctx).Model(&Project{}).Where("id = ?", m.ID).Updates(map[string]any{
		"current_funding": m.CurrentFunding,
		"status":          m.Status,
		"updated_at":      m.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}
