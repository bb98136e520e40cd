// internal/repositories/program_repository.go
package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
)

// ProgramRepository implements the ProgramRepositoryInterface
type ProgramRepository struct {
	db *gorm.DB
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(db *gorm.DB) interfaces.ProgramRepositoryInterface {
	return &ProgramRepository{db: db}
}

func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) (*models.Program, error) {
	if err := r.db.WithContext(ctx).Create(program).Error; err != nil {
		return nil, err
	}
	return program, nil
}

func (r *ProgramRepository) GetByID(ctx context.Context, tenantID, programID string) (*models.Program, error) {
	var program models.Program
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND program_id = ?", tenantID, programID).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *ProgramRepository) List(ctx context.Context, tenantID string) ([]*models.Program, error) {
	var programs []*models.Program
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&programs).Error
	return programs, err
}

func (r *ProgramRepository) Update(ctx context.Context, tenantID, programID string, updates map[string]interface{}) (*models.Program, error) {
	res := r.db.WithContext(ctx).Model(&models.Program{}).
		Where("tenant_id = ? AND program_id = ?", tenantID, programID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, tenantID, programID)
}

func (r *ProgramRepository) Delete(ctx context.Context, tenantID, programID string) error {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND program_id = ?", tenantID, programID).
		Delete(&models.Program{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
