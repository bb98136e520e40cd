package interfaces

import (
	"context"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
)

// ProgramRepositoryInterface defines program storage operations
type ProgramRepositoryInterface interface {
	Create(ctx context.Context, program *models.Program) (*models.Program, error)
	GetByID(ctx context.Context, tenantID, programID string) (*models.Program, error)
	List(ctx context.Context, tenantID string) ([]*models.Program, error)
	Update(ctx context.Context, tenantID, programID string, updates map[string]interface{}) (*models.Program, error)
	Delete(ctx context.Context, tenantID, programID string) error
}
