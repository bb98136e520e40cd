// internal/services/program_service.go
package services

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
)

// ProgramService handles program catalog operations
type ProgramService struct {
	programRepo interfaces.ProgramRepositoryInterface
}

// NewProgramService creates a new program service
func NewProgramService(programRepo interfaces.ProgramRepositoryInterface) *ProgramService {
	return &ProgramService{programRepo: programRepo}
}

func (s *ProgramService) Create(ctx context.Context, tenantID string, req *dto.CreateProgramRequest) (*models.Program, error) {
	program := &models.Program{
		TenantID:    tenantID,
		ProgramID:   req.ProgramID,
		Name:        req.Name,
		Description: req.Description,
		Tags:        datatypes.NewJSONSlice(req.Tags),
		Extra:       req.Extra,
	}
	created, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	return created, nil
}

func (s *ProgramService) Get(ctx context.Context, tenantID, programID string) (*models.Program, error) {
	program, err := s.programRepo.GetByID(ctx, tenantID, programID)
	if err != nil {
		return nil, orNotFound(err)
	}
	return program, nil
}

func (s *ProgramService) List(ctx context.Context, tenantID string) ([]*models.Program, error) {
	programs, err := s.programRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}

func (s *ProgramService) Update(ctx context.Context, tenantID string, req *dto.UpdateProgramRequest) (*models.Program, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Tags != nil {
		updates["tags"] = datatypes.NewJSONSlice(req.Tags)
	}
	if req.Extra != nil {
		updates["extra"] = datatypes.JSONMap(req.Extra)
	}
	if len(updates) == 0 {
		return s.Get(ctx, tenantID, req.ProgramID)
	}

	program, err := s.programRepo.Update(ctx, tenantID, req.ProgramID, updates)
	if err != nil {
		return nil, orNotFound(err)
	}
	return program, nil
}

func (s *ProgramService) Delete(ctx context.Context, tenantID, programID string) error {
	if err := s.programRepo.Delete(ctx, tenantID, programID); err != nil {
		return orNotFound(err)
	}
	return nil
}
