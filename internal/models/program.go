// internal/models/program.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Program is the catalog entry a SESSION schedule points at.
type Program struct {
	TenantID    string                      `json:"tenantId" gorm:"primaryKey;size:64"`
	ProgramID   string                      `json:"programId" gorm:"primaryKey;size:64"`
	Name        string                      `json:"name" gorm:"not null;size:200"`
	Description string                      `json:"description" gorm:"type:text"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Extra       datatypes.JSONMap           `json:"extra,omitempty"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (Program) TableName() string {
	return "programs"
}

// BeforeCreate hook to set ID if not provided
func (p *Program) BeforeCreate(tx *gorm.DB) error {
	if p.ProgramID == "" {
		p.ProgramID = uuid.New().String()
	}
	return nil
}
