package records

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContainerSummary is a named report over one container. Names collide into "<name> (n)".
type ContainerSummary struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	ContainerCode string    `gorm:"column:container_code;not null;default:'';index" json:"containerCode"`
	Status        string    `gorm:"column:status;not null;default:'ACTIVE';index" json:"status"`
	Notes         string    `gorm:"column:notes;not null;default:''" json:"notes"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (ContainerSummary) TableName() string { return "container_summary" }

func (s *ContainerSummary) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = StatusActive
	}
	return nil
}

func (s *ContainerSummary) Snapshot() map[string]any {
	if s == nil {
		return nil
	}
	return map[string]any{
		"name":           s.Name,
		"container_code": s.ContainerCode,
		"status":         s.Status,
		"notes":          s.Notes,
	}
}
