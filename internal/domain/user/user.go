package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the actor behind a mutation. Rows are upserted from verified bearer tokens so
// the activity feed can resolve and search actor names.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"column:name;not null;default:''" json:"name"`
	Email string    `gorm:"column:email;not null;default:''" json:"email"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
