package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	NamePrimary   string     `json:"name_primary" db:"name_primary"`
	NameSecondary string     `json:"name_secondary" db:"name_secondary"`
	ParentID      *uuid.UUID `json:"parent_id" db:"parent_id"`
	Level         int        `json:"level" db:"level"`
	Path          string     `json:"path" db:"path"`
	IconURL       *string    `json:"icon_url" db:"icon_url"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	SortOrder     int        `json:"sort_order" db:"sort_order"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	Subcategories []*Category `json:"subcategories,omitempty" db:"-"` // For nested responses
}

// CategoryWithCount is a tree node annotated with the number of available
// products in the category and all of its descendants.
type CategoryWithCount struct {
	Category
	ProductCount  int64                `json:"product_count"`
	Subcategories []*CategoryWithCount `json:"subcategories,omitempty"`
}
