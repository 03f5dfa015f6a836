package models

import "viaggi/src/types"

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Name         string     `json:"name,omitempty"`
	Email        string     `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Role         types.Role `gorm:"default:'USER'" json:"role,omitempty"`

	Sales []Sale `gorm:"foreignKey:created_by" json:"sales,omitempty"`

	types.Timestamps
}
