package models

import "viaggi/src/types"

type Client struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `json:"name,omitempty"`
	Document string `gorm:"uniqueIndex" json:"document,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Notes    string `json:"notes,omitempty"`

	Companions []Companion `gorm:"foreignKey:client_id" json:"companions,omitempty"`

	types.Timestamps
}
