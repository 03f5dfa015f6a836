package models

import (
	"time"
	"viaggi/src/types"
)

type Sale struct {
	ID     uint             `gorm:"primarykey" json:"id"`
	TourID uint             `json:"tour_id,omitempty"`
	Status types.SaleStatus `gorm:"default:'confirmed'" json:"status,omitempty"`

	LeadName     string `json:"lead_name,omitempty"`
	LeadDocument string `json:"lead_document,omitempty"`
	LeadPhone    string `json:"lead_phone,omitempty"`
	LeadEmail    string `json:"lead_email,omitempty"`
	SeatNumber   uint   `json:"seat_number,omitempty"`

	Total         float64             `json:"total"`
	Deposit       float64             `json:"deposit"`
	Balance       float64             `json:"balance"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	PaymentStatus types.PaymentStatus `gorm:"default:'pending'" json:"payment_status,omitempty"`

	Pets    *uint `json:"pets,omitempty"`
	Infants *uint `json:"infants,omitempty"`

	CreatedBy uint `json:"created_by,omitempty"`

	Tour         *Tour         `gorm:"foreignKey:tour_id" json:"tour,omitempty"`
	Seller       *User         `gorm:"foreignKey:created_by" json:"seller,omitempty"`
	Companions   []Companion   `gorm:"foreignKey:sale_id" json:"companions,omitempty"`
	Installments []Installment `gorm:"foreignKey:sale_id" json:"installments,omitempty"`

	types.Timestamps
}

type Companion struct {
	ID     uint `gorm:"primarykey" json:"id"`
	SaleID uint `json:"sale_id,omitempty"`

	// Contact fields stay blank when the companion is linked to a Client
	// record; readers join the Client row live instead.
	ClientID *uint  `json:"client_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Document string `json:"document,omitempty"`
	Phone    string `json:"phone,omitempty"`

	SeatNumber uint `json:"seat_number"`
	Child      bool `json:"child"`

	Client *Client `gorm:"foreignKey:client_id" json:"client,omitempty"`

	types.Timestamps
}

type Installment struct {
	ID     uint `gorm:"primarykey" json:"id"`
	SaleID uint `json:"sale_id,omitempty"`

	Amount  float64    `json:"amount"`
	Method  string     `json:"method,omitempty"`
	DueDate *time.Time `json:"due_date,omitempty"`
	Paid    bool       `json:"paid"`
	Voided  bool       `json:"voided"`

	types.Timestamps
}
