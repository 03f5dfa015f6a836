package models

import "viaggi/src/types"

type Seat struct {
	ID       uint               `gorm:"primarykey" json:"id"`
	TourID   uint               `gorm:"uniqueIndex:idx_tour_seat" json:"tour_id,omitempty"`
	Number   uint               `gorm:"uniqueIndex:idx_tour_seat" json:"number"`
	Row      uint               `json:"row,omitempty"`
	Column   uint               `gorm:"column:col" json:"column,omitempty"`
	Category types.SeatCategory `gorm:"default:'normal'" json:"category,omitempty"`

	Sold       bool     `json:"sold"`
	SalePrice  *float64 `json:"sale_price,omitempty"`
	SaleID     *uint    `json:"sale_id,omitempty"`
	BuyerName  *string  `json:"buyer_name,omitempty"`
	BuyerPhone *string  `json:"buyer_phone,omitempty"`

	Tour Tour  `json:"-"`
	Sale *Sale `gorm:"foreignKey:sale_id" json:"-"`

	types.Timestamps
}
