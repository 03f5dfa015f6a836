package models

import (
	"time"
	"viaggi/src/types"
)

type Tour struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	Title     string           `json:"title,omitempty"`
	Type      types.TourType   `gorm:"default:'bus'" json:"type,omitempty"`
	Status    types.TourStatus `gorm:"default:'draft'" json:"status,omitempty"`
	Active    bool             `gorm:"default:true" json:"active"`
	AdultFare float64          `json:"adult_fare"`
	ChildFare float64          `json:"child_fare"`
	Departure *time.Time       `json:"departure,omitempty"`
	Return    *time.Time       `json:"return,omitempty"`
	Capacity  uint             `json:"capacity,omitempty"`
	CreatedBy uint             `json:"created_by,omitempty"`

	TransportCost   *float64 `json:"transport_cost,omitempty"`
	MealsCost       *float64 `json:"meals_cost,omitempty"`
	ParkingCost     *float64 `json:"parking_cost,omitempty"`
	CoordinatorCost *float64 `json:"coordinator_cost,omitempty"`
	InsuranceCost   *float64 `json:"insurance_cost,omitempty"`
	TicketsCost     *float64 `json:"tickets_cost,omitempty"`

	CoverURL   *string            `json:"cover_url,omitempty"`
	CoverName  *string            `json:"cover_name,omitempty"`
	PDFURL     *string            `json:"pdf_url,omitempty"`
	PDFName    *string            `json:"pdf_name,omitempty"`
	Gallery    types.StringArray  `gorm:"type:jsonb" json:"gallery,omitempty"`
	TravelDocs types.DocumentList `gorm:"type:jsonb" json:"travel_docs,omitempty"`

	Slug                string            `gorm:"uniqueIndex" json:"slug,omitempty"`
	Public              bool              `json:"public"`
	Subtitle            *string           `json:"subtitle,omitempty"`
	Duration            *string           `json:"duration,omitempty"`
	Itinerary           types.StringArray `gorm:"type:jsonb" json:"itinerary,omitempty"`
	Inclusions          types.StringArray `gorm:"type:jsonb" json:"inclusions,omitempty"`
	Exclusions          types.StringArray `gorm:"type:jsonb" json:"exclusions,omitempty"`
	FAQs                types.FAQList     `gorm:"column:faqs;type:jsonb" json:"faqs,omitempty"`
	MapEmbed            *string           `json:"map_embed,omitempty"`
	CoordinatorBio      *string           `json:"coordinator_bio,omitempty"`
	CoordinatorPhotoURL *string           `json:"coordinator_photo_url,omitempty"`
	Tags                types.StringArray `gorm:"type:jsonb" json:"tags,omitempty"`

	Creator User   `gorm:"foreignKey:created_by" json:"-"`
	Seats   []Seat `gorm:"foreignKey:tour_id" json:"seats,omitempty"`
	Sales   []Sale `gorm:"foreignKey:tour_id" json:"sales,omitempty"`

	Stats *TourStats `gorm:"-" json:"stats,omitempty"`

	types.Timestamps
}

type TourStats struct {
	TourID uint `json:"tour_id,omitempty"`
	Free   uint `json:"free"`
	Sold   uint `json:"sold"`
}
