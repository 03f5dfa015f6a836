package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *StringArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// Document is a stored blob reference: the URL the store handed back plus the
// display filename it was uploaded under.
type Document struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type DocumentList []Document

func (a DocumentList) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *DocumentList) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQList []FAQ

func (a FAQList) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *FAQList) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type TourType string

const (
	TOUR_BUS TourType = "bus"
	TOUR_AIR TourType = "air"
)

type TourStatus string

const (
	TOUR_DRAFT     TourStatus = "draft"
	TOUR_OPEN      TourStatus = "open"
	TOUR_DEPARTED  TourStatus = "departed"
	TOUR_COMPLETED TourStatus = "completed"
	TOUR_CANCELED  TourStatus = "canceled"
	TOUR_ARCHIVED  TourStatus = "archived"
)

type SaleStatus string

const (
	SALE_CONFIRMED SaleStatus = "confirmed"
	SALE_CANCELED  SaleStatus = "canceled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING PaymentStatus = "pending"
	PAYMENT_PARTIAL PaymentStatus = "partial"
	PAYMENT_PAID    PaymentStatus = "paid"
)

type SeatCategory string

const (
	SEAT_NORMAL     SeatCategory = "normal"
	SEAT_PREMIUM    SeatCategory = "premium"
	SEAT_ACCESSIBLE SeatCategory = "accessible"
	SEAT_DRIVER     SeatCategory = "driver"
)

type Role string

const (
	ROLE_USER  Role = "USER"
	ROLE_ADMIN Role = "ADMIN"
	ROLE_TI    Role = "TI"
)

type Environment string

const (
	Production Environment = "production"
	Test       Environment = "test"
	Local      Environment = "local"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateTourRequestBody struct {
	Title     string   `json:"title" binding:"required"`
	Type      TourType `json:"type" binding:"required,oneof=bus air"`
	AdultFare float64  `json:"adult_fare" binding:"required,gte=0"`
	ChildFare float64  `json:"child_fare" binding:"gte=0"`
	Departure string   `json:"departure" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	Return    string   `json:"return" binding:"required,gtdate=Departure" time_format:"2006-01-02 15:04:05 -07:00"`
	// Only meaningful for air tours; bus capacity is fixed server-side.
	Capacity uint `json:"capacity,omitempty"`
	Publish  bool `json:"publish,omitempty"`

	TransportCost   *float64 `json:"transport_cost,omitempty"`
	MealsCost       *float64 `json:"meals_cost,omitempty"`
	ParkingCost     *float64 `json:"parking_cost,omitempty"`
	CoordinatorCost *float64 `json:"coordinator_cost,omitempty"`
	InsuranceCost   *float64 `json:"insurance_cost,omitempty"`
	TicketsCost     *float64 `json:"tickets_cost,omitempty"`

	Subtitle   string   `json:"subtitle,omitempty"`
	Duration   string   `json:"duration,omitempty"`
	Itinerary  []string `json:"itinerary,omitempty"`
	Inclusions []string `json:"inclusions,omitempty"`
	Exclusions []string `json:"exclusions,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// UpdateTourRequestBody is the differential-update patch for a Tour: only keys
// present in the payload are applied, every nil pointer keeps the stored value.
// List fields are an explicit choice: a present field replaces the stored list,
// freshly uploaded files are appended to it.
type UpdateTourRequestBody struct {
	Title     *string  `form:"title" json:"title,omitempty"`
	AdultFare *float64 `form:"adult_fare" json:"adult_fare,omitempty" binding:"omitempty,gte=0"`
	ChildFare *float64 `form:"child_fare" json:"child_fare,omitempty" binding:"omitempty,gte=0"`
	Departure *string  `form:"departure" json:"departure,omitempty" binding:"omitempty,bookabledate"`
	Return    *string  `form:"return" json:"return,omitempty" binding:"omitempty,bookabledate"`

	TransportCost   *float64 `form:"transport_cost" json:"transport_cost,omitempty"`
	MealsCost       *float64 `form:"meals_cost" json:"meals_cost,omitempty"`
	ParkingCost     *float64 `form:"parking_cost" json:"parking_cost,omitempty"`
	CoordinatorCost *float64 `form:"coordinator_cost" json:"coordinator_cost,omitempty"`
	InsuranceCost   *float64 `form:"insurance_cost" json:"insurance_cost,omitempty"`
	TicketsCost     *float64 `form:"tickets_cost" json:"tickets_cost,omitempty"`

	Public         *bool     `form:"public" json:"public,omitempty"`
	Subtitle       *string   `form:"subtitle" json:"subtitle,omitempty"`
	Duration       *string   `form:"duration" json:"duration,omitempty"`
	Itinerary      *[]string `form:"itinerary" json:"itinerary,omitempty"`
	Inclusions     *[]string `form:"inclusions" json:"inclusions,omitempty"`
	Exclusions     *[]string `form:"exclusions" json:"exclusions,omitempty"`
	Tags           *[]string `form:"tags" json:"tags,omitempty"`
	MapEmbed       *string   `form:"map_embed" json:"map_embed,omitempty"`
	CoordinatorBio *string   `form:"coordinator_bio" json:"coordinator_bio,omitempty"`
	FAQs           *FAQList  `form:"faqs" json:"faqs,omitempty"`

	// Replaces the stored gallery outright. Leave absent to keep it and let
	// uploaded files append.
	Gallery *[]string `form:"gallery" json:"gallery,omitempty"`
}

type SalePassenger struct {
	Name     string `json:"name" binding:"required"`
	Document string `json:"document" binding:"required"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Seat     uint   `json:"seat" binding:"required"`
}

type SaleCompanion struct {
	Name     string `json:"name,omitempty"`
	Document string `json:"document,omitempty"`
	Phone    string `json:"phone,omitempty"`
	ClientID *uint  `json:"client_id,omitempty"`
	Seat     uint   `json:"seat" binding:"required"`
	Child    bool   `json:"child,omitempty"`
}

type SaleInstallment struct {
	Amount  float64 `json:"amount" binding:"required"`
	Method  string  `json:"method" binding:"required"`
	DueDate string  `json:"due_date,omitempty" time_format:"2006-01-02 15:04:05 -07:00"`
}

type CreateSaleRequestBody struct {
	TourID        uint              `json:"tour" binding:"required"`
	Lead          SalePassenger     `json:"lead" binding:"required"`
	Companions    []SaleCompanion   `json:"companions,omitempty"`
	Deposit       float64           `json:"deposit" binding:"gte=0"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
	Installments  []SaleInstallment `json:"installments,omitempty"`
	Pets          *uint             `json:"pets,omitempty"`
	Infants       *uint             `json:"infants,omitempty"`
}

type CreateClientRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Document string `json:"document" binding:"required"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type RegisterUserRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type TourQueryFilters struct {
	Type   string `form:"type,omitempty"`
	Status string `form:"status,omitempty"`
	Public *bool  `form:"public,omitempty"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Handler func(payload string)
