package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
	"viaggi/src/booking"
	"viaggi/src/config"
	"viaggi/src/db"
	"viaggi/src/lib"
	"viaggi/src/models"
	"viaggi/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTourNotFound = errors.New("tour not found")
	ErrTourNotOpen  = errors.New("tour is not open for sales")
	ErrHasSoldSeats = errors.New("tour has sold seats and cannot be deleted")
	ErrSaleNotFound = errors.New("sale not found")
	ErrSaleCanceled = errors.New("sale is already canceled")
)

func IsProd() bool {
	return config.API_ENV == string(types.Production)
}

// WithSuffix namespaces a queue or topic name by environment so parallel
// deployments sharing a broker never consume each other's messages.
func WithSuffix(name string) string {
	env := config.API_ENV
	if env == "" {
		env = string(types.Local)
	}
	return fmt.Sprintf("%s_%s", name, env)
}

func CreateNewTour(ctx *gin.Context, params *types.CreateTourRequestBody, creatorId uint) (uint, error) {
	departure, err := time.Parse(config.TIME_PARSE_FORMAT, params.Departure)
	if err != nil {
		log.Printf("Error parsing departure: %s\n", err.Error())
		return 0, err
	}
	departure = departure.Truncate(time.Minute)
	returnDate, err := time.Parse(config.TIME_PARSE_FORMAT, params.Return)
	if err != nil {
		log.Printf("Error parsing return: %s\n", err.Error())
		return 0, err
	}
	returnDate = returnDate.Truncate(time.Minute)

	capacity := params.Capacity
	if params.Type == types.TOUR_BUS {
		// Coaches have a fixed layout regardless of what the form says.
		capacity = config.BUS_SEAT_CAPACITY
	}

	tour := models.Tour{
		Title:     params.Title,
		Type:      params.Type,
		Status:    types.TOUR_DRAFT,
		AdultFare: params.AdultFare,
		ChildFare: params.ChildFare,
		Departure: &departure,
		Return:    &returnDate,
		Capacity:  capacity,
		CreatedBy: creatorId,

		TransportCost:   params.TransportCost,
		MealsCost:       params.MealsCost,
		ParkingCost:     params.ParkingCost,
		CoordinatorCost: params.CoordinatorCost,
		InsuranceCost:   params.InsuranceCost,
		TicketsCost:     params.TicketsCost,

		Itinerary:  types.StringArray(params.Itinerary),
		Inclusions: types.StringArray(params.Inclusions),
		Exclusions: types.StringArray(params.Exclusions),
		Tags:       types.StringArray(params.Tags),
	}
	if params.Subtitle != "" {
		tour.Subtitle = &params.Subtitle
	}
	if params.Duration != "" {
		tour.Duration = &params.Duration
	}

	var tourId uint
	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		tour.Slug = makeTourSlug(tx, params.Title)
		if err := tx.Create(&tour).Error; err != nil {
			return err
		}
		tourId = tour.ID
		if tour.Type == types.TOUR_BUS {
			if err := seedSeatGrid(tx, tour.ID, capacity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Set schedules for flipping the tour to departed and completed
	go ScheduleTourDeparture(tourId, departure)
	go ScheduleTourReturn(tourId, returnDate)

	if params.Publish {
		if err := PublishTour(tourId); err != nil {
			log.Printf("Failed to publish tour: %s\n", err.Error())
			return 0, err
		}
	}
	return tourId, nil
}

// ScheduleTourDeparture queues the status flip to departed. Called again
// after a date change; the consumer ignores jobs whose run time no longer
// matches the stored departure.
func ScheduleTourDeparture(tourId uint, runsAt time.Time) {
	scheduleTourJob(tourId, runsAt, "Departure", "ToursToDepart", "ToursToDepartProducer")
}

// ScheduleTourReturn queues the status flip to completed on return.
func ScheduleTourReturn(tourId uint, runsAt time.Time) {
	scheduleTourJob(tourId, runsAt, "Return", "ToursToComplete", "ToursToCompleteProducer")
}

func scheduleTourJob(tourId uint, runsAt time.Time, kind string, topicName string, clientId string) {
	runsAt = runsAt.UTC().Truncate(time.Minute)
	log.Printf("[%s] job scheduled at: %s\n", kind, runsAt)
	jobTaskID := uuid.New()
	payloadId := jobTaskID.String()
	topic := WithSuffix(topicName)
	jobTask := models.JobTask{
		Name:      fmt.Sprintf("Tour_%d_%s", tourId, kind),
		JobType:   "OneTimeJobStartDateTime",
		RunsAt:    runsAt,
		PayloadID: payloadId,
		Payload: map[string]any{
			"payloadId":        payloadId,
			"id":               int64(tourId),
			"producerClientId": clientId,
			"topic":            topic,
			"table":            "tours",
		},
		Topic: topic,
	}
	id, err := jobTask.CreateAndEnqueueJobTask(jobTask)
	if err != nil {
		log.Printf("Error creating job for Tour: id=%d error=%s\n", tourId, err.Error())
		return
	}
	log.Printf("Created job for Tour[%d] with ID %s\n", tourId, id)
}

func makeTourSlug(tx *gorm.DB, title string) string {
	base := slug.Make(title)
	var count int64
	tx.Model(&models.Tour{}).Where("slug LIKE ?", base+"%").Count(&count)
	if count == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, count+1)
}

// BuildSeatGrid lays out the coach floor plan row by row. Seat 1 is the
// driver's and never enters the sale pool; the rest of the front row sells
// as premium, and the second row is kept for reduced-mobility passengers.
func BuildSeatGrid(tourId uint, capacity uint) []models.Seat {
	seats := make([]models.Seat, 0, capacity)
	for n := uint(1); n <= capacity; n++ {
		seat := models.Seat{
			TourID:   tourId,
			Number:   n,
			Row:      (n-1)/config.BUS_SEAT_COLUMNS + 1,
			Column:   (n-1)%config.BUS_SEAT_COLUMNS + 1,
			Category: types.SEAT_NORMAL,
		}
		switch {
		case n == 1:
			seat.Category = types.SEAT_DRIVER
		case seat.Row == 1:
			seat.Category = types.SEAT_PREMIUM
		case seat.Row == 2:
			seat.Category = types.SEAT_ACCESSIBLE
		}
		seats = append(seats, seat)
	}
	return seats
}

func seedSeatGrid(tx *gorm.DB, tourId uint, capacity uint) error {
	seats := BuildSeatGrid(tourId, capacity)
	return tx.Create(&seats).Error
}

func PublishTour(id uint) error {
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Tour{}).
			Where("id = ? AND status = ?", id, types.TOUR_DRAFT).
			Updates(map[string]any{"status": types.TOUR_OPEN, "public": true})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("tour is not in a publishable state")
		}
		return nil
	})
	return err
}

func UpdateTourStatus(id uint, newStatus types.TourStatus, oldStatus types.TourStatus) error {
	db := db.GetDb()
	log.Println("UpdateTourStatus: Begin Transaction")
	err := db.Transaction(func(tx *gorm.DB) error {
		var tour models.Tour
		conds := &models.Tour{ID: id, Status: oldStatus}
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(conds).
			First(&tour).
			Error; err != nil {
			log.Printf("Failed to update tour status: %s\n", err.Error())
			return err
		}
		if err := tx.
			Model(&models.Tour{}).
			Where(conds).
			Update("status", newStatus).
			Error; err != nil {
			log.Printf("Tour status update did not complete successfully: %s\n", err.Error())
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("Error on transaction: %s\n", err.Error())
		return err
	}
	log.Println("UpdateTourStatus: End Transaction")
	return nil
}

func GetTourSeats(id uint) ([]models.Seat, error) {
	db := db.GetDb()
	var seats []models.Seat
	tx := db.Session(&gorm.Session{PrepareStmt: true})
	err := tx.
		Where(&models.Seat{TourID: id}).
		Order("number asc").
		Find(&seats).
		Error
	return seats, err
}

func GetTourStats(id uint) (*models.TourStats, error) {
	db := db.GetDb()
	var sold int64
	var total int64
	if err := db.Model(&models.Seat{}).Where(&models.Seat{TourID: id}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Seat{}).Where("tour_id = ? AND sold = ?", id, true).Count(&sold).Error; err != nil {
		return nil, err
	}
	stats := &models.TourStats{
		Sold: uint(sold),
		Free: uint(total - sold),
	}
	return stats, nil
}

func DeleteTour(id uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		var tour models.Tour
		if err := tx.Where(&models.Tour{ID: id}).First(&tour).Error; err != nil {
			return ErrTourNotFound
		}
		var sold int64
		if err := tx.Model(&models.Seat{}).Where("tour_id = ? AND sold = ?", id, true).Count(&sold).Error; err != nil {
			return err
		}
		if sold > 0 {
			return ErrHasSoldSeats
		}
		if err := tx.Where(&models.Seat{TourID: id}).Delete(&models.Seat{}).Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Tour{}).
			Where(&models.Tour{ID: id}).
			Update("active", false).
			Error; err != nil {
			return err
		}
		if err := tx.Delete(&tour).Error; err != nil {
			return err
		}
		return nil
	})
}

// salePool returns the numbers of seats still sellable. The driver seat
// never counts.
func salePool(seats []models.Seat) []uint {
	pool := make([]uint, 0, len(seats))
	for _, s := range seats {
		if s.Sold || s.Category == types.SEAT_DRIVER {
			continue
		}
		pool = append(pool, s.Number)
	}
	return pool
}

// BuildInputFromRequest maps a sale request onto the booking pipeline input.
// Parsing failures on installment due dates surface as payment discrepancies
// so they land in the same response bucket as other plan problems.
func BuildInputFromRequest(tour *models.Tour, pool []uint, params *types.CreateSaleRequestBody) (booking.BuildInput, error) {
	in := booking.BuildInput{
		TourID:    tour.ID,
		AdultFare: tour.AdultFare,
		ChildFare: tour.ChildFare,
		Pool:      pool,
		Lead: booking.Passenger{
			Name:     params.Lead.Name,
			Document: params.Lead.Document,
			Phone:    params.Lead.Phone,
			Email:    params.Lead.Email,
			Seat:     params.Lead.Seat,
		},
		Deposit:       params.Deposit,
		PaymentMethod: params.PaymentMethod,
		Pets:          params.Pets,
		Infants:       params.Infants,
	}
	for _, c := range params.Companions {
		in.Companions = append(in.Companions, booking.CompanionInput{
			ClientID: c.ClientID,
			Name:     c.Name,
			Document: c.Document,
			Phone:    c.Phone,
			Seat:     c.Seat,
			Child:    c.Child,
		})
	}
	var discrepancies []string
	for i, inst := range params.Installments {
		entry := booking.Installment{
			Amount: inst.Amount,
			Method: inst.Method,
		}
		if inst.DueDate != "" {
			due, err := time.Parse(config.TIME_PARSE_FORMAT, inst.DueDate)
			if err != nil {
				discrepancies = append(discrepancies, fmt.Sprintf("installment %d has an unreadable due date", i+1))
			} else {
				entry.DueDate = due
			}
		}
		in.Installments = append(in.Installments, entry)
	}
	if len(discrepancies) > 0 {
		return in, &booking.PaymentError{Discrepancies: discrepancies}
	}
	return in, nil
}

// ValidateSaleRequest runs the booking pipeline against the current pool
// without persisting anything. Used by the pre-submit validation endpoint.
func ValidateSaleRequest(params *types.CreateSaleRequestBody) (*booking.SaleRecord, error) {
	db := db.GetDb()
	var tour models.Tour
	if err := db.Where(&models.Tour{ID: params.TourID}).First(&tour).Error; err != nil {
		return nil, ErrTourNotFound
	}
	if tour.Status != types.TOUR_OPEN {
		return nil, ErrTourNotOpen
	}
	seats, err := GetTourSeats(tour.ID)
	if err != nil {
		return nil, err
	}
	in, err := BuildInputFromRequest(&tour, salePool(seats), params)
	if err != nil {
		return nil, err
	}
	return booking.Build(in)
}

// CreateNewSale runs the booking pipeline inside a transaction holding row
// locks on the tour's seats, so two concurrent submissions for the same seat
// cannot both succeed. The winning sale marks its seats sold; the loser gets
// a seat conflict because its seats left the pool.
func CreateNewSale(ctx *gin.Context, params *types.CreateSaleRequestBody, userId uint) (*models.Sale, error) {
	db := db.GetDb()
	var sale models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		var tour models.Tour
		if err := tx.Where(&models.Tour{ID: params.TourID}).First(&tour).Error; err != nil {
			return ErrTourNotFound
		}
		if tour.Status != types.TOUR_OPEN {
			return ErrTourNotOpen
		}
		var seats []models.Seat
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Seat{TourID: tour.ID}).
			Order("number asc").
			Find(&seats).
			Error; err != nil {
			return err
		}
		in, err := BuildInputFromRequest(&tour, salePool(seats), params)
		if err != nil {
			return err
		}
		record, err := booking.Build(in)
		if err != nil {
			return err
		}

		sale = models.Sale{
			TourID:        tour.ID,
			Status:        types.SALE_CONFIRMED,
			LeadName:      record.Lead.Name,
			LeadDocument:  record.Lead.Document,
			LeadPhone:     record.Lead.Phone,
			LeadEmail:     record.Lead.Email,
			SeatNumber:    record.Lead.Seat,
			Total:         record.Total,
			Deposit:       record.Deposit,
			Balance:       record.Balance,
			PaymentMethod: record.Method,
			PaymentStatus: derivePaymentStatus(record.Deposit, record.Balance),
			Pets:          record.Pets,
			Infants:       record.Infants,
			CreatedBy:     userId,
		}
		for _, c := range record.Companions {
			sale.Companions = append(sale.Companions, models.Companion{
				ClientID:   c.ClientID,
				Name:       c.Name,
				Document:   c.Document,
				Phone:      c.Phone,
				SeatNumber: c.Seat,
				Child:      c.Child,
			})
		}
		for _, inst := range record.Plan {
			entry := models.Installment{
				Amount: inst.Amount,
				Method: inst.Method,
			}
			if !inst.DueDate.IsZero() {
				due := inst.DueDate
				entry.DueDate = &due
			}
			sale.Installments = append(sale.Installments, entry)
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		byNumber := make(map[uint]*models.Seat, len(seats))
		for i := range seats {
			byNumber[seats[i].Number] = &seats[i]
		}
		if err := markSeatSold(tx, byNumber[record.Lead.Seat], &sale, tour.AdultFare, record.Lead.Name, record.Lead.Phone); err != nil {
			return err
		}
		for _, c := range record.Companions {
			price := tour.AdultFare
			if c.Child {
				price = tour.ChildFare
			}
			if err := markSeatSold(tx, byNumber[c.Seat], &sale, price, c.Name, c.Phone); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go func() {
		payload := map[string]any{
			"id":    int64(sale.ID),
			"table": "sales",
		}
		if err := produceSaleConfirmed(payload); err != nil {
			log.Printf("Error queueing sale confirmation: %s\n", err.Error())
		}
	}()
	return &sale, nil
}

func produceSaleConfirmed(payload map[string]any) error {
	return lib.KafkaProduceMessage("SalesProducer", WithSuffix("SalesConfirmed"), payload)
}

func markSeatSold(tx *gorm.DB, seat *models.Seat, sale *models.Sale, price float64, name string, phone string) error {
	if seat == nil {
		return errors.New("allocated seat missing from locked rows")
	}
	updates := map[string]any{
		"sold":       true,
		"sale_id":    sale.ID,
		"sale_price": price,
	}
	if strings.TrimSpace(name) != "" {
		updates["buyer_name"] = name
	}
	if strings.TrimSpace(phone) != "" {
		updates["buyer_phone"] = phone
	}
	return tx.Model(&models.Seat{}).Where(&models.Seat{ID: seat.ID}).Updates(updates).Error
}

func derivePaymentStatus(deposit, balance float64) types.PaymentStatus {
	if balance <= config.AMOUNT_TOLERANCE {
		return types.PAYMENT_PAID
	}
	if deposit > 0 {
		return types.PAYMENT_PARTIAL
	}
	return types.PAYMENT_PENDING
}

func CancelSale(id uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Sale{ID: id}).
			First(&sale).
			Error; err != nil {
			return ErrSaleNotFound
		}
		if sale.Status == types.SALE_CANCELED {
			return ErrSaleCanceled
		}
		if err := tx.
			Model(&models.Sale{}).
			Where(&models.Sale{ID: id}).
			Update("status", types.SALE_CANCELED).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Seat{}).
			Where("sale_id = ?", id).
			Updates(map[string]any{
				"sold":        false,
				"sale_id":     nil,
				"sale_price":  nil,
				"buyer_name":  nil,
				"buyer_phone": nil,
			}).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Installment{}).
			Where("sale_id = ? AND paid = ?", id, false).
			Update("voided", true).
			Error; err != nil {
			return err
		}
		return nil
	})
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}
