package common

import (
	"fmt"
	"log"
	"os"
	"time"
	"viaggi/src/db"
	"viaggi/src/lib"
	"viaggi/src/lib/mailer"
	"viaggi/src/models"
	"viaggi/src/types"
	"viaggi/src/utils"

	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

// TourConsumers wires the broker topics that drive the tour lifecycle:
// scheduled departure and return flips, sale confirmations, and the outgoing
// email queue.
func TourConsumers() {
	handlers := map[string]types.Handler{
		utils.WithSuffix("ToursToDepart"):   toursToDepartHandler,
		utils.WithSuffix("ToursToComplete"): toursToCompleteHandler,
		utils.WithSuffix("SalesConfirmed"):  salesConfirmedHandler,
		utils.WithSuffix("EmailsToSend"):    emailsToSendHandler,
	}
	lib.KafkaConsumer(utils.WithSuffix("viaggi"), handlers)
}

func toursToDepartHandler(spayload string) {
	if !gjson.Valid(spayload) {
		log.Println("[ToursToDepart]: Received invalid json body. Aborting")
		return
	}
	tourId := uint(gjson.Get(spayload, "id").Int())
	payloadId := gjson.Get(spayload, "payloadId").String()
	log.Printf("tourId: %d\n", tourId)
	go func() {
		if tourDateStale(tourId, func(t *models.Tour) *time.Time { return t.Departure }) {
			log.Printf("Tour %d departure moved. Ignoring stale job\n", tourId)
			return
		}
		utils.UpdateTourStatus(tourId, types.TOUR_DEPARTED, types.TOUR_OPEN)
		sendTourDepartureNotifications(tourId)
	}()
	go markJobTaskDone(payloadId)
}

// tourDateStale reports whether the tour's stored date now lies in the
// future, which means the date was pushed back after this job was queued.
func tourDateStale(tourId uint, pick func(*models.Tour) *time.Time) bool {
	db := db.GetDb()
	var tour models.Tour
	if err := db.Where(&models.Tour{ID: tourId}).First(&tour).Error; err != nil {
		log.Printf("Error retrieving tour %d: %s\n", tourId, err.Error())
		return true
	}
	date := pick(&tour)
	return date != nil && date.After(time.Now().Add(time.Minute))
}

func toursToCompleteHandler(spayload string) {
	if !gjson.Valid(spayload) {
		log.Println("[ToursToComplete]: Received invalid json body. Aborting")
		return
	}
	tourId := uint(gjson.Get(spayload, "id").Int())
	payloadId := gjson.Get(spayload, "payloadId").String()
	log.Printf("tourId: %d\n", tourId)
	go func() {
		if tourDateStale(tourId, func(t *models.Tour) *time.Time { return t.Return }) {
			log.Printf("Tour %d return moved. Ignoring stale job\n", tourId)
			return
		}
		utils.UpdateTourStatus(tourId, types.TOUR_COMPLETED, types.TOUR_DEPARTED)
	}()
	go markJobTaskDone(payloadId)
}

func markJobTaskDone(payloadId string) {
	if payloadId == "" {
		return
	}
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Where(&models.JobTask{PayloadID: payloadId}).
			Updates(&models.JobTask{Status: "done"}).
			Error
	})
	if err != nil {
		log.Printf("Error updating job task status: %s\n", err.Error())
	}
}

// sendTourDepartureNotifications mails every lead passenger with a confirmed
// sale on the tour when it departs.
func sendTourDepartureNotifications(tourId uint) {
	var tour models.Tour
	var emails []string
	db := db.GetDb()
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Tour{}).
			Where(&models.Tour{ID: tourId}).
			First(&tour).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Sale{}).
			Distinct("lead_email").
			Where("tour_id = ? AND status = ? AND lead_email <> ''", tourId, types.SALE_CONFIRMED).
			Pluck("lead_email", &emails).
			Error; err != nil {
			return err
		}
		return nil
	}); err != nil {
		log.Printf("[ToursToDepartConsumer] Error on running database transaction: %s\n", err.Error())
		return
	}
	if len(emails) == 0 {
		return
	}

	senderFrom := os.Getenv("SMTP_FROM")
	input := &lib.SendMailInput{
		Subject:  fmt.Sprintf("Your tour departs today: %s", tour.Title),
		From:     senderFrom,
		FromName: "noreply",
		To:       emails,
		Body: fmt.Sprintf(`
			<p>Tour <b>%s</b> departs today.</p>
			<p>Departure: %s</p>
			<p>Please arrive at the meeting point 30 minutes early with your travel documents.</p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			tour.Title,
			tour.Departure,
		),
		Html: true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[mailer] Error sending message: %s\n", err.Error())
		return
	}
}
