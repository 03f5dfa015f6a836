package common

import (
	"fmt"
	"log"
	"os"
	"viaggi/src/db"
	"viaggi/src/lib"
	"viaggi/src/lib/mailer"
	"viaggi/src/models"

	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

func salesConfirmedHandler(spayload string) {
	if !gjson.Valid(spayload) {
		log.Println("[SalesConfirmed]: Received invalid json body. Aborting")
		return
	}
	saleId := uint(gjson.Get(spayload, "id").Int())
	log.Printf("saleId: %d\n", saleId)
	go sendSaleConfirmationMail(saleId)
}

func sendSaleConfirmationMail(saleId uint) {
	var sale models.Sale
	db := db.GetDb()
	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Sale{}).
			Where(&models.Sale{ID: saleId}).
			Preload("Tour").
			Preload("Companions").
			First(&sale).
			Error
	}); err != nil {
		log.Printf("[SalesConfirmedConsumer] Error on running database transaction: %s\n", err.Error())
		return
	}
	if sale.LeadEmail == "" {
		log.Printf("Sale %d has no lead email. Skipping confirmation mail\n", saleId)
		return
	}

	senderFrom := os.Getenv("SMTP_FROM")
	input := &lib.SendMailInput{
		Subject:  fmt.Sprintf("Booking confirmed: %s", sale.Tour.Title),
		From:     senderFrom,
		FromName: "noreply",
		To:       []string{sale.LeadEmail},
		Body: fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>your booking for <b>%s</b> is confirmed.</p>
			<p>Seat: %d | Party size: %d</p>
			<p>Total: %.2f | Deposit: %.2f | Balance due: %.2f</p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			sale.LeadName,
			sale.Tour.Title,
			sale.SeatNumber,
			1+len(sale.Companions),
			sale.Total,
			sale.Deposit,
			sale.Balance,
		),
		Html: true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[mailer] Error sending message: %s\n", err.Error())
		return
	}
}

// emailsToSendHandler drains the outgoing mail queue and hands each message
// to the SMTP client.
func emailsToSendHandler(spayload string) {
	if !gjson.Valid(spayload) {
		log.Println("[EmailsToSend]: Received invalid json body. Aborting")
		return
	}
	input := &lib.SendMailInput{
		From:     gjson.Get(spayload, "from").String(),
		FromName: gjson.Get(spayload, "from-name").String(),
		Subject:  gjson.Get(spayload, "subject").String(),
		Body:     gjson.Get(spayload, "body").String(),
		Html:     gjson.Get(spayload, "html").Bool(),
	}
	for _, to := range gjson.Get(spayload, "to").Array() {
		input.To = append(input.To, to.String())
	}
	for _, cc := range gjson.Get(spayload, "cc").Array() {
		input.Cc = append(input.Cc, cc.String())
	}
	if err := lib.SendMail(input); err != nil {
		log.Printf("[EmailsToSend] Error delivering mail: %s\n", err.Error())
	}
}
