package mailer

import (
	"fmt"
	"os"
	"viaggi/src/lib"
	"viaggi/src/utils"
)

// NewMailerMessage queues an outgoing email on the broker. The email
// consumer started at boot picks it up and hands it to the SMTP client, so
// request handlers never block on mail delivery.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	emailBody := map[string]any{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"cc":        input.Cc,
		"subject":   input.Subject,
		"body":      input.Body,
		"html":      input.Html,
	}
	if err := lib.KafkaProduceMessage("emails", utils.WithSuffix(emailQueue), emailBody); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}
