package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

var API_ENV = os.Getenv("API_ENV")

const (
	// Bus coaches run a fixed 53-seat layout. Not operator-editable.
	BUS_SEAT_CAPACITY uint = 53
	BUS_SEAT_COLUMNS  uint = 4

	// One sale covers the lead passenger plus at most this many companions.
	MAX_COMPANIONS int = 20

	// Installment sums reconcile against the balance within this amount.
	AMOUNT_TOLERANCE float64 = 0.01

	MAX_INSTALLMENTS int = 2

	MAX_IMAGE_UPLOAD_BYTES int64 = 10 << 20
	MAX_PDF_UPLOAD_BYTES   int64 = 50 << 20
)
