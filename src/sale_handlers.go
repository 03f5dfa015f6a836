package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"
	"viaggi/src/booking"
	"viaggi/src/db"
	"viaggi/src/lib"
	awslib "viaggi/src/lib/aws"
	"viaggi/src/models"
	"viaggi/src/types"
	"viaggi/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

func saleHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/sales", func(ctx *gin.Context) {
			var body types.CreateSaleRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			sale, err := utils.CreateNewSale(ctx, &body, userId)
			if err != nil {
				respondSaleError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": sale})
		}).
		POST("/sales/validate", func(ctx *gin.Context) {
			var body types.CreateSaleRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			record, err := utils.ValidateSaleRequest(&body)
			if err != nil {
				respondSaleError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"valid":   true,
				"total":   record.Total,
				"balance": record.Balance,
				"seats":   record.Assignment,
			})
		}).
		GET("/sales", func(ctx *gin.Context) {
			var filters struct {
				TourID uint   `form:"tour,omitempty"`
				Status string `form:"status,omitempty"`
			}
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var sales []models.Sale
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				q := tx.Model(&models.Sale{})
				if filters.TourID > 0 {
					q = q.Where("tour_id = ?", filters.TourID)
				}
				if filters.Status != "" {
					q = q.Where("status = ?", filters.Status)
				}
				return q.
					Preload("Tour").
					Order("created_at desc").
					Limit(50).
					Find(&sales).
					Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": sales, "count": len(sales)})
		}).
		GET("/sales/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var sale models.Sale
			db := db.GetDb()
			if err := db.
				Where(&models.Sale{ID: params.ID}).
				Preload("Tour").
				Preload("Companions").
				Preload("Companions.Client").
				Preload("Installments").
				First(&sale).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": sale})
		}).
		PUT("/sales/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.CancelSale(params.ID); err != nil {
				if errors.Is(err, utils.ErrSaleNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error canceling Sale: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/sales/:id/voucher", saleVoucherHandler).
		POST("/sales/verify", verifyVoucherHandler)
	return g
}

// verifyVoucherHandler decodes a scanned voucher code at the meeting point
// and confirms the sale it references is still valid for boarding.
func verifyVoucherHandler(ctx *gin.Context) {
	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key, err := hex.DecodeString(os.Getenv("API_QRC_SECRET"))
	if err != nil {
		log.Printf("Could not read key from string: %s\n", err.Error())
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not verify code"})
		return
	}
	plain, err := utils.DecryptMessage(key, body.Code)
	if err != nil {
		log.Printf("Error decrypting message: %s\n", err.Error())
		ctx.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "code is not readable"})
		return
	}
	saleId := uint(gjson.Get(*plain, "saleId").Uint())
	seat := uint(gjson.Get(*plain, "seat").Uint())

	var sale models.Sale
	db := db.GetDb()
	if err := db.
		Where(&models.Sale{ID: saleId}).
		Preload("Tour").
		First(&sale).
		Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"valid": false, "error": "sale not found"})
		return
	}
	if sale.Status != types.SALE_CONFIRMED || sale.SeatNumber != seat {
		ctx.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "code does not match a confirmed sale"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"valid": true,
		"sale":  sale.ID,
		"lead":  sale.LeadName,
		"seat":  sale.SeatNumber,
	})
}

// respondSaleError maps booking pipeline failures onto the API's error
// contract: seat conflicts return 409 with the contested seat numbers,
// everything else in the taxonomy returns 400 with the reason.
func respondSaleError(ctx *gin.Context, err error) {
	var conflict *booking.SeatConflictError
	if errors.As(err, &conflict) {
		ctx.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "seats": conflict.Seats()})
		return
	}
	if errors.Is(err, utils.ErrTourNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "category": booking.Category(err)})
}

// saleVoucherHandler renders a QR voucher for a confirmed sale, parks the
// image in the blob store and caches the presigned link. The QR payload is
// encrypted so gate staff scanners are the only readers.
func saleVoucherHandler(ctx *gin.Context) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filename := fmt.Sprintf("voucher_%d", params.ID)
	rd := lib.GetRedisClient()
	if cached := rd.Get(context.Background(), filename).Val(); cached != "" {
		ctx.JSON(http.StatusOK, gin.H{"url": cached})
		return
	}

	db := db.GetDb()
	var signedURL string
	err := db.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.
			Where(&models.Sale{ID: params.ID}).
			Preload("Tour").
			First(&sale).
			Error; err != nil {
			return utils.ErrSaleNotFound
		}
		if sale.Status != types.SALE_CONFIRMED {
			return errors.New("voucher is only available for confirmed sales")
		}
		if sale.Tour.Return != nil && time.Now().After(*sale.Tour.Return) {
			return errors.New("voucher is no longer valid")
		}

		rawData := map[string]any{
			"saleId": sale.ID,
			"tourId": sale.TourID,
			"seat":   sale.SeatNumber,
		}
		rawBytes, _ := json.Marshal(rawData)
		rawText := string(rawBytes)

		keyEnv := os.Getenv("API_QRC_SECRET")
		key, err := hex.DecodeString(keyEnv)
		if err != nil {
			log.Printf("Could not read key from string: %s\n", err.Error())
			return err
		}
		encryptedMessage, err := utils.EncryptMessage(key, rawText)
		if err != nil {
			log.Printf("Error encrypting message: %s\n", err.Error())
			return err
		}
		qrc, err := qrcode.New(encryptedMessage)
		if err != nil {
			return err
		}
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		tempdir := os.Getenv("TEMP_DIR")
		filepath := path.Join(wd, tempdir, fmt.Sprintf("%s.jpeg", filename))
		if err = qrc.Save(filepath); err != nil {
			log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
			return err
		}
		file, err := os.Open(filepath)
		if err != nil {
			return err
		}
		defer file.Close()
		url, err := awslib.S3UploadObject(fmt.Sprintf("vouchers/%s.jpeg", filename), "image/jpeg", file)
		if err != nil {
			log.Printf("Error uploading asset to S3 bucket: %s\n", err.Error())
			return errors.New("voucher upload failed")
		}
		signedURL = *url
		rd.SetEx(context.Background(), filename, signedURL, 2*time.Hour)
		return nil
	})
	if err != nil {
		if errors.Is(err, utils.ErrSaleNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"url": signedURL})
}
