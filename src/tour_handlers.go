package main

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"time"
	"viaggi/src/config"
	"viaggi/src/db"
	awslib "viaggi/src/lib/aws"
	"viaggi/src/middlewares"
	"viaggi/src/models"
	"viaggi/src/types"
	"viaggi/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func tourHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tours", func(ctx *gin.Context) {
			var filters types.TourQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var tours []models.Tour
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				q := tx.Model(&models.Tour{})
				if filters.Type != "" {
					q = q.Where("type = ?", filters.Type)
				}
				if filters.Status != "" {
					q = q.Where("status = ?", filters.Status)
				}
				if filters.Public != nil {
					q = q.Where("public = ?", *filters.Public)
				}
				return q.
					Order("departure asc").
					Limit(50).
					Find(&tours).
					Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tours, "count": len(tours)})
		}).
		GET("/tours/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var tour models.Tour
			db := db.GetDb()
			if err := db.
				Where(&models.Tour{ID: params.ID}).
				First(&tour).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "tour not found"})
				return
			}
			stats, err := utils.GetTourStats(tour.ID)
			if err == nil {
				tour.Stats = stats
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tour})
		}).
		GET("/tours/:id/seats", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			seats, err := utils.GetTourSeats(params.ID)
			if err != nil {
				log.Printf("Error retrieving seats: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": seats, "count": len(seats)})
		}).
		POST("/tours", middlewares.RequireRoles(string(types.ROLE_ADMIN), string(types.ROLE_TI)), func(ctx *gin.Context) {
			var body types.CreateTourRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			tourId, err := utils.CreateNewTour(ctx, &body, userId)
			if err != nil {
				log.Printf("Error creating Tour: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": tourId})
		}).
		PUT("/tours/:id", middlewares.RequireRoles(string(types.ROLE_ADMIN), string(types.ROLE_TI)), updateTourHandler).
		PATCH("/tours/:id/publish", middlewares.RequireRoles(string(types.ROLE_ADMIN), string(types.ROLE_TI)), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.PublishTour(params.ID); err != nil {
				log.Printf("Error publishing Tour: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PATCH("/tours/:id/status", middlewares.RequireRoles(string(types.ROLE_ADMIN), string(types.ROLE_TI)), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body struct {
				NewStatus *types.TourStatus `json:"new_status" binding:"required"`
				OldStatus *types.TourStatus `json:"old_status" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.UpdateTourStatus(params.ID, *body.NewStatus, *body.OldStatus); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/tours/:id", middlewares.RequireRoles(string(types.ROLE_ADMIN)), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.DeleteTour(params.ID); err != nil {
				if errors.Is(err, utils.ErrTourNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error deleting Tour: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func tourPublicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/public/tours/:slug", func(ctx *gin.Context) {
			var params struct {
				Slug string `uri:"slug" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var tour models.Tour
			db := db.GetDb()
			if err := db.
				Where(&models.Tour{Slug: params.Slug, Public: true}).
				First(&tour).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "tour not found"})
				return
			}
			stats, err := utils.GetTourStats(tour.ID)
			if err == nil {
				tour.Stats = stats
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tour})
		})
	return g
}

/// updateTourHandler applies a differential update: only fields present in
// the multipart form change, nil pointers keep stored values. Uploaded
// gallery images and travel documents append to the stored lists; a gallery
// field in the body replaces the stored list before the append.
func updateTourHandler(ctx *gin.Context) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var body types.UpdateTourRequestBody
	if err := ctx.ShouldBind(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := db.GetDb()
	var tour models.Tour
	if err := db.Where(&models.Tour{ID: params.ID}).First(&tour).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "tour not found"})
		return
	}

	updates, newDeparture, newReturn, err := tourPatchUpdates(&body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := checkTourDates(&tour, newDeparture, newReturn); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Cover image and brochure replace in place
	if file, err := ctx.FormFile("cover"); err == nil {
		if file.Size > config.MAX_IMAGE_UPLOAD_BYTES {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "cover image exceeds the upload limit"})
			return
		}
		url, err := uploadTourAsset(tour.ID, "cover", file)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["cover_url"] = *url
		updates["cover_name"] = file.Filename
	}
	if file, err := ctx.FormFile("pdf"); err == nil {
		if file.Size > config.MAX_PDF_UPLOAD_BYTES {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "brochure exceeds the upload limit"})
			return
		}
		url, err := uploadTourAsset(tour.ID, "pdf", file)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["pdf_url"] = *url
		updates["pdf_name"] = file.Filename
	}
	if file, err := ctx.FormFile("coordinator_photo"); err == nil {
		if file.Size > config.MAX_IMAGE_UPLOAD_BYTES {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "coordinator photo exceeds the upload limit"})
			return
		}
		url, err := uploadTourAsset(tour.ID, "coordinator", file)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["coordinator_photo_url"] = *url
	}

	// Gallery and travel documents read-modify-append
	var uploadedImages []string
	var uploadedDocs []types.Document
	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		for _, file := range form.File["gallery_files"] {
			if file.Size > config.MAX_IMAGE_UPLOAD_BYTES {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("gallery image %s exceeds the upload limit", file.Filename)})
				return
			}
			url, err := uploadTourAsset(tour.ID, "gallery", file)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			uploadedImages = append(uploadedImages, *url)
		}
		for _, file := range form.File["travel_doc_files"] {
			if file.Size > config.MAX_PDF_UPLOAD_BYTES {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("document %s exceeds the upload limit", file.Filename)})
				return
			}
			url, err := uploadTourAsset(tour.ID, "docs", file)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			uploadedDocs = append(uploadedDocs, types.Document{URL: *url, Name: file.Filename})
		}
	}
	if len(updates) == 0 && body.Gallery == nil && len(uploadedImages) == 0 && len(uploadedDocs) == 0 {
		ctx.JSON(http.StatusOK, gin.H{"data": tour})
		return
	}

	if err := persistTourUpdates(db, tour.ID, updates, body.Gallery, uploadedImages, uploadedDocs); err != nil {
		log.Printf("Error updating Tour: %s\n", err.Error())
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if newDeparture != nil {
		go utils.ScheduleTourDeparture(tour.ID, *newDeparture)
	}
	if newReturn != nil {
		go utils.ScheduleTourReturn(tour.ID, *newReturn)
	}

	var updated models.Tour
	if err := db.Where(&models.Tour{ID: tour.ID}).First(&updated).Error; err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": updated})
}

// tourPatchUpdates turns the patch body into a gorm updates map carrying
// only the keys present in the payload. The parsed departure/return dates
// come back separately so the caller can re-queue the lifecycle jobs.
func tourPatchUpdates(body *types.UpdateTourRequestBody) (map[string]any, *time.Time, *time.Time, error) {
	updates := map[string]any{}
	if body.Title != nil {
		updates["title"] = *body.Title
	}
	if body.AdultFare != nil {
		updates["adult_fare"] = *body.AdultFare
	}
	if body.ChildFare != nil {
		updates["child_fare"] = *body.ChildFare
	}
	var newDeparture, newReturn *time.Time
	if body.Departure != nil {
		departure, err := time.Parse(config.TIME_PARSE_FORMAT, *body.Departure)
		if err != nil {
			return nil, nil, nil, err
		}
		departure = departure.Truncate(time.Minute)
		updates["departure"] = departure
		newDeparture = &departure
	}
	if body.Return != nil {
		ret, err := time.Parse(config.TIME_PARSE_FORMAT, *body.Return)
		if err != nil {
			return nil, nil, nil, err
		}
		ret = ret.Truncate(time.Minute)
		updates["return"] = ret
		newReturn = &ret
	}
	if body.TransportCost != nil {
		updates["transport_cost"] = *body.TransportCost
	}
	if body.MealsCost != nil {
		updates["meals_cost"] = *body.MealsCost
	}
	if body.ParkingCost != nil {
		updates["parking_cost"] = *body.ParkingCost
	}
	if body.CoordinatorCost != nil {
		updates["coordinator_cost"] = *body.CoordinatorCost
	}
	if body.InsuranceCost != nil {
		updates["insurance_cost"] = *body.InsuranceCost
	}
	if body.TicketsCost != nil {
		updates["tickets_cost"] = *body.TicketsCost
	}
	if body.Public != nil {
		updates["public"] = *body.Public
	}
	if body.Subtitle != nil {
		updates["subtitle"] = *body.Subtitle
	}
	if body.Duration != nil {
		updates["duration"] = *body.Duration
	}
	if body.Itinerary != nil {
		updates["itinerary"] = types.StringArray(*body.Itinerary)
	}
	if body.Inclusions != nil {
		updates["inclusions"] = types.StringArray(*body.Inclusions)
	}
	if body.Exclusions != nil {
		updates["exclusions"] = types.StringArray(*body.Exclusions)
	}
	if body.Tags != nil {
		updates["tags"] = types.StringArray(*body.Tags)
	}
	if body.MapEmbed != nil {
		updates["map_embed"] = *body.MapEmbed
	}
	if body.CoordinatorBio != nil {
		updates["coordinator_bio"] = *body.CoordinatorBio
	}
	if body.FAQs != nil {
		updates["faqs"] = *body.FAQs
	}
	return updates, newDeparture, newReturn, nil
}

// checkTourDates verifies the dates the tour would end up with after the
// patch still have the return on or after the departure. A patch may move
// either date alone, so each side falls back to the stored value.
func checkTourDates(tour *models.Tour, newDeparture, newReturn *time.Time) error {
	departure := tour.Departure
	if newDeparture != nil {
		departure = newDeparture
	}
	ret := tour.Return
	if newReturn != nil {
		ret = newReturn
	}
	if departure != nil && ret != nil && ret.Before(*departure) {
		return errors.New("return date must not precede departure")
	}
	return nil
}

// persistTourUpdates applies the patch in one transaction. The gallery and
// travel-doc lists merge against the row re-read under a row lock here, not
// against the copy loaded when the request started, so entries another
// editor committed during the upload loop survive the append.
func persistTourUpdates(db *gorm.DB, tourId uint, updates map[string]any, replacement *[]string, uploadedImages []string, uploadedDocs []types.Document) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var current models.Tour
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Tour{ID: tourId}).
			First(&current).
			Error; err != nil {
			return err
		}
		if gallery, changed := mergeGallery(current.Gallery, replacement, uploadedImages); changed {
			updates["gallery"] = gallery
		}
		if len(uploadedDocs) > 0 {
			updates["travel_docs"] = append(current.TravelDocs, uploadedDocs...)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.
			Model(&models.Tour{}).
			Where(&models.Tour{ID: tourId}).
			Updates(updates).
			Error
	})
}

// mergeGallery builds the gallery list to store: the stored list (or the
// replacement from the payload when present) with freshly uploaded URLs
// appended in order.
func mergeGallery(stored types.StringArray, replacement *[]string, uploaded []string) (types.StringArray, bool) {
	gallery := stored
	changed := replacement != nil || len(uploaded) > 0
	if replacement != nil {
		gallery = types.StringArray(*replacement)
	}
	gallery = append(gallery, uploaded...)
	return gallery, changed
}

func uploadTourAsset(tourId uint, kind string, file *multipart.FileHeader) (*string, error) {
	src, err := file.Open()
	if err != nil {
		log.Printf("Could not open uploaded file: %s\n", err.Error())
		return nil, err
	}
	defer src.Close()
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("tours/%d/%s/%s_%s", tourId, kind, uuid.NewString(), file.Filename)
	url, err := awslib.S3UploadObject(key, contentType, src)
	if err != nil {
		log.Printf("Error uploading asset to S3 bucket: %s\n", err.Error())
		return nil, errors.New("file upload failed")
	}
	return url, nil
}
