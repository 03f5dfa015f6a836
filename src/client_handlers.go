package main

import (
	"log"
	"net/http"
	"strings"
	"viaggi/src/db"
	"viaggi/src/models"
	"viaggi/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func clientHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/clients", func(ctx *gin.Context) {
			var query struct {
				Q string `form:"q,omitempty"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var clients []models.Client
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				q := tx.Model(&models.Client{})
				if query.Q != "" {
					pattern := "%" + strings.ToLower(strings.TrimSpace(query.Q)) + "%"
					q = q.Where("LOWER(name) LIKE ? OR LOWER(document) LIKE ?", pattern, pattern)
				}
				return q.
					Order("name asc").
					Limit(50).
					Find(&clients).
					Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": clients, "count": len(clients)})
		}).
		GET("/clients/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var client models.Client
			db := db.GetDb()
			if err := db.
				Where(&models.Client{ID: params.ID}).
				Preload("Companions").
				First(&client).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": client})
		}).
		POST("/clients", func(ctx *gin.Context) {
			var body types.CreateClientRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			client := models.Client{
				Name:     body.Name,
				Document: body.Document,
				Phone:    body.Phone,
				Email:    body.Email,
				Notes:    body.Notes,
			}
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&client).Error
			}); err != nil {
				log.Printf("Error creating Client: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": client.ID})
		})
	return g
}
