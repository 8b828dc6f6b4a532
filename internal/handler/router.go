package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	AllowedOrigins []string
	Log            *zerolog.Logger

	Links  *LinkHandler
	Health *HealthHandler
	// Bot равен nil в polling-режиме
	Bot *BotHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", cfg.Links.Index)
	router.HEAD("/", cfg.Links.Index)
	router.GET("/health", cfg.Health.Health)

	if cfg.Bot != nil {
		router.POST("/webhook/:secret", cfg.Bot.Webhook)
	}

	router.GET("/:token", cfg.Links.Redirect)

	return router
}
