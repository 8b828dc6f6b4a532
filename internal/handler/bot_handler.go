package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UpdateHandler обрабатывает один апдейт Telegram
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// BotHandler принимает апдейты в webhook-режиме
type BotHandler struct {
	updates UpdateHandler
	secret  string
	log     *zerolog.Logger
}

func NewBotHandler(updates UpdateHandler, secret string, log *zerolog.Logger) *BotHandler {
	return &BotHandler{
		updates: updates,
		secret:  secret,
		log:     log,
	}
}

func (h *BotHandler) Webhook(c *gin.Context) {
	if subtle.ConstantTimeCompare([]byte(c.Param("secret")), []byte(h.secret)) != 1 {
		c.String(http.StatusNotFound, "not found")
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.log.Warn().Err(err).Msg("malformed webhook payload")
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	h.updates.HandleUpdate(c.Request.Context(), update)

	c.String(http.StatusOK, "ok")
}
