package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Kosench/expiring-link-bot/internal/model"
)

const (
	MsgBotRunning     = "Bot is running ✅"
	MsgExpiredInvalid = "This link has expired or is invalid."
	MsgClickLimit     = "This link has reached its click limit."
	MsgInternalError  = "Internal server error"
)

// LinkVisitor проверяет ссылку и списывает клик
type LinkVisitor interface {
	Visit(ctx context.Context, token string) (*model.VisitResult, error)
}

type LinkHandler struct {
	links LinkVisitor
	log   *zerolog.Logger
}

func NewLinkHandler(links LinkVisitor, log *zerolog.Logger) *LinkHandler {
	return &LinkHandler{
		links: links,
		log:   log,
	}
}

func (h *LinkHandler) Index(c *gin.Context) {
	c.String(http.StatusOK, MsgBotRunning)
}

// Redirect отправляет посетителя на destination или отвечает текстом.
// Несуществующий и просроченный токен неотличимы снаружи.
func (h *LinkHandler) Redirect(c *gin.Context) {
	token := c.Param("token")

	result, err := h.links.Visit(c.Request.Context(), token)
	if err != nil {
		h.log.Error().Err(err).Str("token", token).Msg("failed to resolve link")
		c.String(http.StatusInternalServerError, MsgInternalError)
		return
	}

	switch result.Status {
	case model.VisitAllowed:
		c.Redirect(http.StatusFound, result.Destination)
	case model.VisitExhausted:
		c.String(http.StatusOK, MsgClickLimit)
	default:
		c.String(http.StatusOK, MsgExpiredInvalid)
	}
}
