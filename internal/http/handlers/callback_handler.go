package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
)

type CallbackAPI interface {
	Request(ctx context.Context, req models.CallbackRequest) (models.CallbackRequest, error)
}

type CallbackHandler struct {
	Callbacks CallbackAPI
}

func (h CallbackHandler) Create(c *gin.Context) {
	var req models.CallbackRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.Callbacks.Request(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"message":     "we will call you back shortly",
		"requestedAt": out.RequestedAt,
	})
}
