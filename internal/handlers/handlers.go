package handlers

import (
	"github.com/jonboulle/clockwork"

	"github.com/emilythestrangee/whispr/backend/internal/feed"
)

// Handler combines all handler types
type Handler struct {
	Confession *ConfessionHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(ctrl *feed.Controller, clock clockwork.Clock) *Handler {
	return &Handler{
		Confession: NewConfessionHandler(ctrl, clock),
	}
}
