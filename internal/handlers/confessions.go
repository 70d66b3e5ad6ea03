package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	apperrors "github.com/emilythestrangee/whispr/backend/internal/errors"
	"github.com/emilythestrangee/whispr/backend/internal/feed"
	"github.com/emilythestrangee/whispr/backend/internal/models"
)

type ConfessionHandler struct {
	ctrl  *feed.Controller
	clock clockwork.Clock
}

func NewConfessionHandler(ctrl *feed.Controller, clock clockwork.Clock) *ConfessionHandler {
	return &ConfessionHandler{ctrl: ctrl, clock: clock}
}

func (h *ConfessionHandler) entryResponse(entry models.Confession) gin.H {
	return gin.H{
		"id":         entry.ID,
		"text":       entry.Text,
		"like_count": entry.LikeCount,
		"vote_state": entry.VoteState,
		"created_at": entry.CreatedAt,
		"time_ago":   feed.TimeSince(entry.CreatedAt, h.clock.Now()),
	}
}

// GetConfessions refreshes the feed from the remote table and returns it.
// A failed refresh is retryable; entries from the previous load are kept.
func (h *ConfessionHandler) GetConfessions(c *gin.Context) {
	h.ctrl.Load(c.Request.Context())

	if err := h.ctrl.Err(); err != nil && err.Type == apperrors.TypeLoad {
		c.JSON(err.HTTPStatus(), err.ToResponse())
		return
	}

	// If no confessions, return empty array not null
	responses := []gin.H{}
	for _, entry := range h.ctrl.Entries() {
		responses = append(responses, h.entryResponse(entry))
	}

	c.JSON(http.StatusOK, responses)
}

// CreateConfession submits a new anonymous confession.
func (h *ConfessionHandler) CreateConfession(c *gin.Context) {
	var input models.CreateConfessionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Confession text is required"})
		return
	}

	if len([]rune(strings.TrimSpace(input.Text))) < feed.MinConfessionLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Confessions need at least 10 characters"})
		return
	}

	h.ctrl.Post(c.Request.Context(), input.Text)

	if err := h.ctrl.Err(); err != nil && err.Type == apperrors.TypePost {
		c.JSON(err.HTTPStatus(), err.ToResponse())
		return
	}

	entries := h.ctrl.Entries()
	if len(entries) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create confession"})
		return
	}

	c.JSON(http.StatusCreated, h.entryResponse(entries[0]))
}

// VoteConfession toggles this session's like on a confession. A failed remote
// update is not an error for the client; the response carries the rolled-back
// state.
func (h *ConfessionHandler) VoteConfession(c *gin.Context) {
	confessionID := c.Param("id")

	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote kind is required"})
		return
	}

	if _, ok := h.ctrl.Entry(confessionID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Confession not found"})
		return
	}

	h.ctrl.Vote(c.Request.Context(), confessionID, input.Kind)

	entry, ok := h.ctrl.Entry(confessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Confession not found"})
		return
	}

	c.JSON(http.StatusOK, h.entryResponse(entry))
}
