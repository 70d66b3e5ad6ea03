// Package feed owns the in-memory confession list and orchestrates the
// load, post, and vote operations against the remote table store. All remote
// failures are converted into local state; none propagate to the caller.
package feed

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/emilythestrangee/whispr/backend/internal/database"
	apperrors "github.com/emilythestrangee/whispr/backend/internal/errors"
	"github.com/emilythestrangee/whispr/backend/internal/models"
)

const (
	// ConfessionTable is the remote table holding all entries.
	ConfessionTable = "message"

	columnID        = "id"
	columnText      = "confession"
	columnLikes     = "like"
	columnCreatedAt = "created_at"

	// MinConfessionLength and MaxConfessionLength bound a submittable draft,
	// counted in characters.
	MinConfessionLength = 10
	MaxConfessionLength = 1000

	placeholderText = "Empty whisper..."

	// postedStateDuration is how long the transient posted flag stays up
	// before auto-reverting.
	postedStateDuration = 2 * time.Second

	loadErrorMessage = "Failed to load confessions. Please try again."
	postErrorMessage = "Failed to share your confession. Please try again."
)

// Controller holds the feed state. State mutations are atomic from the
// caller's point of view; network calls happen outside the lock, so
// overlapping operations resolve last-writer-wins.
type Controller struct {
	db    database.Service
	clock clockwork.Clock
	log   *slog.Logger

	mu         sync.Mutex
	entries    []models.Confession
	draft      string
	loading    bool
	submitting bool
	posted     bool
	lastErr    *apperrors.Error
}

func NewController(db database.Service, clock clockwork.Clock, log *slog.Logger) *Controller {
	return &Controller{db: db, clock: clock, log: log}
}

// Load replaces the in-memory list with the remote table contents, newest
// first. If the ordered query fails it retries once, unordered, before giving
// up; a failed refresh leaves the previous entries in place.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.lastErr = nil
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	rows, err := c.db.Select(ctx, ConfessionTable, database.SelectOptions{
		OrderBy:    columnCreatedAt,
		Descending: true,
	})
	if err != nil {
		// Some deployments lack the created_at column.
		c.log.Warn("ordered confession query failed, retrying unordered", "error", err)
		rows, err = c.db.Select(ctx, ConfessionTable, database.SelectOptions{})
	}
	if err != nil {
		c.mu.Lock()
		c.lastErr = apperrors.LoadError(loadErrorMessage, err)
		c.mu.Unlock()
		return
	}

	entries := make([]models.Confession, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, c.mapRow(row))
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
}

// Post submits the candidate text as a new confession and prepends the stored
// entry, preserving newest-first order without a reload. Drafts shorter than
// the minimum are rejected without a network call; anything beyond the
// maximum is truncated first. A failed submit keeps the draft.
func (c *Controller) Post(ctx context.Context, text string) {
	if runes := []rune(text); len(runes) > MaxConfessionLength {
		text = string(runes[:MaxConfessionLength])
	}

	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()

	if len([]rune(strings.TrimSpace(text))) < MinConfessionLength {
		return
	}

	c.mu.Lock()
	c.submitting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	row, err := c.db.Insert(ctx, ConfessionTable, map[string]any{
		columnText:  text,
		columnLikes: 0,
	})
	if err != nil {
		c.mu.Lock()
		c.lastErr = apperrors.PostError(postErrorMessage, err)
		c.mu.Unlock()
		return
	}

	entry := c.mapRow(row)
	entry.LikeCount = 0
	entry.VoteState = models.VoteStateNone

	c.mu.Lock()
	c.entries = append([]models.Confession{entry}, c.entries...)
	c.draft = ""
	c.posted = true
	c.lastErr = nil
	c.mu.Unlock()

	c.clock.AfterFunc(postedStateDuration, func() {
		c.mu.Lock()
		c.posted = false
		c.mu.Unlock()
	})
}

// Vote toggles this session's like on one entry. The local change is applied
// synchronously before the remote update; a failed update restores the exact
// pre-toggle snapshot rather than recomputing an inverse. Unknown ids and
// unsupported vote kinds are silent no-ops.
func (c *Controller) Vote(ctx context.Context, id string, kind models.VoteKind) {
	if kind != models.VoteLike {
		// The remote schema has no dislike column.
		return
	}

	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return
	}

	prevCount := c.entries[idx].LikeCount
	prevState := c.entries[idx].VoteState

	newCount := prevCount + 1
	newState := models.VoteStateLiked
	if prevState == models.VoteStateLiked {
		newCount = prevCount - 1
		newState = models.VoteStateNone
	}

	c.entries[idx].LikeCount = newCount
	c.entries[idx].VoteState = newState
	c.mu.Unlock()

	err := c.db.Update(ctx, ConfessionTable, id, map[string]any{columnLikes: newCount})
	if err == nil {
		return
	}

	c.log.Warn("like update failed, rolling back", "id", id, "error", err)

	// The entry may have moved while the update was in flight.
	c.mu.Lock()
	if idx := c.indexOf(id); idx >= 0 {
		c.entries[idx].LikeCount = prevCount
		c.entries[idx].VoteState = prevState
	}
	c.mu.Unlock()
}

// mapRow converts one raw row into a Confession, defaulting every field the
// remote schema might omit. Vote state is always none on load: it is
// session-local and not derivable from the aggregate counter.
func (c *Controller) mapRow(row database.Row) models.Confession {
	entry := models.Confession{
		ID:        rowID(row[columnID]),
		Text:      placeholderText,
		CreatedAt: c.clock.Now(),
		VoteState: models.VoteStateNone,
	}

	if text, ok := row[columnText].(string); ok && text != "" {
		entry.Text = text
	}
	if raw, ok := row[columnCreatedAt].(string); ok {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			entry.CreatedAt = ts
		}
	}
	if likes, ok := row[columnLikes].(float64); ok {
		entry.LikeCount = int(likes)
	}

	return entry
}

func rowID(raw any) string {
	switch v := raw.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return uuid.NewString()
}

func (c *Controller) indexOf(id string) int {
	for i := range c.entries {
		if c.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// Entries returns a copy of the current list, newest first.
func (c *Controller) Entries() []models.Confession {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Confession, len(c.entries))
	copy(out, c.entries)
	return out
}

// Entry looks up one entry by id.
func (c *Controller) Entry(id string) (models.Confession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(id); idx >= 0 {
		return c.entries[idx], true
	}
	return models.Confession{}, false
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Posted reports the transient success state after a submit; it reverts on
// its own two seconds after the post.
func (c *Controller) Posted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.posted
}

// Draft returns the pending input buffer. It survives a failed submit.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Err returns the recorded error state, or nil.
func (c *Controller) Err() *apperrors.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
