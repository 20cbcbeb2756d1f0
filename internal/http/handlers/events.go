package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/eventpass/internal/cache"
	"github.com/geocoder89/eventpass/internal/config"
	"github.com/geocoder89/eventpass/internal/domain/event"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EventsStore interface {
	Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error)
	List(ctx context.Context) ([]event.Event, error)
	GetByID(ctx context.Context, id string) (event.Event, error)
	Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventsHandler struct {
	repo  EventsStore
	cache *cache.EventsCache
}

func NewEventsHandler(repo EventsStore, listCache *cache.EventsCache) *EventsHandler {
	return &EventsHandler{repo: repo, cache: listCache}
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	var req event.CreateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		RespondBadRequest(ctx, "invalid_event", err.Error(), nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	e, err := h.repo.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create event")
		return
	}

	h.cache.Invalidate(cctx)

	ctx.JSON(http.StatusCreated, e)
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	if events, ok := h.cache.GetList(cctx); ok {
		ctx.JSON(http.StatusOK, gin.H{
			"items": events,
			"count": len(events),
		})
		return
	}

	events, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list events")
		return
	}

	h.cache.SetList(cctx, events)

	ctx.JSON(http.StatusOK, gin.H{
		"items": events,
		"count": len(events),
	})
}

func (h *EventsHandler) GetEventByID(ctx *gin.Context) {
	id := ctx.Param("id")

	if uuid.Validate(id) != nil {
		RespondBadRequest(ctx, "invalid_id", "event id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	e, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not fetch event")
		return
	}

	ctx.JSON(http.StatusOK, e)
}

func (h *EventsHandler) UpdateEvent(ctx *gin.Context) {
	id := ctx.Param("id")

	if uuid.Validate(id) != nil {
		RespondBadRequest(ctx, "invalid_id", "event id must be a valid UUID", nil)
		return
	}

	var req event.UpdateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	e, err := h.repo.Update(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, event.ErrEndBeforeStart), errors.Is(err, event.ErrInvalidCapacity):
			RespondBadRequest(ctx, "invalid_event", err.Error(), nil)
		case errors.Is(err, event.ErrNotFound):
			RespondNotFound(ctx, "Event not found")
		default:
			RespondInternal(ctx, "Could not update event")
		}
		return
	}

	h.cache.Invalidate(cctx)

	ctx.JSON(http.StatusOK, e)
}

func (h *EventsHandler) DeleteEvent(ctx *gin.Context) {
	id := ctx.Param("id")

	if uuid.Validate(id) != nil {
		RespondBadRequest(ctx, "invalid_id", "event id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	// Registrations for the event are removed with it (cascade); their
	// already-issued ticket files stay on disk.
	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not delete event")
		return
	}

	h.cache.Invalidate(cctx)

	ctx.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
