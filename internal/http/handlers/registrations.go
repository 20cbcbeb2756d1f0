package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/eventpass/internal/cache"
	"github.com/geocoder89/eventpass/internal/config"
	"github.com/geocoder89/eventpass/internal/domain/event"
	"github.com/geocoder89/eventpass/internal/domain/registration"
	"github.com/geocoder89/eventpass/internal/domain/user"
	"github.com/geocoder89/eventpass/internal/http/middlewares"
	"github.com/geocoder89/eventpass/internal/notifications"
	"github.com/geocoder89/eventpass/internal/observability"
	"github.com/gin-gonic/gin"
)

type RegistrationStore interface {
	HasActive(ctx context.Context, userID, eventID string) (bool, error)
	Create(ctx context.Context, userID, eventID string) (registration.Registration, event.Event, error)
	SetPDFURL(ctx context.Context, id, pdfURL string) error
}

type EventReader interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
}

type TicketGenerator interface {
	Generate(ctx context.Context, reg registration.Registration, ev event.Event, who user.Identity) (string, error)
}

type RegistrationsHandler struct {
	repo     RegistrationStore
	events   EventReader
	tickets  TicketGenerator
	notifier notifications.Notifier
	cache    *cache.EventsCache
	prom     *observability.Prom
	log      *slog.Logger
}

func NewRegistrationsHandler(
	repo RegistrationStore,
	events EventReader,
	tickets TicketGenerator,
	notifier notifications.Notifier,
	listCache *cache.EventsCache,
	prom *observability.Prom,
	log *slog.Logger,
) *RegistrationsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RegistrationsHandler{
		repo:     repo,
		events:   events,
		tickets:  tickets,
		notifier: notifier,
		cache:    listCache,
		prom:     prom,
		log:      log,
	}
}

type EventSummary struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location,omitempty"`
	StartAt  time.Time `json:"startAt"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RegistrationResponse struct {
	registration.Registration
	Event EventSummary `json:"event"`
	User  UserSummary  `json:"user"`
}

// Register runs the whole registration pipeline. Creating the registration
// row is the durability commit point: everything after it (PDF, email) is
// best-effort and can never turn the response into an error.
func (h *RegistrationsHandler) Register(ctx *gin.Context) {
	var req registration.CreateRegistrationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok || identity.ID == "" {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)

	defer cancel()

	// 1. Validate: the event must exist.

	if _, err := h.events.GetByID(cctx, req.EventID); err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not register for event")
		return
	}

	// 2. Guard: reject duplicates before touching the seat counter, so a
	// doomed request never wastes a reservation.

	already, err := h.repo.HasActive(cctx, identity.ID, req.EventID)

	if err != nil {
		RespondInternal(ctx, "Could not register for event")
		return
	}

	if already {
		RespondBadRequest(ctx, "already_registered", "Already registered for this event", nil)
		return
	}

	// 3+4. Reserve atomically and persist in one transaction. Full and
	// duplicate are normal outcomes here, not server errors.

	reg, snapshot, err := h.repo.Create(cctx, identity.ID, req.EventID)

	if err != nil {
		switch {
		case errors.Is(err, registration.ErrEventFull):
			RespondBadRequest(ctx, "event_full", "Event is full", nil)
		case errors.Is(err, registration.ErrAlreadyRegistered):
			RespondBadRequest(ctx, "already_registered", "Already registered for this event", nil)
		case errors.Is(err, event.ErrNotFound):
			RespondNotFound(ctx, "Event not found")
		default:
			h.log.ErrorContext(ctx.Request.Context(), "registration_create_failed", "err", err)
			RespondInternal(ctx, "Could not register for event")
		}
		return
	}

	// seat count changed, drop the cached listing
	h.cache.Invalidate(cctx)

	// 5. Materialize the ticket artifact. The registration is committed;
	// from here on failures are logged and the response stays a 201.

	if pdfPath, genErr := h.tickets.Generate(cctx, reg, snapshot, identity); genErr != nil {
		h.ticketResult("error")
		h.log.ErrorContext(ctx.Request.Context(), "ticket_generation_failed",
			"registration_id", reg.ID, "err", genErr)
	} else {
		h.ticketResult("ok")
		if setErr := h.repo.SetPDFURL(cctx, reg.ID, pdfPath); setErr != nil {
			h.log.ErrorContext(ctx.Request.Context(), "ticket_url_update_failed",
				"registration_id", reg.ID, "err", setErr)
		} else {
			reg.PDFURL = &pdfPath
		}
	}

	// 6. Notify, fire-and-forget relative to the response.

	h.notifyAsync(reg, snapshot, identity)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Registered successfully",
		"registration": RegistrationResponse{
			Registration: reg,
			Event: EventSummary{
				ID:       snapshot.ID,
				Title:    snapshot.Title,
				Location: snapshot.Location,
				StartAt:  snapshot.StartAt,
			},
			User: UserSummary{
				ID:    identity.ID,
				Name:  identity.Name,
				Email: identity.Email,
			},
		},
	})
}

func (h *RegistrationsHandler) notifyAsync(reg registration.Registration, snapshot event.Event, identity user.Identity) {
	if h.notifier == nil {
		return
	}

	attachment := ""
	if reg.PDFURL != nil {
		attachment = *reg.PDFURL
	}

	in := notifications.SendTicketInput{
		Email:          identity.Email,
		Name:           identity.Name,
		EventTitle:     snapshot.Title,
		EventLocation:  snapshot.Location,
		EventStartAt:   snapshot.StartAt.Format(time.RFC1123),
		RegistrationID: reg.ID,
		TicketID:       reg.TicketID,
		AttachmentPath: attachment,
	}

	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := h.notifier.SendTicket(nctx, in); err != nil {
			h.deliveryResult("error")
			h.log.Error("ticket_delivery_failed", "registration_id", reg.ID, "err", err)
			return
		}
		h.deliveryResult("ok")
	}()
}

func (h *RegistrationsHandler) ticketResult(result string) {
	if h.prom != nil {
		h.prom.TicketsGenerated.WithLabelValues(result).Inc()
	}
}

func (h *RegistrationsHandler) deliveryResult(result string) {
	if h.prom != nil {
		h.prom.DeliveriesTotal.WithLabelValues(result).Inc()
	}
}
