package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/eventpass/internal/domain/event"
	"github.com/geocoder89/eventpass/internal/domain/registration"
	"github.com/geocoder89/eventpass/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Matches the partial unique index on (user_id, event_id) WHERE status <> 'cancelled'.
const activeRegistrationConstraint = "registrations_user_event_active_uniq"

type RegistrationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRegistrationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *RegistrationsRepo {
	return &RegistrationsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *RegistrationsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

// HasActive reports whether the user already holds a non-cancelled
// registration for the event. Best-effort pre-check; the unique index is the
// authoritative guard.
func (repo *RegistrationsRepo) HasActive(ctx context.Context, userID, eventID string) (bool, error) {
	var exists bool

	err := repo.observe("registrations.has_active", func() error {
		return repo.pool.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM registrations
			WHERE user_id = $1 AND event_id = $2 AND status <> 'cancelled'
		)`, userID, eventID).Scan(&exists)
	})

	return exists, err
}

// Create reserves a seat and persists the registration in one transaction.
//
// The seat reservation is a single conditional update, never a read followed
// by a write: two concurrent callers cannot both observe the last free seat.
// No row matching the condition means the event is full. Should the insert
// then trip the active-registration unique index, the rollback releases the
// seat that was just reserved.
func (repo *RegistrationsRepo) Create(ctx context.Context, userID, eventID string) (reg registration.Registration, snapshot event.Event, err error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() { _ = tx.Rollback(ctx) }()

	err = repo.observe("registrations.create.reserve_seat", func() error {
		return scanEvent(tx.QueryRow(ctx,
			`UPDATE events
			 SET seats_booked = seats_booked + 1,
			     updated_at = now()
			 WHERE id = $1 AND seats_booked < capacity
			 RETURNING `+eventColumns, eventID), &snapshot)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// either full or gone; the caller has already checked existence
			var known bool
			if repo.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&known) == nil && !known {
				err = event.ErrNotFound
				return
			}
			err = registration.ErrEventFull
		}
		return
	}

	reg = registration.New(userID, eventID)

	err = repo.observe("registrations.create.insert", func() error {
		_, execErr := tx.Exec(ctx,
			`INSERT INTO registrations (id, user_id, event_id, ticket_id, status, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			reg.ID, reg.UserID, reg.EventID, reg.TicketID, reg.Status, reg.CreatedAt,
		)
		return execErr
	})

	if err != nil {
		if uniqueViolationOn(err, activeRegistrationConstraint) {
			err = registration.ErrAlreadyRegistered
		}
		return
	}

	err = tx.Commit(ctx)

	return
}

// SetPDFURL records the artifact location once generation has succeeded.
func (repo *RegistrationsRepo) SetPDFURL(ctx context.Context, id, pdfURL string) error {
	var affected int64

	err := repo.observe("registrations.set_pdf_url", func() error {
		tag, execErr := repo.pool.Exec(ctx,
			`UPDATE registrations SET pdf_url = $2 WHERE id = $1`, id, pdfURL)
		affected = tag.RowsAffected()
		return execErr
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return registration.ErrNotFound
	}

	return nil
}
