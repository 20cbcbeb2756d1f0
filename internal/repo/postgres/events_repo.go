package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/eventpass/internal/domain/event"
	"github.com/geocoder89/eventpass/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, title, description, location, organizer, start_at, end_at, capacity, seats_booked, created_at, updated_at`

type EventsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEventsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *EventsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanEvent(row pgx.Row, e *event.Event) error {
	return row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.Organizer,
		&e.StartAt, &e.EndAt, &e.Capacity, &e.SeatsBooked,
		&e.CreatedAt, &e.UpdatedAt,
	)
}

func (r *EventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	e := event.NewFromCreateRequest(req)

	err := r.observe("events.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO events (`+eventColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			e.ID, e.Title, e.Description, e.Location, e.Organizer,
			e.StartAt, e.EndAt, e.Capacity, e.SeatsBooked,
			e.CreatedAt, e.UpdatedAt,
		)
		return execErr
	})

	if err != nil {
		return event.Event{}, err
	}

	return e, nil
}

// List returns every event ordered by start time, soonest first. Ordering is
// stable across identical start times.
func (r *EventsRepo) List(ctx context.Context) ([]event.Event, error) {
	var rows pgx.Rows

	err := r.observe("events.list", func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx,
			`SELECT `+eventColumns+` FROM events ORDER BY start_at ASC, id ASC`)
		return qerr
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]event.Event, 0)

	for rows.Next() {
		var e event.Event
		if scanErr := scanEvent(rows, &e); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	var e event.Event

	err := r.observe("events.get_by_id", func() error {
		return scanEvent(r.pool.QueryRow(ctx,
			`SELECT `+eventColumns+` FROM events WHERE id = $1`, id), &e)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return e, nil
}

// Update applies a partial update inside a transaction: the current row is
// locked, the patch merged and re-validated, then written back. Validation
// errors from the merge bubble up unchanged.
func (r *EventsRepo) Update(ctx context.Context, id string, req event.UpdateEventRequest) (updated event.Event, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var current event.Event

	err = r.observe("events.update.lock", func() error {
		return scanEvent(tx.QueryRow(ctx,
			`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id), &current)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = event.ErrNotFound
		}
		return
	}

	updated, err = req.ApplyTo(current)

	if err != nil {
		return
	}

	err = r.observe("events.update.write", func() error {
		return scanEvent(tx.QueryRow(ctx,
			`UPDATE events
			 SET title = $2,
			     description = $3,
			     location = $4,
			     organizer = $5,
			     start_at = $6,
			     end_at = $7,
			     capacity = $8,
			     updated_at = now()
			 WHERE id = $1
			 RETURNING `+eventColumns,
			id,
			updated.Title,
			updated.Description,
			updated.Location,
			updated.Organizer,
			updated.StartAt,
			updated.EndAt,
			updated.Capacity,
		), &updated)
	})

	if err != nil {
		return
	}

	err = tx.Commit(ctx)

	return
}

// Delete removes the event. Registrations referencing it go with it via the
// ON DELETE CASCADE constraint.
func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("events.delete", func() error {
		tag, execErr := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
		affected = tag.RowsAffected()
		return execErr
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return event.ErrNotFound
	}

	return nil
}
