package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SOHAIL1510/Peer-Learning-app/internal/models"
)

// SessionRepository is the canonical session store. Mutations are
// serialized by the backing implementation; reads return snapshots, never
// aliases of stored state.
type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)
	List(ctx context.Context, scope models.ListScope) ([]models.Session, error)
	Join(ctx context.Context, id, userID uuid.UUID) error
	Leave(ctx context.Context, id, userID uuid.UUID) error
	// Remove cancels the whole session when actingUser is the host, and
	// removes only the membership when actingUser is a participant.
	Remove(ctx context.Context, id, actingUser uuid.UUID) error
}

type PostgresSessionRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSessionRepo(pool *pgxpool.Pool) *PostgresSessionRepo {
	return &PostgresSessionRepo{pool: pool}
}

const sessionColumns = `
	s.id, s.title, s.category, s.description, s.scheduled_at, s.mode, s.location,
	s.host_id, s.host_name,
	COALESCE(array_agg(sp.user_id) FILTER (WHERE sp.user_id IS NOT NULL), '{}'),
	s.created_at`

func (r *PostgresSessionRepo) Create(ctx context.Context, s *models.Session) error {
	s.ID = uuid.New()
	if s.Participants == nil {
		s.Participants = []uuid.UUID{}
	}

	query := `
		INSERT INTO sessions (id, title, category, description, scheduled_at, mode, location, host_id, host_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		s.ID, s.Title, s.Category, s.Description, s.ScheduledAt, s.Mode, s.Location, s.HostID, s.HostName,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *PostgresSessionRepo) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := `
		SELECT` + sessionColumns + `
		FROM sessions s
		LEFT JOIN session_participants sp ON sp.session_id = s.id
		WHERE s.id = $1
		GROUP BY s.id`

	s, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresSessionRepo) List(ctx context.Context, scope models.ListScope) ([]models.Session, error) {
	base := `
		SELECT` + sessionColumns + `
		FROM sessions s
		LEFT JOIN session_participants sp ON sp.session_id = s.id`
	tail := `
		GROUP BY s.id
		ORDER BY s.created_at, s.id`

	var (
		rows pgx.Rows
		err  error
	)
	switch scope.Kind {
	case models.ScopeHostedBy:
		rows, err = r.pool.Query(ctx, base+` WHERE s.host_id = $1`+tail, scope.User)
	case models.ScopeJoinedBy:
		rows, err = r.pool.Query(ctx, base+`
		WHERE EXISTS (
			SELECT 1 FROM session_participants p
			WHERE p.session_id = s.id AND p.user_id = $1
		)`+tail, scope.User)
	default:
		rows, err = r.pool.Query(ctx, base+tail)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		s, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *PostgresSessionRepo) Join(ctx context.Context, id, userID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	var hostID uuid.UUID
	err = tx.QueryRow(ctx, "SELECT host_id FROM sessions WHERE id = $1 FOR UPDATE", id).Scan(&hostID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	if hostID == userID {
		return ErrHostCannotJoin
	}

	// ON CONFLICT DO NOTHING makes join idempotent.
	_, err = tx.Exec(ctx, `
		INSERT INTO session_participants (session_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (session_id, user_id) DO NOTHING
	`, id, userID)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresSessionRepo) Leave(ctx context.Context, id, userID uuid.UUID) error {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !exists {
		return ErrSessionNotFound
	}

	tag, err := r.pool.Exec(ctx,
		"DELETE FROM session_participants WHERE session_id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotParticipant
	}
	return nil
}

func (r *PostgresSessionRepo) Remove(ctx context.Context, id, actingUser uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	var hostID uuid.UUID
	err = tx.QueryRow(ctx, "SELECT host_id FROM sessions WHERE id = $1 FOR UPDATE", id).Scan(&hostID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}

	if hostID == actingUser {
		// Memberships cascade with the session row.
		if _, err := tx.Exec(ctx, "DELETE FROM sessions WHERE id = $1", id); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	tag, err := tx.Exec(ctx,
		"DELETE FROM session_participants WHERE session_id = $1 AND user_id = $2", id, actingUser)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrForbidden
	}
	return tx.Commit(ctx)
}

func scanSession(row pgx.Row) (*models.Session, error) {
	s := &models.Session{}
	err := row.Scan(
		&s.ID, &s.Title, &s.Category, &s.Description, &s.ScheduledAt, &s.Mode, &s.Location,
		&s.HostID, &s.HostName, &s.Participants, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
