package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripmate/tripmate/internal/app/models"
	"github.com/tripmate/tripmate/internal/db"
	"github.com/tripmate/tripmate/internal/pkg/apperrors"
)

// TripRepository handles database operations for trips and their rosters.
// Join and Leave run inside a transaction that locks the trip row, so
// capacity and status are re-validated at commit time rather than from a
// stale read.
type TripRepository struct {
	db *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, title, description, from_city, to_city, travel_date, travel_time,
		max_participants, status, creator_id, created_at, updated_at`

func scanTrip(row pgx.Row) (*models.Trip, error) {
	var trip models.Trip
	err := row.Scan(
		&trip.ID,
		&trip.Title,
		&trip.Description,
		&trip.FromCity,
		&trip.ToCity,
		&trip.TravelDate,
		&trip.TravelTime,
		&trip.MaxParticipants,
		&trip.Status,
		&trip.CreatorID,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, fmt.Errorf("error retrieving trip: %w", err)
	}
	return &trip, nil
}

// Create inserts a new trip and its creator's participant row atomically
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO trips (
				title, description, from_city, to_city, travel_date, travel_time,
				max_participants, status, creator_id
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			trip.Title,
			trip.Description,
			trip.FromCity,
			trip.ToCity,
			trip.TravelDate,
			trip.TravelTime,
			trip.MaxParticipants,
			trip.Status,
			trip.CreatorID,
		).Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating trip: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO trip_participants (trip_id, user_id) VALUES ($1, $2)`,
			trip.ID, trip.CreatorID,
		)
		if err != nil {
			return fmt.Errorf("error adding creator to roster: %w", err)
		}

		trip.ParticipantCount = 1
		return nil
	})
}

// GetByID retrieves a trip by id, including its participant count
func (r *TripRepository) GetByID(ctx context.Context, id int64) (*models.Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1`, tripColumns)

	trip, err := scanTrip(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM trip_participants WHERE trip_id = $1`, id,
	).Scan(&trip.ParticipantCount)
	if err != nil {
		return nil, fmt.Errorf("error counting participants: %w", err)
	}

	return trip, nil
}

// List retrieves trips with optional city filters and pagination. Roster
// sizes are not included; callers batch them via the participant repository.
func (r *TripRepository) List(ctx context.Context, fromCity, toCity *string, page, pageSize int) ([]*models.Trip, int64, error) {
	queryBuilder := squirrel.Select(
		"t.id", "t.title", "t.description", "t.from_city", "t.to_city",
		"t.travel_date", "t.travel_time", "t.max_participants", "t.status",
		"t.creator_id", "t.created_at", "t.updated_at",
		"COUNT(*) OVER() AS total_count",
	).
		From("trips t").
		OrderBy("t.travel_date ASC", "t.id ASC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		PlaceholderFormat(squirrel.Dollar)

	if fromCity != nil && *fromCity != "" {
		queryBuilder = queryBuilder.Where("t.from_city ILIKE ?", *fromCity)
	}
	if toCity != nil && *toCity != "" {
		queryBuilder = queryBuilder.Where("t.to_city ILIKE ?", *toCity)
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	var total int64
	for rows.Next() {
		var trip models.Trip
		err := rows.Scan(
			&trip.ID,
			&trip.Title,
			&trip.Description,
			&trip.FromCity,
			&trip.ToCity,
			&trip.TravelDate,
			&trip.TravelTime,
			&trip.MaxParticipants,
			&trip.Status,
			&trip.CreatorID,
			&trip.CreatedAt,
			&trip.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning trip row: %w", err)
		}
		trips = append(trips, &trip)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating trip rows: %w", err)
	}

	return trips, total, nil
}

// Join adds userID to the trip roster. The trip row is locked for the
// duration of the transaction; the roster state machine decides against the
// locked state, so concurrent joins can never overbook.
func (r *TripRepository) Join(ctx context.Context, tripID, userID int64) (*models.Trip, error) {
	var trip *models.Trip
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		trip, err = r.lockTrip(ctx, tx, tripID)
		if err != nil {
			return err
		}

		count, isParticipant, err := r.rosterState(ctx, tx, tripID, userID)
		if err != nil {
			return err
		}

		if err := models.ValidateJoin(trip, userID, count, isParticipant); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO trip_participants (trip_id, user_id) VALUES ($1, $2)`,
			tripID, userID,
		)
		if err != nil {
			return fmt.Errorf("error adding participant: %w", err)
		}

		trip.ParticipantCount = count + 1
		return r.applyStatus(ctx, tx, trip, models.StatusAfterJoin(trip, trip.ParticipantCount))
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// Leave removes userID from the trip roster under the same row lock as Join
func (r *TripRepository) Leave(ctx context.Context, tripID, userID int64) (*models.Trip, error) {
	var trip *models.Trip
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		trip, err = r.lockTrip(ctx, tx, tripID)
		if err != nil {
			return err
		}

		count, isParticipant, err := r.rosterState(ctx, tx, tripID, userID)
		if err != nil {
			return err
		}

		if err := models.ValidateLeave(trip, userID, isParticipant); err != nil {
			return err
		}

		result, err := tx.Exec(ctx,
			`DELETE FROM trip_participants WHERE trip_id = $1 AND user_id = $2`,
			tripID, userID,
		)
		if err != nil {
			return fmt.Errorf("error removing participant: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrNotParticipant
		}

		trip.ParticipantCount = count - 1
		return r.applyStatus(ctx, tx, trip, models.StatusAfterLeave(trip, trip.ParticipantCount))
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// UpdateStatus applies the external completion/cancellation signal. Terminal
// states are never overwritten.
func (r *TripRepository) UpdateStatus(ctx context.Context, tripID int64, status models.TripStatus) (*models.Trip, error) {
	var trip *models.Trip
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		trip, err = r.lockTrip(ctx, tx, tripID)
		if err != nil {
			return err
		}

		if trip.Status.IsTerminal() {
			return apperrors.ErrTripNotJoinable
		}

		count, _, err := r.rosterState(ctx, tx, tripID, 0)
		if err != nil {
			return err
		}
		trip.ParticipantCount = count

		return r.applyStatus(ctx, tx, trip, status)
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// AddComment appends a comment to the trip with a server-assigned timestamp
func (r *TripRepository) AddComment(ctx context.Context, comment *models.TripComment) error {
	query := `
		INSERT INTO trip_comments (trip_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		comment.TripID,
		comment.AuthorID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating trip comment: %w", err)
	}

	return nil
}

// GetComments retrieves a trip's comment thread in append order
func (r *TripRepository) GetComments(ctx context.Context, tripID int64) ([]*models.TripComment, error) {
	query := squirrel.Select(
		"tc.id", "tc.trip_id", "tc.author_id", "tc.content", "tc.created_at",
		"u.first_name", "u.last_name", "u.city",
	).
		From("trip_comments tc").
		LeftJoin("users u ON tc.author_id = u.id").
		Where("tc.trip_id = ?", tripID).
		OrderBy("tc.created_at ASC", "tc.id ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var comments []*models.TripComment
	for rows.Next() {
		var comment models.TripComment
		var firstName, lastName, city *string

		err := rows.Scan(
			&comment.ID,
			&comment.TripID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
			&firstName,
			&lastName,
			&city,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}

		if firstName != nil {
			author := models.User{ID: comment.AuthorID, FirstName: *firstName}
			if lastName != nil {
				author.LastName = *lastName
			}
			if city != nil {
				author.City = *city
			}
			comment.Author = &author
		}

		comments = append(comments, &comment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

// lockTrip reads the trip row under FOR UPDATE, serializing roster mutations
// per trip id.
func (r *TripRepository) lockTrip(ctx context.Context, tx pgx.Tx, tripID int64) (*models.Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1 FOR UPDATE`, tripColumns)
	return scanTrip(tx.QueryRow(ctx, query, tripID))
}

// rosterState reads the participant count and userID's membership within the
// locking transaction.
func (r *TripRepository) rosterState(ctx context.Context, tx pgx.Tx, tripID, userID int64) (int, bool, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM trip_participants WHERE trip_id = $1`, tripID,
	).Scan(&count)
	if err != nil {
		return 0, false, fmt.Errorf("error counting participants: %w", err)
	}

	var isParticipant bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM trip_participants WHERE trip_id = $1 AND user_id = $2)`,
		tripID, userID,
	).Scan(&isParticipant)
	if err != nil {
		return 0, false, fmt.Errorf("error checking membership: %w", err)
	}

	return count, isParticipant, nil
}

// applyStatus persists a status change if it differs from the current one
func (r *TripRepository) applyStatus(ctx context.Context, tx pgx.Tx, trip *models.Trip, status models.TripStatus) error {
	if trip.Status == status {
		return nil
	}

	_, err := tx.Exec(ctx,
		`UPDATE trips SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), trip.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating trip status: %w", err)
	}

	trip.Status = status
	trip.UpdatedAt = time.Now().UTC()
	return nil
}
