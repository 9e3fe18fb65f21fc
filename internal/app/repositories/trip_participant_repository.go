package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripmate/tripmate/internal/app/models"
)

// TripParticipantRepository serves read-side roster queries. Roster
// mutations go through TripRepository, which owns the locking transaction.
type TripParticipantRepository struct {
	db *pgxpool.Pool
}

// NewTripParticipantRepository creates a new TripParticipantRepository
func NewTripParticipantRepository(db *pgxpool.Pool) *TripParticipantRepository {
	return &TripParticipantRepository{db: db}
}

// GetParticipantsByTripID retrieves a trip's roster with display info,
// ordered by join time.
func (r *TripParticipantRepository) GetParticipantsByTripID(ctx context.Context, tripID int64) ([]*models.User, error) {
	query := squirrel.Select(
		"u.id", "u.first_name", "u.last_name", "u.email", "u.city", "u.created_at",
	).
		From("trip_participants tp").
		Join("users u ON tp.user_id = u.id").
		Where("tp.trip_id = ?", tripID).
		OrderBy("tp.joined_at ASC").
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

	var participants []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.FirstName,
			&user.LastName,
			&user.Email,
			&user.City,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning participant row: %w", err)
		}
		participants = append(participants, &user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}

	return participants, nil
}

// GetParticipantCountsByTripIDs returns roster sizes for a set of trips in
// one query.
func (r *TripParticipantRepository) GetParticipantCountsByTripIDs(ctx context.Context, tripIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(tripIDs) == 0 {
		return counts, nil
	}

	query := squirrel.Select("trip_id", "COUNT(*)").
		From("trip_participants").
		Where(squirrel.Eq{"trip_id": tripIDs}).
		GroupBy("trip_id").
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

	for rows.Next() {
		var tripID int64
		var count int
		if err := rows.Scan(&tripID, &count); err != nil {
			return nil, fmt.Errorf("error scanning count row: %w", err)
		}
		counts[tripID] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}
