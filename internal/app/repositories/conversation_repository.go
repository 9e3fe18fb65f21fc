package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripmate/tripmate/internal/app/models"
	"github.com/tripmate/tripmate/internal/db"
	"github.com/tripmate/tripmate/internal/pkg/apperrors"
)

// ConversationRepository handles database operations for pairwise
// conversations and their messages.
type ConversationRepository struct {
	db *pgxpool.Pool
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

const conversationColumns = `id, user_a, user_b, related_trip_id, last_activity, created_at`

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var conversation models.Conversation
	err := row.Scan(
		&conversation.ID,
		&conversation.UserA,
		&conversation.UserB,
		&conversation.RelatedTripID,
		&conversation.LastActivity,
		&conversation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, fmt.Errorf("error retrieving conversation: %w", err)
	}
	return &conversation, nil
}

// FindOrCreate returns the single conversation between the two users,
// creating it if none exists. The pair is normalized before insert, and the
// insert tolerates a concurrent create of the same pair, so both racing
// callers converge on the same row.
func (r *ConversationRepository) FindOrCreate(ctx context.Context, userA, userB int64, relatedTripID *int64) (*models.Conversation, error) {
	lo, hi := models.NormalizePair(userA, userB)

	_, err := r.db.Exec(ctx, `
		INSERT INTO conversations (user_a, user_b, related_trip_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_a, user_b) DO NOTHING
	`, lo, hi, relatedTripID)
	if err != nil {
		return nil, fmt.Errorf("error creating conversation: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM conversations WHERE user_a = $1 AND user_b = $2`,
		conversationColumns,
	)
	return scanConversation(r.db.QueryRow(ctx, query, lo, hi))
}

// GetByID retrieves a conversation by id
func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*models.Conversation, error) {
	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE id = $1`, conversationColumns)
	return scanConversation(r.db.QueryRow(ctx, query, id))
}

// GetMessages retrieves a conversation's messages in append order
func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID int64) ([]*models.Message, error) {
	query := squirrel.Select(
		"id", "conversation_id", "sender_id", "content", "read", "created_at",
	).
		From("messages").
		Where("conversation_id = ?", conversationID).
		OrderBy("created_at ASC", "id ASC").
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

	var messages []*models.Message
	for rows.Next() {
		var message models.Message
		err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.SenderID,
			&message.Content,
			&message.Read,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, &message)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}

// AppendMessage inserts a message and bumps the conversation's last activity
// in the same transaction.
func (r *ConversationRepository) AppendMessage(ctx context.Context, message *models.Message) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO messages (conversation_id, sender_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`, message.ConversationID, message.SenderID, message.Content,
		).Scan(&message.ID, &message.CreatedAt)
		if err != nil {
			return fmt.Errorf("error creating message: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE conversations SET last_activity = $1 WHERE id = $2`,
			message.CreatedAt, message.ConversationID,
		)
		if err != nil {
			return fmt.Errorf("error updating conversation activity: %w", err)
		}

		return nil
	})
}

// MarkRead flags every message addressed to readerID in the conversation as
// read. Re-running it is a no-op.
func (r *ConversationRepository) MarkRead(ctx context.Context, conversationID, readerID int64) (int64, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE messages
		SET read = TRUE
		WHERE conversation_id = $1 AND sender_id <> $2 AND read = FALSE
	`, conversationID, readerID)
	if err != nil {
		return 0, fmt.Errorf("error marking messages read: %w", err)
	}
	return result.RowsAffected(), nil
}

// CountUnread returns per-conversation counts of unread messages addressed
// to readerID.
func (r *ConversationRepository) CountUnread(ctx context.Context, conversationIDs []int64, readerID int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(conversationIDs) == 0 {
		return counts, nil
	}

	query := squirrel.Select("conversation_id", "COUNT(*)").
		From("messages").
		Where(squirrel.Eq{"conversation_id": conversationIDs}).
		Where("sender_id <> ?", readerID).
		Where("read = FALSE").
		GroupBy("conversation_id").
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
		var conversationID int64
		var count int
		if err := rows.Scan(&conversationID, &count); err != nil {
			return nil, fmt.Errorf("error scanning count row: %w", err)
		}
		counts[conversationID] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}

// ListByUser retrieves every conversation userID takes part in, most
// recently active first.
func (r *ConversationRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM conversations
		WHERE user_a = $1 OR user_b = $1
		ORDER BY last_activity DESC
	`, conversationColumns)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		var conversation models.Conversation
		err := rows.Scan(
			&conversation.ID,
			&conversation.UserA,
			&conversation.UserB,
			&conversation.RelatedTripID,
			&conversation.LastActivity,
			&conversation.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		conversations = append(conversations, &conversation)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return conversations, nil
}

// GetLastMessages returns the newest message of each given conversation in
// one query.
func (r *ConversationRepository) GetLastMessages(ctx context.Context, conversationIDs []int64) (map[int64]*models.Message, error) {
	lastMessages := make(map[int64]*models.Message)
	if len(conversationIDs) == 0 {
		return lastMessages, nil
	}

	query := squirrel.Select(
		"DISTINCT ON (conversation_id) id", "conversation_id", "sender_id",
		"content", "read", "created_at",
	).
		From("messages").
		Where(squirrel.Eq{"conversation_id": conversationIDs}).
		OrderBy("conversation_id", "created_at DESC", "id DESC").
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
		var message models.Message
		err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.SenderID,
			&message.Content,
			&message.Read,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		lastMessages[message.ConversationID] = &message
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return lastMessages, nil
}
