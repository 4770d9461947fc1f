package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

// DBTX is the slice of pgxpool.Pool the repository needs. Declared here so
// the tests can substitute pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type PgMessageRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewPgMessageRepository creates the PostgreSQL implementation of
// MessageRecordRepository.
func NewPgMessageRepository(db DBTX, logger *slog.Logger) *PgMessageRepository {
	return &PgMessageRepository{db: db, logger: logger.With("component", "message_repository_pg")}
}

const insertMessageQuery = `
	INSERT INTO whatsapp_messages (
		id, message_id, sender_name, recipient_name, sender_phone, recipient_phone,
		message_type, message_timestamp, message_content, group_name, project_name
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)
`

// Create inserts one row per resolved message. An absent group and the
// "N/A" project sentinel are stored as NULL, not as empty strings.
func (r *PgMessageRepository) Create(ctx context.Context, record *domain.ResolvedMessage) error {
	content := record.Body
	if content == "" {
		content = domain.SentinelEmptyBody
	}

	args := []any{
		record.ID,
		nullString(record.MessageID),
		orDefault(record.SenderName, domain.SentinelUnknown),
		orDefault(record.RecipientName, domain.SentinelUnknown),
		orDefault(record.SenderPhone, domain.SentinelNoPhone),
		orDefault(record.RecipientPhone, domain.SentinelNoPhone),
		record.Direction.String(),
		record.SentAt,
		content,
		nullString(record.GroupName),
		nullProject(record.ProjectID),
	}

	_, err := r.db.Exec(ctx, insertMessageQuery, args...)
	if err != nil {
		// Log the statement template and argument types only; message
		// bodies and phone numbers stay out of the error log.
		r.logger.ErrorContext(ctx, "Error inserting message record",
			"error", err,
			"query", strings.Join(strings.Fields(insertMessageQuery), " "),
			"arg_types", argTypes(args),
			"content_length", len(content),
		)
		return fmt.Errorf("insert message record: %w", err)
	}

	r.logger.InfoContext(ctx, "Message record saved",
		"id", record.ID,
		"message_id", record.MessageID,
		"type", record.Direction.String(),
	)
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullProject(project string) sql.NullString {
	if project == "" || project == domain.SentinelNoProject {
		return sql.NullString{}
	}
	return sql.NullString{String: project, Valid: true}
}

func argTypes(args []any) string {
	types := make([]string, len(args))
	for i, a := range args {
		types[i] = fmt.Sprintf("%T", a)
	}
	return strings.Join(types, ", ")
}
