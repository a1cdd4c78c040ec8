package repository

import (
	"database/sql"
	"fmt"

	"grievance-service/internal/model"
)

// UpdateRepository stores the department update messages shown on the
// tracking page underneath the timeline.
type UpdateRepository struct {
	db     *sql.DB
	outbox *OutboxRepository
}

func NewUpdateRepository(db *sql.DB, outbox *OutboxRepository) *UpdateRepository {
	return &UpdateRepository{db: db, outbox: outbox}
}

// Create persists an update and enqueues its posted event atomically.
func (r *UpdateRepository) Create(update *model.Update) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO complaint_updates (id, complaint_id, message, sender, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.Exec(query,
		update.ID,
		update.ComplaintID,
		update.Message,
		update.From,
		update.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert update: %w", err)
	}

	err = r.outbox.CreateInTransaction(tx, RoutingKeyUpdatePosted, map[string]interface{}{
		"update_id":    update.ID.String(),
		"complaint_id": update.ComplaintID,
		"message":      update.Message,
		"from":         update.From,
	})
	if err != nil {
		return fmt.Errorf("enqueue update event: %w", err)
	}

	return tx.Commit()
}

// CreateSystem persists an update without a posted event. Used by the
// consumer for updates derived from status changes, which already have their
// own event on the bus.
func (r *UpdateRepository) CreateSystem(update *model.Update) error {
	query := `
		INSERT INTO complaint_updates (id, complaint_id, message, sender, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		update.ID,
		update.ComplaintID,
		update.Message,
		update.From,
		update.CreatedAt,
	)
	return err
}

// ListByComplaint returns a complaint's updates, newest first.
func (r *UpdateRepository) ListByComplaint(complaintID string) ([]model.Update, error) {
	query := `
		SELECT id, complaint_id, message, sender, created_at
		FROM complaint_updates
		WHERE complaint_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []model.Update
	for rows.Next() {
		var u model.Update
		err := rows.Scan(
			&u.ID,
			&u.ComplaintID,
			&u.Message,
			&u.From,
			&u.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}

	return updates, rows.Err()
}
