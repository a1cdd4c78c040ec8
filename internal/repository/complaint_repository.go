package repository

import (
	"database/sql"
	"fmt"
	"time"

	"grievance-service/internal/model"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type ComplaintRepository struct {
	db        *sql.DB
	sequences *SequenceRepository
	outbox    *OutboxRepository
}

func NewComplaintRepository(db *sql.DB, sequences *SequenceRepository, outbox *OutboxRepository) *ComplaintRepository {
	return &ComplaintRepository{db: db, sequences: sequences, outbox: outbox}
}

// Create persists a new complaint. The ID is allocated from the yearly
// sequence inside the same transaction as the complaint row, its images, its
// initial history entry and the created event, so a failure leaves nothing
// behind — not even a burned ID visible to other creations.
func (r *ComplaintRepository) Create(c *model.Complaint) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	seq, err := r.sequences.NextInTx(tx, c.CreatedAt.Year())
	if err != nil {
		return err
	}
	c.ID = model.FormatID(c.CreatedAt.Year(), seq)

	query := `
		INSERT INTO complaints (id, category, priority, status, title, description, location,
			submitted_by, contact_email, contact_phone, assigned_to, estimated_resolution,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = tx.Exec(query,
		c.ID,
		c.Category,
		c.Priority,
		c.Status,
		c.Title,
		c.Description,
		c.Location,
		c.SubmittedBy,
		c.ContactEmail,
		c.ContactPhone,
		c.AssignedTo,
		c.EstimatedResolution,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}

	for i, ref := range c.Images {
		_, err = tx.Exec(
			`INSERT INTO complaint_images (complaint_id, position, ref) VALUES ($1, $2, $3)`,
			c.ID, i, ref,
		)
		if err != nil {
			return fmt.Errorf("insert image %d: %w", i, err)
		}
	}

	for i, entry := range c.History {
		_, err = tx.Exec(
			`INSERT INTO complaint_history (id, complaint_id, status, note, created_at, position)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			entry.ID, c.ID, entry.Status, entry.Note, entry.CreatedAt, i,
		)
		if err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}

	err = r.outbox.CreateInTransaction(tx, RoutingKeyComplaintCreated, map[string]interface{}{
		"complaint_id": c.ID,
		"title":        c.Title,
		"category":     c.Category,
		"priority":     string(c.Priority),
	})
	if err != nil {
		return fmt.Errorf("enqueue created event: %w", err)
	}

	return tx.Commit()
}

func (r *ComplaintRepository) FindByID(id string) (*model.Complaint, error) {
	query := `
		SELECT id, category, priority, status, title, description, location,
			submitted_by, contact_email, contact_phone, assigned_to, estimated_resolution,
			created_at, updated_at
		FROM complaints
		WHERE id = $1
	`
	c := &model.Complaint{}
	var assignedTo sql.NullString
	var estimated sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&c.ID,
		&c.Category,
		&c.Priority,
		&c.Status,
		&c.Title,
		&c.Description,
		&c.Location,
		&c.SubmittedBy,
		&c.ContactEmail,
		&c.ContactPhone,
		&assignedTo,
		&estimated,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	if assignedTo.Valid {
		c.AssignedTo = &assignedTo.String
	}
	if estimated.Valid {
		t := estimated.Time
		c.EstimatedResolution = &t
	}

	if c.Images, err = r.findImages(id); err != nil {
		return nil, err
	}
	if c.History, err = r.findHistory(id); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *ComplaintRepository) findImages(complaintID string) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT ref FROM complaint_images WHERE complaint_id = $1 ORDER BY position ASC`,
		complaintID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		images = append(images, ref)
	}
	return images, rows.Err()
}

func (r *ComplaintRepository) findHistory(complaintID string) ([]model.HistoryEntry, error) {
	rows, err := r.db.Query(
		`SELECT id, status, note, created_at
		 FROM complaint_history
		 WHERE complaint_id = $1
		 ORDER BY position ASC`,
		complaintID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.Status, &entry.Note, &entry.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

// List returns all complaints newest first, without their history or images.
// The dashboard's search runs over this listing in memory.
func (r *ComplaintRepository) List() ([]model.Complaint, error) {
	query := `
		SELECT id, category, priority, status, title, description, location,
			submitted_by, contact_email, contact_phone, assigned_to, estimated_resolution,
			created_at, updated_at
		FROM complaints
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var complaints []model.Complaint
	for rows.Next() {
		var c model.Complaint
		var assignedTo sql.NullString
		var estimated sql.NullTime

		err := rows.Scan(
			&c.ID,
			&c.Category,
			&c.Priority,
			&c.Status,
			&c.Title,
			&c.Description,
			&c.Location,
			&c.SubmittedBy,
			&c.ContactEmail,
			&c.ContactPhone,
			&assignedTo,
			&estimated,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if assignedTo.Valid {
			c.AssignedTo = &assignedTo.String
		}
		if estimated.Valid {
			t := estimated.Time
			c.EstimatedResolution = &t
		}

		complaints = append(complaints, c)
	}

	return complaints, rows.Err()
}

// Transition advances a complaint to the next status. The complaint row is
// locked for the duration of the transaction so concurrent transitions on the
// same record are serialized; the status update, history append and outbox
// event commit together. History is only ever appended to, never rewritten.
func (r *ComplaintRepository) Transition(id string, next model.Status, note string) (*model.Complaint, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current model.Status
	var category, title string
	var currentAssignee sql.NullString
	err = tx.QueryRow(
		`SELECT status, category, title, assigned_to FROM complaints WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&current, &category, &title, &currentAssignee)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("lock complaint: %w", err)
	}

	if !model.CanTransition(current, next) {
		return nil, &model.InvalidTransitionError{From: current, To: next}
	}

	now := time.Now()

	var assignedTo *string
	if next == model.StatusAssigned {
		if cat, ok := model.CategoryByLabel(category); ok {
			assignedTo = &cat.Department
		}
	}

	_, err = tx.Exec(
		`UPDATE complaints
		 SET status = $1, assigned_to = COALESCE($2, assigned_to), updated_at = $3
		 WHERE id = $4`,
		next, assignedTo, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	// the complaint row is locked above, so the MAX is stable
	_, err = tx.Exec(
		`INSERT INTO complaint_history (id, complaint_id, status, note, created_at, position)
		 VALUES ($1, $2, $3, $4, $5,
		         (SELECT COALESCE(MAX(position), -1) + 1 FROM complaint_history WHERE complaint_id = $2))`,
		uuid.New(), id, next, note, now,
	)
	if err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	payload := map[string]interface{}{
		"complaint_id": id,
		"title":        title,
		"previous":     string(current),
		"next":         string(next),
	}
	if assignedTo != nil {
		payload["assigned_to"] = *assignedTo
	} else if currentAssignee.Valid {
		payload["assigned_to"] = currentAssignee.String
	}
	if err := r.outbox.CreateInTransaction(tx, RoutingKeyStatusChanged, payload); err != nil {
		return nil, fmt.Errorf("enqueue status event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}

	return r.FindByID(id)
}

// CategoryStats returns per-category complaint counts with their share of the
// total, largest first. Percentages are rounded down and can sum below 100.
func (r *ComplaintRepository) CategoryStats() ([]model.CategoryStat, error) {
	query := `
		SELECT category, COUNT(*) as count
		FROM complaints
		GROUP BY category
		ORDER BY count DESC, category ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []model.CategoryStat
	total := 0
	for rows.Next() {
		var s model.CategoryStat
		if err := rows.Scan(&s.Name, &s.Count); err != nil {
			return nil, err
		}
		total += s.Count
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range stats {
		if total > 0 {
			stats[i].Percentage = stats[i].Count * 100 / total
		}
	}

	return stats, nil
}
