package repository

import (
	"database/sql"
	"fmt"
)

// SequenceRepository allocates per-year complaint numbers. Each call claims
// the next number atomically, so two creations can never share an ID.
type SequenceRepository struct {
	db *sql.DB
}

func NewSequenceRepository(db *sql.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// NextInTx claims the next sequence number for a year inside an existing
// transaction, so the ID allocation commits or rolls back with the complaint.
func (r *SequenceRepository) NextInTx(tx *sql.Tx, year int) (int, error) {
	query := `
		INSERT INTO id_sequences (year, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_seq = id_sequences.last_seq + 1
		RETURNING last_seq
	`
	var seq int
	if err := tx.QueryRow(query, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence for %d: %w", year, err)
	}
	return seq, nil
}
