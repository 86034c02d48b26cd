package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a phrase name is already stored.
	ErrDuplicate = errors.New("already exists")
)

// Phrase is a stored phrase definition.
type Phrase struct {
	ID        string
	Name      string
	Signs     []string
	Position  int
	CreatedAt time.Time
}

// PhraseRepository provides CRUD operations for stored phrases.
type PhraseRepository struct {
	db *sql.DB
}

// Phrases returns the phrase repository for this store.
func (s *Store) Phrases() *PhraseRepository {
	return &PhraseRepository{db: s.db}
}

// Create stores p after every existing phrase. An empty ID is generated.
func (r *PhraseRepository) Create(p *Phrase) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	signs, err := json.Marshal(p.Signs)
	if err != nil {
		return fmt.Errorf("encode signs: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM phrases WHERE name = ?`, p.Name).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("phrase %q: %w", p.Name, ErrDuplicate)
	}

	var position int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(position), 0) + 1 FROM phrases`).Scan(&position); err != nil {
		return err
	}

	createdAt := time.Now().UTC()
	if _, err := tx.Exec(
		`INSERT INTO phrases (id, name, signs, position, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(signs), position, createdAt,
	); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	p.Position = position
	p.CreatedAt = createdAt
	return nil
}

// GetByID retrieves a phrase by its ID.
func (r *PhraseRepository) GetByID(id string) (*Phrase, error) {
	return r.getOne(`SELECT id, name, signs, position, created_at FROM phrases WHERE id = ?`, id)
}

// GetByName retrieves a phrase by its name.
func (r *PhraseRepository) GetByName(name string) (*Phrase, error) {
	return r.getOne(`SELECT id, name, signs, position, created_at FROM phrases WHERE name = ?`, name)
}

func (r *PhraseRepository) getOne(query string, arg any) (*Phrase, error) {
	p, err := scanPhrase(r.db.QueryRow(query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns every stored phrase in matching order.
func (r *PhraseRepository) List() ([]*Phrase, error) {
	rows, err := r.db.Query(`SELECT id, name, signs, position, created_at FROM phrases ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phrases []*Phrase
	for rows.Next() {
		p, err := scanPhrase(rows)
		if err != nil {
			return nil, err
		}
		phrases = append(phrases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return phrases, nil
}

// Delete removes a phrase by its ID.
func (r *PhraseRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM phrases WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPhrase(row scanner) (*Phrase, error) {
	p := &Phrase{}
	var signs string
	if err := row.Scan(&p.ID, &p.Name, &signs, &p.Position, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(signs), &p.Signs); err != nil {
		return nil, fmt.Errorf("phrase %s: decode signs: %w", p.ID, err)
	}
	return p, nil
}
