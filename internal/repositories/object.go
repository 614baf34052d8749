package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/photobook/internal/models"
	"github.com/desertthunder/photobook/internal/shared"
)

var _ models.Repository[*models.StoredObject] = (*ObjectRepository)(nil)

// ObjectRepository implements models.Repository[*models.StoredObject] for the local object store.
type ObjectRepository struct {
	db *sql.DB
}

// NewObjectRepository creates a new ObjectRepository with the given database connection
func NewObjectRepository(db *sql.DB) *ObjectRepository {
	return &ObjectRepository{db: db}
}

// Create inserts a new object with a generated ID and sequence.
//
// Keys are unique; writing an existing key fails with [shared.ErrValidation].
func (r *ObjectRepository) Create(obj *models.StoredObject) error {
	if err := obj.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	sequence, err := NextSequence(r.db, "objects")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO objects (id, sequence, key, content_type, size, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, obj.Key(), obj.ContentType(), obj.Size(), obj.Data(), obj.CreatedAt())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: object %s already exists", shared.ErrValidation, obj.Key())
		}
		return fmt.Errorf("failed to insert object: %w", err)
	}

	obj.SetID(id)
	obj.SetSequence(sequence)
	return nil
}

// Get retrieves an object and its bytes by key
func (r *ObjectRepository) Get(key string) (*models.StoredObject, error) {
	query := `
		SELECT id, sequence, key, content_type, size, data, created_at
		FROM objects
		WHERE key = ?
	`

	var (
		id, k, contentType string
		sequence           int
		size               int64
		data               []byte
		createdAt          time.Time
	)

	err := r.db.QueryRow(query, key).Scan(&id, &sequence, &k, &contentType, &size, &data, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	return models.RestoreStoredObject(id, sequence, k, contentType, size, data, createdAt), nil
}

// Delete removes an object by key
func (r *ObjectRepository) Delete(key string) error {
	result, err := r.db.Exec("DELETE FROM objects WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, key)
	}

	return nil
}

// List returns object metadata in upload order. Data is not loaded.
func (r *ObjectRepository) List() ([]*models.StoredObject, error) {
	query := `
		SELECT id, sequence, key, content_type, size, created_at
		FROM objects
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query objects: %w", err)
	}
	defer rows.Close()

	var objects []*models.StoredObject
	for rows.Next() {
		var (
			id, key, contentType string
			sequence             int
			size                 int64
			createdAt            time.Time
		)
		if err := rows.Scan(&id, &sequence, &key, &contentType, &size, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		objects = append(objects, models.RestoreStoredObject(id, sequence, key, contentType, size, nil, createdAt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return objects, nil
}
