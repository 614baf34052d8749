// package models defines the data model for the photobook
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the photobook.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations keyed by a natural key.
type Repository[T Model] interface {
	Create(model T) error      // Create inserts a new model into the database
	Get(key string) (T, error) // Get retrieves a model by its key
	Delete(key string) error   // Delete removes a model from the database
	List() ([]T, error)        // List retrieves all models in insertion order
}
