package models

import (
	"fmt"
	"strings"
	"time"
)

// StoredObject is a blob kept by the local object store.
type StoredObject struct {
	id          string
	sequence    int
	key         string
	contentType string
	size        int64
	data        []byte
	createdAt   time.Time
}

// NewStoredObject builds an unsaved object. The repository assigns the id and sequence.
func NewStoredObject(key, contentType string, data []byte) *StoredObject {
	return &StoredObject{
		key:         key,
		contentType: contentType,
		size:        int64(len(data)),
		data:        data,
		createdAt:   time.Now().UTC(),
	}
}

// RestoreStoredObject rebuilds an object read back from the database. Listings pass nil data.
func RestoreStoredObject(id string, sequence int, key, contentType string, size int64, data []byte, createdAt time.Time) *StoredObject {
	return &StoredObject{id: id, sequence: sequence, key: key, contentType: contentType, size: size, data: data, createdAt: createdAt}
}

func (o *StoredObject) ID() string           { return o.id }
func (o *StoredObject) SetID(id string)      { o.id = id }
func (o *StoredObject) Sequence() int        { return o.sequence }
func (o *StoredObject) SetSequence(n int)    { o.sequence = n }
func (o *StoredObject) Key() string          { return o.key }
func (o *StoredObject) ContentType() string  { return o.contentType }
func (o *StoredObject) Data() []byte         { return o.data }
func (o *StoredObject) Size() int64          { return o.size }
func (o *StoredObject) CreatedAt() time.Time { return o.createdAt }

// Validate checks the object can be stored and served back.
func (o *StoredObject) Validate() error {
	if o.key == "" {
		return fmt.Errorf("object key is required")
	}
	if strings.Contains(o.key, "..") || strings.HasPrefix(o.key, "/") {
		return fmt.Errorf("object key %q is not a relative name", o.key)
	}
	if o.contentType == "" {
		return fmt.Errorf("content type is required")
	}
	return nil
}
