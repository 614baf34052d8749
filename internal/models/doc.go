// Package models defines domain entities for the photobook.
//
// The package contains two categories of types:
//
// 1. Catalog values: immutable records shown in the book
//   - [PhotoRecord] : one photo in the catalog
//   - [Category] : a chapter filter; [CategoryAll] is synthetic and means "no filter"
//
// 2. Persistent entities: database-backed models for the local object store
//   - [StoredObject] : an uploaded blob with its content type and size
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines the data access operations for them.
package models
