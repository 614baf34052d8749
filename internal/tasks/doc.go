// Package tasks runs batch photo operations against a [book.Book] with real-time progress reporting.
//
// # Operations
//
//  1. [BulkUploader.Run] : upload many files
//     - Expands directories and sorts paths naturally ("img2" before "img10")
//     - Uploads through a rate-limited worker pool
//     - Skips files the book rejects as non-images; aggregates storage failures
//
//  2. [Watcher.Run] : upload files as they appear in a directory
//     - Waits for writes to settle before uploading
//     - Uploads each path at most once per run
//
// # Progress Reporting
//
// Both operations send [ProgressUpdate] values over a caller-owned channel. Sends never block:
// when the channel is full the update is dropped.
package tasks
