// Package blobstore abstracts the storage backends that hold search-tree
// checkpoints: an in-memory map for tests, a local directory, and
// S3-compatible object stores (see the s3 and minio subpackages).
//
// Checkpoints are immutable once written, so the interface is write-once:
// Put replaces a blob atomically, Open returns a random-access reader.
package blobstore
