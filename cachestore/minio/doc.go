// Package minio provides an S3-compatible cachestore.Store backed by the
// MinIO client. Use it when several engine instances should share one
// persistent cache.
package minio
