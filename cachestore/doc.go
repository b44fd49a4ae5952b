// Package cachestore provides pluggable persistence backends for the
// engine's caches.
//
// The default backend is LocalStore, which keeps one file per entry under a
// root directory. MemoryStore exists for tests. An S3-compatible backend for
// shared deployments lives in the minio subpackage.
//
// Cache writes are best-effort by contract: callers log and swallow Put
// failures, so a backend outage degrades to slower (remote) reads rather
// than query failures.
package cachestore
