// Package kv provides the persistent key-value store used by the client.
//
// Values are opaque text blobs keyed by string. The file-backed store keeps
// every key in a single JSON document (~/.local/state/remindme/store.json by
// default). Writes are serialized through file locking so that concurrent
// processes never interleave a read-modify-write cycle.
package kv
