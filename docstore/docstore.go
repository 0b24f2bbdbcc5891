// Package docstore provides document stores for the wallet ledger.
//
// A store holds JSON documents addressed by a collection and an id, scoped to
// one account at construction. Memory and SQLite stores apply multi-document
// writes atomically with Batch; the Dir store does not, and callers fall back
// to sequential writes.
package docstore

import "errors"

// ErrNotFound is returned by Get for a missing document.
var ErrNotFound = errors.New("document not found")

// Write is one change of a batch. A nil Doc deletes the document.
type Write struct {
	Collection string
	ID         string
	Doc        []byte
}

// Put returns a write storing doc.
func Put(collection, id string, doc []byte) Write {
	return Write{Collection: collection, ID: id, Doc: doc}
}

// Remove returns a write deleting a document.
func Remove(collection, id string) Write {
	return Write{Collection: collection, ID: id}
}

// IsDelete reports whether w deletes its document.
func (w Write) IsDelete() bool { return w.Doc == nil }
