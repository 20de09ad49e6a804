// Package store holds the in-memory task and category collections and keeps
// them consistent with a remote.Service.
//
// Mutations are confirmed: the backend call is made first and the local
// collection changes only when it succeeds. SetCompleted is the exception.
// It flips the local record immediately and keeps the flip when the write
// fails, marking the record unsynced until the next successful load replaces
// the collection.
//
// Every operation returns its error to the caller and also logs it. Nothing
// is retried. Stores are safe for concurrent use and never hold their lock
// across a remote call.
package store
