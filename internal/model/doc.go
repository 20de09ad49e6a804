// Package model defines the records shared by the stores and the remote
// backends: tasks, categories and the partial updates applied to tasks.
//
// It also owns the error taxonomy used across the application:
//   - ValidationError: a required field is missing or malformed; raised before
//     any backend call is attempted
//   - TransportError: a backend call was rejected or the network failed
//   - NotFoundError: an update or delete referenced an id the backend does
//     not know
//
// All three work with errors.As, and NotFoundError also matches ErrNotFound
// through errors.Is.
package model
