// Package firestore is a remote.Service backed by Cloud Firestore.
//
// Tasks and categories live in the "tasks" and "categories" collections, one
// document per record, using the same field names as the mobile client:
//
//	tasks/{id}       title, description, completed, time, categoryId, priority, userEmail
//	categories/{id}  title, color, icon
//
// Lists are returned in document creation order.
//
// # Authentication
//
// The client authenticates with a stored Google OAuth token when
// Config.Account is set, and with Application Default Credentials otherwise.
// When FIRESTORE_EMULATOR_HOST is set the client talks to the emulator
// without credentials.
package firestore
