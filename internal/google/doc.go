// Package google handles Google OAuth2 tokens for uptodo.
//
// Tokens are stored per account as JSON under the user's cache directory
// (<cache>/uptodo/google-<account>.token) and are refreshed transparently.
// They authorize the Firestore backend and the userinfo lookup that
// UserInfoOwner uses to resolve the current owner's e-mail address.
//
// The OAuth client registration comes from GOOGLE_CLIENT_ID and
// GOOGLE_CLIENT_SECRET.
package google
