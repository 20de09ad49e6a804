// Package google_tools provides MCP tools for signing in with Google.
//
// The signed-in account's e-mail address becomes the task owner when no
// fixed owner is configured, and the firestore backend uses the same token.
//
// The OAuth flow:
//  1. Call google_get_auth_url to get the authorization URL
//  2. The user visits the URL, authorizes access and copies the code
//  3. Call google_save_auth_code with the code to store the token
//  4. Call google_whoami to check which owner tasks are attributed to
//
// google_save_auth_code writes a token file and is only registered when the
// server is not read-only.
package google_tools
