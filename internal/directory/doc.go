// Package directory serves the user directory CRUD endpoints. It shares
// the principal store with the auth endpoints, so edits and deletions
// here are visible to live sessions on their next request.
package directory
