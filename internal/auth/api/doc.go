// Package authapi wires the signup/login/logout/me HTTP endpoints to the
// auth strategy registry and session manager. The session id travels in
// an HttpOnly cookie; a bearer token is accepted as an alternative
// transport for non-browser clients.
package authapi
