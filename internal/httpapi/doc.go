// Package httpapi holds the JSON request/response conventions shared by
// every handler package: strict decoding, the error envelope, and
// no-store response headers.
package httpapi
