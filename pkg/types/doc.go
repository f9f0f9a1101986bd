// Package types defines the question record, the Store interface its
// backends implement, the backend Config, and the standard errors shared by
// the server and the client.
package types
