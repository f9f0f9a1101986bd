// Package session holds the client side of quizbank: the record cache that
// owns the question list for one session, the projector that derives the
// filtered and paginated view from it, and the bridge that loads and saves
// the cache through the backend's record API.
package session
