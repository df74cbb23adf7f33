// Package state holds the client-side application state of the diary: the
// signed-in user, the display preferences and the entry list kept in sync
// with the server's change feed.
//
// Operations never return errors to the presentation layer. Failures are
// logged, reported through a Notifier and signalled with a false result.
package state
