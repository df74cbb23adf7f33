// Package client contains the client-side transport to the diary backend.
//
// The package provides:
//  1. The Client interface, the single collaborator the state layer talks
//     to: authentication, profile settings, entry CRUD, archive and the
//     realtime change subscription.
//  2. GRPCClient, which injects the public service key and the access token
//     into every call, transparently refreshes an expired access token once
//     and maps gRPC status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) and a
//     TokenStore that keeps the session in the SQLite metadata table.
//
// # Error Handling
//
// Remote failures are reported as ErrUnavailable, ErrUnauthorized,
// common.ErrorNotFound, common.ErrorAlreadyExists or a validation error
// wrapping common.ErrorValidation; match them with errors.Is.
package client
