// Package common contains shared constants, sentinel errors and small helpers
// used by both the moodiary server and client.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// APIKeyHeaderName is the gRPC metadata key carrying the public service key
// every client must present.
const APIKeyHeaderName = "apikey"

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6
