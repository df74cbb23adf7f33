// Package config loads runtime settings for the moodiary CLI client.
//
// Values are layered: built-in defaults, then environment variables (a
// dotenv file is read first), then an optional JSON file given with -c or
// -config, then command-line flags. Later layers win.
//
// The service URL and the public service key are required. When either is
// missing a placeholder is substituted and a warning is recorded in
// Config.Warnings, so the client starts but every remote call fails visibly.
package config
