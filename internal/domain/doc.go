// Package domain defines the diary's core values shared by the server and
// the client: users and their settings, entries, moods and change events.
package domain
