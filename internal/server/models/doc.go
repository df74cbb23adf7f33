// Package models defines server-side data models persisted in PostgreSQL.
package models
