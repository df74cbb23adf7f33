package state

import (
	"errors"

	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/common"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Toast is a short user-facing notification.
type Toast struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(t Toast)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(Toast)

func (f NotifierFunc) Notify(t Toast) { f(t) }

type nopNotifier struct{}

func (nopNotifier) Notify(Toast) {}

func success(n Notifier, msg string) { n.Notify(Toast{Level: LevelSuccess, Message: msg}) }
func failure(n Notifier, msg string) { n.Notify(Toast{Level: LevelError, Message: msg}) }

// describe turns a client error into a message fit for a toast.
func describe(err error, fallback string) string {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return err.Error()
	case errors.Is(err, client.ErrUnavailable):
		return "service unavailable, try again later"
	case errors.Is(err, client.ErrUnauthorized):
		return "session expired, please log in again"
	case errors.Is(err, common.ErrorNotFound):
		return "entry not found"
	default:
		return fallback
	}
}
