package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodiary/internal/client/state"
	"github.com/dmitrijs2005/moodiary/internal/common"
)

const keyLastEmail = "cli.last_email"

func (a *App) lastEmail(ctx context.Context) string {
	if a.local == nil {
		return ""
	}
	v, err := a.local.Get(ctx, keyLastEmail)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			a.logger.Warn(ctx, "reading last email failed", "error", err)
		}
		return ""
	}
	return v
}

func (a *App) rememberEmail(ctx context.Context, email string) {
	if a.local == nil {
		return
	}
	if err := a.local.Set(ctx, keyLastEmail, email); err != nil {
		a.logger.Warn(ctx, "saving last email failed", "error", err)
	}
}

// Register prompts for the sign-up form. Validation happens in the session
// so mistakes are reported before anything is sent.
func (a *App) Register(ctx context.Context, _ []string) error {
	var (
		r   state.Registration
		err error
	)

	if r.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if r.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if r.Password, err = getPassword("Password", a.out); err != nil {
		return err
	}
	if r.ConfirmPassword, err = getPassword("Confirm password", a.out); err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	if a.state.Session.Register(ctx, r) {
		a.rememberEmail(ctx, r.Email)
	}
	return nil
}

// Login takes the email as an argument or prompts for it, offering the one
// used last time as the default.
func (a *App) Login(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		prompt := "Email"
		last := a.lastEmail(ctx)
		if last != "" {
			prompt = fmt.Sprintf("Email [%s]", last)
		}
		var err error
		if email, err = getSimpleText(a.reader, prompt, a.out); err != nil {
			return err
		}
		if email == "" {
			email = last
		}
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	if a.state.Session.Login(ctx, email, password) {
		a.rememberEmail(ctx, email)
	}
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	a.state.Session.Logout(ctx)
	return nil
}
