package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/routinelog/internal/auth"
	"github.com/julianstephens/routinelog/internal/constants"
	apperrors "github.com/julianstephens/routinelog/internal/errors"
	"github.com/julianstephens/routinelog/internal/storage"
	"github.com/julianstephens/routinelog/internal/tracker"
	"github.com/julianstephens/routinelog/internal/utils"
)

type Context struct {
	Ctx     context.Context
	Store   storage.Provider
	Tracker *tracker.Client
	Auth    *auth.Service
	Now     func() time.Time

	// Interactive enables huh prompts for missing secrets and confirmations.
	Interactive bool
}

// Connect opens the provider through the tracker client.
func (c *Context) Connect() error {
	return c.Tracker.Connect(c.Ctx)
}

// RequireUser returns the signed-in user, with a user-facing message for
// identity errors.
func (c *Context) RequireUser() (auth.User, error) {
	user, err := c.Auth.CurrentUser()
	if err != nil {
		return auth.User{}, AuthFailure(err)
	}
	return user, nil
}

// Today returns the local date as YYYY-MM-DD.
func (c *Context) Today() string {
	return utils.FormatDate(c.Clock())
}

// Clock returns the current time, honouring an injected clock.
func (c *Context) Clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// AuthFailure turns an identity error into its user-facing message while
// keeping the code reachable with errors.As.
func AuthFailure(err error) error {
	if apperrors.AuthCodeOf(err) == "" {
		return err
	}
	return fmt.Errorf("%s: %w", apperrors.AuthMessage(err), err)
}

// ResolveDate normalizes a date flag, defaulting to today.
func (c *Context) ResolveDate(date string) (string, error) {
	if date == "" {
		return c.Today(), nil
	}
	return utils.NormalizeDate(date)
}

// ResolveMonth parses YYYY-MM, defaulting to the current month.
func (c *Context) ResolveMonth(month string) (int, time.Month, error) {
	if month == "" {
		now := c.Clock()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", month, err)
	}
	return t.Year(), t.Month(), nil
}

// Secret returns value, or prompts for it when empty and interactive.
func (c *Context) Secret(value, title string) (string, error) {
	if value != "" {
		return value, nil
	}
	if !c.Interactive {
		return "", errors.New("a password is required (use --password)")
	}
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if len(s) < constants.MinSecretLength {
						return fmt.Errorf("password must be at least %d characters", constants.MinSecretLength)
					}
					return nil
				}).
				Value(&value),
		),
	).WithTheme(huh.ThemeBase()).Run()
	if err != nil {
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	return value, nil
}

// Confirm asks a yes/no question. Non-interactive runs need yes to be set.
func (c *Context) Confirm(title string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !c.Interactive {
		return false, errors.New("confirmation required (use --yes)")
	}
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeBase()).Run()
	if err != nil {
		return false, fmt.Errorf("interactive form error: %w", err)
	}
	return ok, nil
}

// JoinNonEmpty joins the non-blank parts with sep.
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
