// Package auth runs the interactive login: it reuses a stored session when
// one is still valid and otherwise asks for a password and, when Instagram
// requires it, a two-factor code. Passwords are never written to disk.
package auth

import (
	"context"
	"strings"

	errs "igsaver/pkg/errors"
	"igsaver/pkg/logger"
	"igsaver/pkg/session"
)

// Console messages
const (
	MsgAuthRequired      = "AUTHENTICATION REQUIRED"
	MsgPasswordNotSaved  = "Your password will NOT be saved to any file."
	MsgTokenSaved        = "Only a temporary session token will be stored."
	MsgSessionExpired    = "Session has expired, new authentication required"
	MsgLoginSuccess      = "Session started and saved successfully"
	MsgNoPasswordNeeded  = "Future runs won't require password entry"
	MsgTwoFactorDetected = "Two-factor authentication detected"

	ErrUsernameRequired   = "Username is required"
	ErrPasswordEmpty      = "Password cannot be empty"
	ErrInvalidCredentials = "Invalid credentials"
	ErrCodeEmpty          = "2FA code cannot be empty"
	ErrInvalidCode        = "Invalid 2FA code"
	ErrCheckpoint         = "Login checkpoint required, confirm the login in the Instagram app and retry"
)

// Client is the part of the Instagram client the login flow drives
type Client interface {
	Login(ctx context.Context, username, password string) error
	TwoFactorLogin(ctx context.Context, code string) error
	TestLogin(ctx context.Context) (string, error)
	ExportSession() ([]byte, error)
	ImportSession(data []byte) error
}

// Authenticator logs a client in, preferring a saved session
type Authenticator struct {
	client Client
	store  session.Store
	prompt Prompter
	logger logger.Logger
}

// NewAuthenticator creates an Authenticator. store may be nil, in which
// case every run asks for a password.
func NewAuthenticator(client Client, store session.Store, prompt Prompter, log logger.Logger) *Authenticator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Authenticator{
		client: client,
		store:  store,
		prompt: prompt,
		logger: log,
	}
}

// Authenticate returns the logged-in username. An empty username is asked
// for interactively.
func (a *Authenticator) Authenticate(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		input, err := a.prompt.Username()
		if err != nil {
			return "", errs.Wrap(errs.ErrorTypeAuth, err, "failed to read username")
		}
		username = strings.TrimSpace(input)
	}
	if username == "" {
		return "", errs.New(errs.ErrorTypeAuth, ErrUsernameRequired)
	}

	log := a.logger.WithField("username", username)

	if name, ok := a.resumeSession(ctx, username, log); ok {
		return name, nil
	}

	if err := a.loginWithPassword(ctx, username, log); err != nil {
		return "", err
	}

	a.saveSession(username, log)
	return username, nil
}

func (a *Authenticator) resumeSession(ctx context.Context, username string, log logger.Logger) (string, bool) {
	if a.store == nil || !a.store.Exists(username) {
		return "", false
	}

	a.prompt.Info("Loading saved session for " + username + "...")

	data, err := a.store.Load(username)
	if err == nil {
		err = a.client.ImportSession(data)
	}
	if err != nil {
		log.WithError(err).Warn("could not load session")
		a.prompt.Warning("Could not load session: " + errs.MessageOf(err))
		return "", false
	}

	name, err := a.client.TestLogin(ctx)
	if err != nil {
		log.WithError(err).Warn("session validation failed")
		a.prompt.Warning(MsgSessionExpired)
		return "", false
	}

	a.prompt.Success("Session loaded for " + name)
	log.Info("authenticated using saved session")
	return name, true
}

func (a *Authenticator) loginWithPassword(ctx context.Context, username string, log logger.Logger) error {
	a.prompt.Notice(MsgAuthRequired, MsgPasswordNotSaved, MsgTokenSaved)

	password, err := a.prompt.Password(username)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeAuth, err, "failed to read password")
	}
	if password == "" {
		return errs.New(errs.ErrorTypeAuth, ErrPasswordEmpty)
	}

	a.prompt.Info("Logging in as " + username + "...")
	err = a.client.Login(ctx, username, password)

	switch {
	case err == nil:
		log.Info("logged in with password")
		return nil
	case errs.IsType(err, errs.ErrorTypeTwoFactor):
		log.Info("two-factor code requested")
		return a.loginWithCode(ctx, log)
	case errs.IsType(err, errs.ErrorTypeBadCredentials):
		log.Error("invalid credentials")
		return &errs.Error{Type: errs.ErrorTypeBadCredentials, Message: ErrInvalidCredentials, Err: err}
	case errs.IsType(err, errs.ErrorTypeCheckpoint):
		log.Error("login checkpoint required")
		return &errs.Error{Type: errs.ErrorTypeCheckpoint, Message: ErrCheckpoint, Err: err}
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		log.WithError(err).Error("login failed")
		return &errs.Error{Type: errs.ErrorTypeAuth, Message: "Login error: " + errs.MessageOf(err), Err: err}
	}
}

func (a *Authenticator) loginWithCode(ctx context.Context, log logger.Logger) error {
	a.prompt.Info(MsgTwoFactorDetected)

	code, err := a.prompt.TwoFactorCode()
	if err != nil {
		return errs.Wrap(errs.ErrorTypeTwoFactor, err, "failed to read 2FA code")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.New(errs.ErrorTypeTwoFactor, ErrCodeEmpty)
	}

	a.prompt.Info("Authenticating with 2FA code...")
	err = a.client.TwoFactorLogin(ctx, code)

	switch {
	case err == nil:
		log.Info("logged in with two-factor code")
		return nil
	case errs.IsType(err, errs.ErrorTypeBadCredentials):
		return &errs.Error{Type: errs.ErrorTypeTwoFactor, Message: ErrInvalidCode, Err: err}
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		log.WithError(err).Error("two-factor login failed")
		return &errs.Error{Type: errs.ErrorTypeTwoFactor, Message: "2FA error: " + errs.MessageOf(err), Err: err}
	}
}

// saveSession stores the fresh session. Failures only cost the next run a
// password prompt, so they are reported as warnings.
func (a *Authenticator) saveSession(username string, log logger.Logger) {
	if a.store == nil {
		return
	}

	data, err := a.client.ExportSession()
	if err == nil {
		err = a.store.Save(username, data)
	}
	if err != nil {
		log.WithError(err).Warn("could not save session")
		a.prompt.Warning("Could not save session: " + errs.MessageOf(err))
		return
	}

	a.prompt.Success(MsgLoginSuccess)
	a.prompt.Success(MsgNoPasswordNeeded)
}
