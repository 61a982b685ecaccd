package instagram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	errs "igsaver/pkg/errors"
)

// Login authenticates with a password. When Instagram asks for a one-time
// code the returned error has type ErrorTypeTwoFactor and TwoFactorLogin
// must be called next.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if err := c.primeCSRF(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("enc_password", fmt.Sprintf("#PWD_INSTAGRAM_BROWSER:0:%d:%s", c.now().Unix(), password))
	form.Set("queryParams", "{}")
	form.Set("optIntoOneTap", "false")

	status, body, err := c.postForm(ctx, LoginEndpoint, form)
	if err != nil {
		return err
	}
	if status == http.StatusTooManyRequests {
		return &errs.Error{Type: errs.ErrorTypeRateLimit, Message: "too many login attempts", Code: status}
	}

	var resp loginResponse
	if err := c.unmarshal(body, status, &resp); err != nil {
		return err
	}

	switch {
	case resp.Authenticated:
		c.username = username
		c.userID = resp.UserID
		c.logger.WithField("username", username).Info("login succeeded")
		return nil
	case resp.TwoFactorRequired && resp.TwoFactorInfo != nil:
		c.twoFactorID = resp.TwoFactorInfo.Identifier
		c.pendingUser = username
		c.logger.WithField("username", username).Info("two-factor code required")
		return &errs.Error{Type: errs.ErrorTypeTwoFactor, Message: "two-factor authentication required", Code: status}
	case resp.CheckpointURL != "" || resp.Message == "checkpoint_required":
		return &errs.Error{Type: errs.ErrorTypeCheckpoint, Message: "login checkpoint required", Code: status}
	default:
		return &errs.Error{Type: errs.ErrorTypeBadCredentials, Message: "invalid username or password", Code: status}
	}
}

// TwoFactorLogin completes a login that returned ErrorTypeTwoFactor
func (c *Client) TwoFactorLogin(ctx context.Context, code string) error {
	if c.twoFactorID == "" {
		return errs.New(errs.ErrorTypeAuth, "no two-factor login in progress")
	}

	form := url.Values{}
	form.Set("username", c.pendingUser)
	form.Set("verificationCode", code)
	form.Set("identifier", c.twoFactorID)
	form.Set("queryParams", "{}")

	status, body, err := c.postForm(ctx, TwoFactorEndpoint, form)
	if err != nil {
		return err
	}

	var resp loginResponse
	if err := c.unmarshal(body, status, &resp); err != nil {
		return err
	}
	if !resp.Authenticated {
		return &errs.Error{Type: errs.ErrorTypeBadCredentials, Message: "invalid two-factor code", Code: status}
	}

	c.username = c.pendingUser
	c.userID = resp.UserID
	c.twoFactorID = ""
	c.pendingUser = ""
	return nil
}

// TestLogin probes the current session and returns the logged-in username
func (c *Client) TestLogin(ctx context.Context) (string, error) {
	var resp currentUserResponse
	if err := c.getJSON(ctx, CurrentUserEndpoint+"?edit=true", &resp); err != nil {
		return "", err
	}
	if resp.User.Username == "" {
		return "", errs.New(errs.ErrorTypeAuth, "session is not logged in")
	}

	c.username = resp.User.Username
	if resp.User.PK != "" {
		c.userID = resp.User.PK.String()
	}
	return c.username, nil
}

// primeCSRF loads the login page so the jar holds a csrftoken cookie
func (c *Client) primeCSRF(ctx context.Context) error {
	if c.cookie("csrftoken") != "" {
		return nil
	}

	req, err := c.newRequest(ctx, http.MethodGet, LoginPageEndpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if c.cookie("csrftoken") == "" {
		return &errs.Error{Type: errs.ErrorTypeAuth, Message: "could not obtain a CSRF token", Code: resp.StatusCode}
	}
	return nil
}
