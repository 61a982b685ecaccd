package instagram

import (
	"encoding/json"
	"fmt"
	"net/http"

	errs "igsaver/pkg/errors"
)

type sessionCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type sessionState struct {
	Username string          `json:"username"`
	UserID   string          `json:"user_id,omitempty"`
	DeviceID string          `json:"device_id"`
	Cookies  []sessionCookie `json:"cookies"`
}

// ExportSession serializes the cookies and identity of the client. The
// result is opaque to callers.
func (c *Client) ExportSession() ([]byte, error) {
	state := sessionState{
		Username: c.username,
		UserID:   c.userID,
		DeviceID: c.deviceID,
	}
	for _, ck := range c.jar.Cookies(c.base()) {
		state.Cookies = append(state.Cookies, sessionCookie{Name: ck.Name, Value: ck.Value})
	}
	if len(state.Cookies) == 0 {
		return nil, errs.New(errs.ErrorTypeAuth, "no session cookies to export")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return data, nil
}

// ImportSession restores a blob produced by ExportSession
func (c *Client) ImportSession(data []byte) error {
	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return errs.Wrap(errs.ErrorTypeParsing, err, "failed to parse session")
	}
	if len(state.Cookies) == 0 {
		return errs.New(errs.ErrorTypeParsing, "session contains no cookies")
	}

	cookies := make([]*http.Cookie, 0, len(state.Cookies))
	for _, ck := range state.Cookies {
		cookies = append(cookies, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"})
	}
	c.jar.SetCookies(c.base(), cookies)

	c.username = state.Username
	c.userID = state.UserID
	if state.DeviceID != "" {
		c.deviceID = state.DeviceID
	}
	return nil
}
