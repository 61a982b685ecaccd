package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	errs "igsaver/pkg/errors"
	"igsaver/pkg/logger"
)

// Client represents an Instagram API client
type Client struct {
	httpClient *http.Client
	jar        http.CookieJar
	headers    map[string]string
	baseURL    string
	logger     logger.Logger

	deviceID    string
	username    string
	userID      string
	twoFactorID string
	pendingUser string

	now func() time.Time
}

// NewClient creates a new Instagram API client
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	// cookiejar.New only fails on a bad public suffix list
	jar, _ := cookiejar.New(nil)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
			// A redirect to the login page means the session is gone;
			// surface it instead of following it.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		jar: jar,
		headers: map[string]string{
			"User-Agent":       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			"Accept":           "*/*",
			"Accept-Language":  "en-US,en;q=0.9",
			"X-IG-App-ID":      AppID,
			"X-Requested-With": "XMLHttpRequest",
		},
		baseURL:  BaseURL,
		logger:   log,
		deviceID: strings.ToUpper(uuid.NewString()),
		now:      time.Now,
	}
}

// SetBaseURL points the client at another host
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(base, "/")
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Username returns the account the client is logged in as, if known
func (c *Client) Username() string {
	return c.username
}

// DeviceID returns the device id sent with every request
func (c *Client) DeviceID() string {
	return c.deviceID
}

func (c *Client) base() *url.URL {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		u, _ = url.Parse(BaseURL)
	}
	return u
}

// cookie returns the value of a cookie set for the base URL
func (c *Client) cookie(name string) string {
	for _, ck := range c.jar.Cookies(c.base()) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	if strings.HasPrefix(rawURL, "/") {
		rawURL = c.baseURL + rawURL
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Err:     err,
		}
	}
	return req, nil
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("X-Web-Device-Id", c.deviceID)
	req.Header.Set("Referer", c.baseURL+"/")
	if token := c.cookie("csrftoken"); token != "" {
		req.Header.Set("X-CSRFToken", token)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Err:     err,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, path string, target interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	return c.decode(resp, target)
}

// postForm sends a form and returns the status code and the raw body. Login
// endpoints answer 400 with a JSON body the caller needs to inspect, so the
// status is not checked here.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (int, []byte, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.doRequest(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
			Err:     err,
		}
	}
	return resp.StatusCode, body, nil
}

func (c *Client) decode(resp *http.Response, target interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
			Err:     err,
		}
	}
	return c.unmarshal(body, resp.StatusCode, target)
}

func (c *Client) unmarshal(body []byte, status int, target interface{}) error {
	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"status":       status,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    status,
			Err:     err,
		}
	}
	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	fields := map[string]interface{}{
		"status": code,
		"url":    resp.Request.URL.String(),
	}

	var message string
	errType := errs.FromStatusCode(code)
	switch {
	case code >= 300 && code < 400:
		errType = errs.ErrorTypeAuth
		message = "redirected to login, session is not valid"
		c.logger.WarnWithFields("unexpected redirect", fields)
	case errType == errs.ErrorTypeAuth:
		message = "authentication required"
		c.logger.WarnWithFields("authentication error", fields)
	case errType == errs.ErrorTypeNotFound:
		message = "resource not found"
		c.logger.WarnWithFields("resource not found", fields)
	case errType == errs.ErrorTypeRateLimit:
		message = "rate limit exceeded"
		c.logger.WarnWithFields("rate limit exceeded", fields)
	case errType == errs.ErrorTypeServerError:
		message = "server error"
		c.logger.ErrorWithFields("server error", fields)
	default:
		message = fmt.Sprintf("unexpected status code: %d", code)
		c.logger.ErrorWithFields("unexpected API error", fields)
	}

	return &errs.Error{Type: errType, Message: message, Code: code}
}
