package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// CTJSON represents JSON content type.
	CTJSON = "application/json"

	BearerPrefix = "Bearer "

	extensionPrefix = "/api/v1alpha1"
	consolePrefix   = "/apis/api.console.halo.run/v1alpha1"
)

var (
	// ErrFailedList indicates that listing users failed.
	ErrFailedList = errors.New("failed to list users")

	// ErrFailedFetch indicates that fetching a single entity failed.
	ErrFailedFetch = errors.New("failed to fetch entity")

	// ErrFailedCreation indicates that user creation failed.
	ErrFailedCreation = errors.New("failed to create user")

	// ErrFailedUpdate indicates that a user update failed.
	ErrFailedUpdate = errors.New("failed to update user")

	// ErrFailedRemoval indicates that user removal failed.
	ErrFailedRemoval = errors.New("failed to remove user")
)

// Error is a non-2xx response from the API
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// StatusCode extracts the HTTP status of err, or 0 when it did not come from a response
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// Options configures a Client
type Options struct {
	BaseURL    string
	Username   string
	Password   string
	Token      string
	Timeout    time.Duration
	Debug      bool
	HTTPClient *http.Client
}

// Client talks to the console REST API
type Client struct {
	baseURL  string
	username string
	password string
	token    string
	debug    bool
	client   *http.Client
}

// New creates an API client
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		username: opts.Username,
		password: opts.Password,
		token:    opts.Token,
		debug:    opts.Debug,
		client:   httpClient,
	}
}

// processRequest sends a request and returns the body when the status is one of expected
func (c *Client) processRequest(ctx context.Context, method, endpoint string, query url.Values, payload interface{}, expected ...int) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	reqURL := c.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", CTJSON)
	if payload != nil {
		req.Header.Set("Content-Type", CTJSON)
	}
	if c.token != "" {
		req.Header.Set("Authorization", BearerPrefix+c.token)
	} else if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	if c.debug {
		log.Printf("API: %s %s", method, reqURL)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkError(resp, expected...); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

// checkError matches the response status against the expected codes and
// turns anything else into an *Error carrying the server's message.
func checkError(resp *http.Response, expected ...int) error {
	for _, code := range expected {
		if resp.StatusCode == code {
			return nil
		}
	}

	apiErr := &Error{StatusCode: resp.StatusCode}
	var content map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&content); err == nil {
		for _, key := range []string{"detail", "title", "message", "error"} {
			if v, ok := content[key].(string); ok && v != "" {
				apiErr.Message = v
				break
			}
		}
	}
	return apiErr
}
