// Package crunchyroll implements the subset of the Crunchyroll private API
// the aggregator needs: credential login, watch-history paging, and media
// object lookup.
package crunchyroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"watchtally/models"
)

// Public OAuth client credential the web player uses for the password grant.
const (
	oauthClientID     = "noaihdevm_6iyg0a8l0q"
	oauthClientSecret = "xsni8qElcyJAY0y0taOTGFg2W3kGIbnS"
)

const retryDelay = 500 * time.Millisecond

// ErrAuthFailed reports rejected credentials during login.
var ErrAuthFailed = errors.New("authentication failed")

// Client handles Crunchyroll API interactions for login and data fetching.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	retryAttempts uint
	deviceID      string

	accessToken string
	accountID   string
}

// NewClient creates a new Crunchyroll API client. A nil httpc falls back to
// a client with a 30 second timeout.
func NewClient(baseURL string, httpc *http.Client, retryAttempts int) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	if retryAttempts < 1 {
		retryAttempts = 1
	}
	return &Client{
		httpClient:    httpc,
		baseURL:       strings.TrimRight(baseURL, "/"),
		retryAttempts: uint(retryAttempts),
		deviceID:      uuid.NewString(),
	}
}

// apiError is a non-2xx response from the provider.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("crunchyroll api: status %d - %s", e.Status, e.Body)
}

// tokenResponse represents the response from /auth/v1/token.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	Country      string `json:"country"`
	AccountID    string `json:"account_id"`
}

// profileResponse represents the response from /accounts/v1/me.
type profileResponse struct {
	AccountID  string `json:"account_id"`
	ExternalID string `json:"external_id"`
}

// Login authenticates with account credentials and stores the bearer token
// for subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{
		"grant_type":  {"password"},
		"username":    {username},
		"password":    {password},
		"scope":       {"offline_access"},
		"device_id":   {c.deviceID},
		"device_type": {"watchtally"},
	}

	var token tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		form:   form,
	}, &token)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 &&
			apiErr.Status != http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", ErrAuthFailed, apiErr.Body)
		}
		return fmt.Errorf("login: %w", err)
	}

	c.accessToken = token.AccessToken
	c.accountID = token.AccountID

	if c.accountID == "" {
		var profile profileResponse
		if err := c.do(ctx, request{method: http.MethodGet, path: "/accounts/v1/me", authed: true}, &profile); err != nil {
			return fmt.Errorf("fetch account profile: %w", err)
		}
		c.accountID = profile.AccountID
	}

	return nil
}

// mediaObjectsResponse represents the response from /content/v2/cms/objects.
type mediaObjectsResponse struct {
	Total int         `json:"total"`
	Data  []mediaItem `json:"data"`
}

// MediaCollectionFromID resolves a media id to a tagged media collection.
func (c *Client) MediaCollectionFromID(ctx context.Context, id string) (*models.MediaCollection, error) {
	var resp mediaObjectsResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/content/v2/cms/objects/" + url.PathEscape(id),
		authed: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("media object %s: %w", id, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("media object %s: empty response", id)
	}
	return resp.Data[0].toCollection(), nil
}

// request describes a single API call. Requests are rebuilt per retry
// attempt so form bodies stay readable.
type request struct {
	method string
	path   string
	query  url.Values
	form   url.Values
	authed bool
}

// do executes a request with retries on transient failures and decodes the
// JSON response into out.
func (c *Client) do(ctx context.Context, r request, out any) error {
	return retry.Do(
		func() error {
			req, err := c.newRequest(ctx, r)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("crunchyroll api request: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				respBody, _ := io.ReadAll(resp.Body)
				apiErr := &apiError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
				if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
					return apiErr
				}
				return retry.Unrecoverable(apiErr)
			}

			if out == nil {
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
			}
			return nil
		},
		retry.Attempts(c.retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.form != nil {
		body = strings.NewReader(r.form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if r.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetBasicAuth(oauthClientID, oauthClientSecret)
	}
	if r.authed {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	return req, nil
}
