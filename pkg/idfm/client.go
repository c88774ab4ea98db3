package idfm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/idfmboard/idfmboard/pkg/util"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://api-iv.iledefrance-mobilites.fr"

const defaultUserAgent = "idfmboard/1.0"

var ErrUnrecognisedResponse = errors.New("unrecognised response")

// FetchError is returned for anything that stops an endpoint from giving usable data: a transport failure,
// a non success status or a payload that cannot be decoded
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("fetch %s: HTTP %d", e.Endpoint, e.StatusCode)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("fetch %s: %s", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
		UserAgent:  defaultUserAgent,
	}
}

// NewClientFromEnvironment honours IDFMBOARD_API_URL
func NewClientFromEnvironment() *Client {
	env := util.GetEnvironmentVariables()

	return NewClient(env["IDFMBOARD_API_URL"])
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	requestURL := c.BaseURL + endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("body", util.TrimString(string(body), 200)).
			Msg("Upstream returned an error status")

		return nil, &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	return body, nil
}
