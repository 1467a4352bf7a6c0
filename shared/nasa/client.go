// Package nasa provides a client for the Astronomy Picture of the Day API.
package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dfryer1193/apodwall/wallpaper/domain"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://api.nasa.gov/planetary/apod"
	DefaultAPIKey  = "DEMO_KEY"

	userAgent = "apodwall"
)

var _ domain.PictureSource = (*Client)(nil)

// Client talks to the APOD API and downloads the images it points at.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new APOD client. A zero timeout leaves requests bounded only by ctx.
func NewClient(baseURL string, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiKey == "" {
		apiKey = DefaultAPIKey
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("client", "apod").Logger(),
	}
}

// apiError is the body the API returns alongside non-200 statuses.
type apiError struct {
	Msg   string `json:"msg"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e apiError) message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Error.Message
}

// statusError is returned for any response that is not 200 OK.
type statusError struct {
	StatusCode int
	Message    string
}

func (e *statusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// FetchPicture retrieves the picture metadata for date (YYYY-MM-DD).
// An empty date asks the API for the current day.
func (c *Client) FetchPicture(ctx context.Context, date string) (*domain.Picture, error) {
	op := fmt.Sprintf("fetching picture for %s", displayDate(date))

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, domain.NewError(domain.KindInvalidArgument, op, fmt.Errorf("invalid base url: %w", err))
	}

	q := endpoint.Query()
	q.Set("api_key", c.apiKey)
	if date != "" {
		q.Set("date", date)
	}
	endpoint.RawQuery = q.Encode()

	c.log.Debug().Str("date", date).Str("url", c.baseURL).Msg("Fetching picture metadata")

	body, err := c.get(ctx, endpoint.String())
	if err != nil {
		return nil, handleAPIError(op, err)
	}
	defer body.Close()

	var picture domain.Picture
	if err := json.NewDecoder(body).Decode(&picture); err != nil {
		return nil, domain.NewError(domain.KindParseFailure, op, fmt.Errorf("failed to decode response: %w", err))
	}

	if picture.URL == "" {
		return nil, domain.Errorf(domain.KindParseFailure, op, "response has no url field")
	}

	c.log.Info().
		Str("date", picture.Date).
		Str("title", picture.Title).
		Str("media_type", picture.MediaType).
		Msg("Fetched picture metadata")

	return &picture, nil
}

// Download fetches the raw bytes at imageURL.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	op := fmt.Sprintf("downloading %s", imageURL)

	body, err := c.get(ctx, imageURL)
	if err != nil {
		return nil, handleAPIError(op, err)
	}
	defer body.Close()

	content, err := io.ReadAll(body)
	if err != nil {
		return nil, domain.NewError(domain.KindNetworkFailure, op, fmt.Errorf("failed to read body: %w", err))
	}

	c.log.Debug().Str("url", imageURL).Int("bytes", len(content)).Msg("Downloaded image")

	return content, nil
}

// get issues a GET and returns the body of a 200 response. Other statuses
// are drained into a *statusError.
func (c *Client) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var apiErr apiError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &apiErr)
		return nil, &statusError{StatusCode: resp.StatusCode, Message: apiErr.message()}
	}

	return resp.Body, nil
}

// handleAPIError classifies transport and status failures as network failures.
func handleAPIError(op string, err error) error {
	if err == nil {
		return nil
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return domain.NewError(domain.KindParseFailure, op, err)
	}

	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return domain.NewError(domain.KindNetworkFailure, "apod: "+op, statusErr)
	}

	return domain.NewError(domain.KindNetworkFailure, "apod: "+op, err)
}

func displayDate(date string) string {
	if date == "" {
		return "today"
	}
	return date
}
