package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/litescript/ls-exohunter/internal/logging"
)

const (
	// DefaultBaseURL is the public Exoplanet Hunter API.
	DefaultBaseURL = "https://exoplanethunter.com/api"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit and DefaultRateBurst pace requests to the API.
	DefaultRateLimit = 5.0 // requests per second
	DefaultRateBurst = 5
)

// Endpoint labels used in logs and metrics.
const (
	EndpointStars     = "stars"
	EndpointStar      = "star"
	EndpointPlanets   = "planets"
	EndpointHabitable = "habitable"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("not found")

// Recorder receives one observation per request.
type Recorder interface {
	RecordRequest(endpoint string, status int, d time.Duration)
}

// Client talks to the catalog API.
type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	metrics Recorder
	logger  *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the API base URL, e.g. "http://localhost:8080/api".
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithRateLimit paces requests to perSecond with the given burst. A
// non-positive rate disables pacing.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithMetrics records every request on r.
func WithMetrics(r Recorder) ClientOption {
	return func(c *Client) {
		c.metrics = r
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new catalog client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateBurst),
		logger:  logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchStars returns every star in the catalog.
func (c *Client) FetchStars(ctx context.Context) ([]Star, error) {
	var stars []Star
	if err := c.getJSON(ctx, EndpointStars, "/Stars", &stars); err != nil {
		return nil, fmt.Errorf("fetch stars: %w", err)
	}
	return stars, nil
}

// FetchStar returns one star by ID.
func (c *Client) FetchStar(ctx context.Context, id int) (Star, error) {
	var star Star
	if err := c.getJSON(ctx, EndpointStar, fmt.Sprintf("/Stars/%d", id), &star); err != nil {
		return Star{}, fmt.Errorf("fetch star %d: %w", id, err)
	}
	return star, nil
}

// FetchPlanets returns the planets orbiting the star with the given ID.
func (c *Client) FetchPlanets(ctx context.Context, starID int) ([]Planet, error) {
	var planets []Planet
	path := fmt.Sprintf("/ExoSolarSystems/GetPlanetsByStarId/%d", starID)
	if err := c.getJSON(ctx, EndpointPlanets, path, &planets); err != nil {
		return nil, fmt.Errorf("fetch planets of star %d: %w", starID, err)
	}
	return planets, nil
}

// FetchHabitablePlanets returns the potentially habitable planets.
func (c *Client) FetchHabitablePlanets(ctx context.Context) ([]HabitablePlanet, error) {
	var planets []HabitablePlanet
	if err := c.getJSON(ctx, EndpointHabitable, "/ExoSolarSystems/GetHabitablePlanets", &planets); err != nil {
		return nil, fmt.Errorf("fetch habitable planets: %w", err)
	}
	return planets, nil
}

// FetchSystem loads a star and its planets.
func (c *Client) FetchSystem(ctx context.Context, starID int) (*System, error) {
	star, err := c.FetchStar(ctx, starID)
	if err != nil {
		return nil, err
	}

	planets, err := c.FetchPlanets(ctx, starID)
	if err != nil {
		return nil, err
	}

	return &System{Star: star, Planets: planets}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, v any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	start := time.Now()
	status, body, err := c.get(ctx, path)
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.RecordRequest(endpoint, status, elapsed)
	}
	c.logger.Debug("catalog request", "endpoint", endpoint, "path", path, "status", status, "duration", elapsed)

	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "ls-exohunter/1.0 (Exoplanet Catalog Viewer)")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}
