package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/sfoudy/golf-sweepstakes/internal/golf"
)

var (
	// ErrUpstreamUnavailable covers everything that stops us reading the
	// feed: transport failure, timeout, non-2xx status, malformed JSON.
	ErrUpstreamUnavailable = errors.New("upstream scoreboard unavailable")
	// ErrUpstreamDataInvalid means the body parsed but does not carry the
	// expected top-level events collection.
	ErrUpstreamDataInvalid = errors.New("upstream scoreboard data invalid")
)

const userAgent = "golf-sweepstakes/1.0 (+https://github.com/sfoudy/golf-sweepstakes)"

// ESPNClient fetches live tournament scoreboards from ESPN's public golf API.
// It performs exactly one request per call; retry policy belongs to the
// caller. A circuit breaker sits in front so a dead upstream fails fast
// instead of burning the request timeout over and over.
type ESPNClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// NewESPNClient creates a scoreboard client with the given request timeout.
func NewESPNClient(timeout time.Duration, logger *logrus.Logger) *ESPNClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "espn-scoreboard",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Well past the retry budget of a single cache refresh, so the
			// breaker only trips when the upstream is down across refreshes.
			return counts.ConsecutiveFailures >= 10
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &ESPNClient{
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

// Raw feed structures. ESPN nests rounds and groupings as
// events -> competitions -> competitors; field types vary between string
// and number across tournaments, hence flexString.

type scoreboard struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Competitions []scoreboardCompetition `json:"competitions"`
}

type scoreboardCompetition struct {
	ID          string                 `json:"id"`
	Competitors []scoreboardCompetitor `json:"competitors"`
}

type scoreboardCompetitor struct {
	Athlete    scoreboardAthlete `json:"athlete"`
	Score      flexString        `json:"score"`
	Status     competitorStatus  `json:"status"`
	Linescores []competitorLine  `json:"linescores"`
	Statistics []competitorStat  `json:"statistics"`
}

type scoreboardAthlete struct {
	DisplayName string `json:"displayName"`
}

type competitorStatus struct {
	Position struct {
		DisplayValue string `json:"displayValue"`
	} `json:"position"`
	Thru flexString `json:"thru"`
}

type competitorLine struct {
	Value flexString `json:"value"`
}

type competitorStat struct {
	Name  string     `json:"name"`
	Value flexString `json:"value"`
}

// flexString decodes a JSON string, number or null into a string. The feed
// is not consistent about which it sends, and a surprise number must not
// fail the whole payload.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*f = ""
		return nil
	}
	*f = flexString(n.String())
	return nil
}

// Players fetches the scoreboard at url and returns the normalized player
// list, best score first.
func (c *ESPNClient) Players(ctx context.Context, url string) ([]golf.PlayerRecord, error) {
	raw, err := c.fetchScoreboard(ctx, url)
	if err != nil {
		return nil, err
	}
	return normalizeScoreboard(raw, c.logger), nil
}

func (c *ESPNClient) fetchScoreboard(ctx context.Context, url string) (*scoreboard, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doFetch(ctx, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit breaker open", ErrUpstreamUnavailable)
		}
		return nil, err
	}
	return result.(*scoreboard), nil
}

func (c *ESPNClient) doFetch(ctx context.Context, url string) (*scoreboard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warnf("Scoreboard fetch returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var raw scoreboard
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding body: %v", ErrUpstreamUnavailable, err)
	}

	// A present-but-empty events array is a quiet week, not an error.
	if raw.Events == nil {
		return nil, fmt.Errorf("%w: missing events collection", ErrUpstreamDataInvalid)
	}

	return &raw, nil
}
