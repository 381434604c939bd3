package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"routesafe-service/internal/domain"
	"routesafe-service/internal/platform/obs"
	"routesafe-service/internal/ports"
)

// Endpoint paths vary across backend deployments. The canonical path is
// tried first; on 404 the legacy path is probed once and the winner is
// remembered for the lifetime of the client.
const (
	legPathCanonical = "/api/route"
	legPathLegacy    = "/route"

	planPathCanonical = "/api/plan"
	planPathLegacy    = "/plan"
)

// Client implements LegProvider and AggregatePlanner against the remote
// RouteSafe routing backend.
//
// It coordinates:
//   - Stop label normalization for stable cache keys
//   - Persistent leg-result caching
//   - Endpoint path probing across backend revisions
//   - External API calls with transport retry/backoff
//
// The client is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
	cache   ports.LegCache

	mu       sync.Mutex
	legPath  string
	planPath string
	noPlan   bool // set once the backend 404s both aggregate paths
}

func NewClient(baseURL string, cache ports.LegCache) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("routing backend base URL is empty")
	}

	return &Client{
		session: &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		cache:   cache,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (c *Client) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type legRequest struct {
	Start           string  `json:"start"`
	End             string  `json:"end"`
	VehicleHeightM  float64 `json:"vehicle_height_m"`
	AvoidLowBridges bool    `json:"avoid_low_bridges"`
}

// PlanLeg routes a single start->end hop at the given vehicle height.
func (c *Client) PlanLeg(
	ctx context.Context,
	start, end string,
	vehicleHeightMeters float64,
) (_ domain.Leg, err error) {
	defer obs.Time(ctx, "routing.PlanLeg")(&err)

	normStart := c.normalize(start)
	normEnd := c.normalize(end)
	if normStart == "" || normEnd == "" {
		return domain.Leg{}, errors.New("plan leg: start and end must be non-empty")
	}
	if h := vehicleHeightMeters; h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return domain.Leg{}, errors.New("plan leg: vehicle height must be a positive finite number")
	}

	// Check the persistent cache before issuing an external call.
	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, normStart, normEnd, vehicleHeightMeters)
		if err != nil {
			return domain.Leg{}, fmt.Errorf("plan leg: read cache: %w", err)
		}
		if ok {
			return cached, nil
		}
	}

	payload, err := json.Marshal(legRequest{
		Start:           normStart,
		End:             normEnd,
		VehicleHeightM:  vehicleHeightMeters,
		AvoidLowBridges: true,
	})
	if err != nil {
		return domain.Leg{}, fmt.Errorf("plan leg: marshal request: %w", err)
	}

	body, err := c.postWithPathProbe(ctx, c.currentLegPath(), legPathLegacy, payload, c.setLegPath)
	if err != nil {
		return domain.Leg{}, err
	}

	var decoded legPayload
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.Leg{}, &MalformedResponseError{Reason: "leg body is not valid JSON"}
	}

	leg := normalizeLeg(decoded, normStart, normEnd, vehicleHeightMeters)

	if c.cache != nil {
		if err := c.cache.Put(ctx, normStart, normEnd, vehicleHeightMeters, leg); err != nil {
			log.Printf("leg cache write failed: %v", err)
		}
	}

	return leg, nil
}

// postWithPathProbe POSTs payload to primary, retrying once against the
// fallback path when the backend 404s. The surviving path is recorded
// via remember so later calls skip the probe.
func (c *Client) postWithPathProbe(
	ctx context.Context,
	primary, fallback string,
	payload []byte,
	remember func(string),
) ([]byte, error) {
	body, err := c.postJSON(ctx, primary, payload)
	if err == nil {
		remember(primary)
		return body, nil
	}

	var he *HTTPError
	if !errors.As(err, &he) || he.Status != http.StatusNotFound || primary == fallback {
		return nil, err
	}

	body, err = c.postJSON(ctx, fallback, payload)
	if err != nil {
		return nil, err
	}
	remember(fallback)
	return body, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload []byte) ([]byte, error) {
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, &NetworkError{Err: err}
	}
	return buf.Bytes(), nil
}

func (c *Client) currentLegPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.legPath != "" {
		return c.legPath
	}
	return legPathCanonical
}

func (c *Client) setLegPath(path string) {
	c.mu.Lock()
	c.legPath = path
	c.mu.Unlock()
}

func (c *Client) currentPlanPath() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.noPlan {
		return "", false
	}
	if c.planPath != "" {
		return c.planPath, true
	}
	return planPathCanonical, true
}

func (c *Client) setPlanPath(path string) {
	c.mu.Lock()
	c.planPath = path
	c.mu.Unlock()
}

func (c *Client) markPlanUnsupported() {
	c.mu.Lock()
	c.noPlan = true
	c.mu.Unlock()
}
