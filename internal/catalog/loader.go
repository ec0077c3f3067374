package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_cart/cart-widget/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// maxCatalogBytes caps the size of a catalog document.
const maxCatalogBytes = 4 << 20

type Options struct {
	Timeout          time.Duration
	FailureThreshold uint32        // consecutive failures before the breaker opens
	OpenTimeout      time.Duration // how long the breaker stays open
}

// Loader reads the product catalog from an http(s) URL or a local file.
// It never retries: a failed load is reported and the caller shows no cards.
type Loader struct {
	source  string
	client  *http.Client
	sfg     singleflight.Group
	breaker *gobreaker.CircuitBreaker[[]domain.Product]
	logger  *zap.Logger
}

func NewLoader(source string, opts Options, logger *zap.Logger) *Loader {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 3
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}

	l := &Loader{
		source: source,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
	l.breaker = gobreaker.NewCircuitBreaker[[]domain.Product](gobreaker.Settings{
		Name:    "catalog",
		Timeout: opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		// a caller giving up says nothing about the source
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("catalog breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return l
}

// Load fetches the catalog. Concurrent callers share a single fetch, which
// is detached from the caller's cancellation and bounded by Options.Timeout.
// Every failure wraps domain.ErrFetch.
func (l *Loader) Load(ctx context.Context) ([]domain.Product, error) {
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := l.sfg.Do(l.source, func() (interface{}, error) {
		return l.breaker.Execute(func() ([]domain.Product, error) {
			return l.fetch(fetchCtx)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	return v.([]domain.Product), nil
}

func (l *Loader) fetch(ctx context.Context) ([]domain.Product, error) {
	var (
		body io.ReadCloser
		err  error
	)
	if isURL(l.source) {
		body, err = l.get(ctx)
	} else {
		body, err = os.Open(l.source)
	}
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return decodeProducts(io.LimitReader(body, maxCatalogBytes))
}

func (l *Loader) get(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", l.source, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("get %s: unexpected status %d", l.source, resp.StatusCode)
	}
	return resp.Body, nil
}

type productDTO struct {
	ID           json.RawMessage `json:"id"`
	Title        string          `json:"title"`
	ThumbnailURL string          `json:"thumbnailUrl"`
	Precio       json.RawMessage `json:"precio"`
}

func decodeProducts(r io.Reader) ([]domain.Product, error) {
	var dtos []productDTO
	if err := json.NewDecoder(r).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]domain.Product, 0, len(dtos))
	for i, d := range dtos {
		id, err := scalarText(d.ID)
		if err != nil || id == "" {
			return nil, fmt.Errorf("product %d: invalid id %s", i, d.ID)
		}
		price, err := parsePrice(d.Precio)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		products = append(products, domain.Product{
			ID:           id,
			Title:        d.Title,
			Price:        price,
			ThumbnailURL: d.ThumbnailURL,
		})
	}
	return products, nil
}

// scalarText renders a JSON string or number as its text form.
func scalarText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("missing value")
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func parsePrice(raw json.RawMessage) (float64, error) {
	text, err := scalarText(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid precio %s", raw)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid precio %s", raw)
	}
	return f, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
