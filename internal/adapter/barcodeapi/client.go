package barcodeapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/niksmo/pricecheck/internal/adapter"
	"github.com/niksmo/pricecheck/internal/core/domain"
	"github.com/niksmo/pricecheck/internal/core/port"
	"github.com/niksmo/pricecheck/pkg/logger"
	"github.com/niksmo/pricecheck/pkg/retry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://hw.blicyber.web.id"
	DefaultPath    = "/admin/products/barcode"
)

var ErrTooFewOpts = errors.New("too few options")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ port.ProductFinder = (*Client)(nil)

// A Client calls the remote products-by-barcode endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   url.URL
	retry      retry.Config
}

type ClientOpt func(*clientOpts) error

type clientOpts struct {
	endpoint    *url.URL
	timeout     time.Duration
	maxAttempts int
	httpClient  *http.Client
	tlsFiles    [3]string
}

// EndpointOpt sets the upstream base URL and the products path on it.
func EndpointOpt(baseURL, path string) ClientOpt {
	return func(opts *clientOpts) error {
		base, err := url.Parse(baseURL)
		if err != nil {
			return err
		}
		if base.Scheme == "" || base.Host == "" {
			return fmt.Errorf("base URL %q must be absolute", baseURL)
		}
		opts.endpoint = base.JoinPath(path)
		return nil
	}
}

// TimeoutOpt bounds a whole request. Zero means no timeout.
func TimeoutOpt(d time.Duration) ClientOpt {
	return func(opts *clientOpts) error {
		if d < 0 {
			return fmt.Errorf("negative timeout %s", d)
		}
		opts.timeout = d
		return nil
	}
}

// MaxAttemptsOpt enables retries of transport errors and temporary
// upstream statuses when n > 1.
func MaxAttemptsOpt(n int) ClientOpt {
	return func(opts *clientOpts) error {
		opts.maxAttempts = n
		return nil
	}
}

func TLSOpt(ca, cert, key string) ClientOpt {
	return func(opts *clientOpts) error {
		opts.tlsFiles = [3]string{ca, cert, key}
		return nil
	}
}

// HTTPClientOpt replaces the instrumented default client.
func HTTPClientOpt(c *http.Client) ClientOpt {
	return func(opts *clientOpts) error {
		if c == nil {
			return errors.New("http client is nil")
		}
		opts.httpClient = c
		return nil
	}
}

// NewClient requires [EndpointOpt].
func NewClient(opts ...ClientOpt) (Client, error) {
	const op = "barcodeapi.NewClient"

	var options clientOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return Client{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if options.endpoint == nil {
		return Client{}, fmt.Errorf("%s: %w", op, ErrTooFewOpts)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		c, err := newHTTPClient(options)
		if err != nil {
			return Client{}, fmt.Errorf("%s: %w", op, err)
		}
		httpClient = c
	}

	return Client{
		httpClient: httpClient,
		endpoint:   *options.endpoint,
		retry: retry.Config{
			MaxAttempts: options.maxAttempts,
			ShouldRetry: retryable,
		},
	}, nil
}

func newHTTPClient(options clientOpts) (*http.Client, error) {
	tlsConfig, err := adapter.MakeTLSConfig(
		options.tlsFiles[0], options.tlsFiles[1], options.tlsFiles[2],
	)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig
	}

	return &http.Client{
		Transport: otelhttp.NewTransport(transport),
		Timeout:   options.timeout,
	}, nil
}

// FindByBarcode issues GET <endpoint>?barcode=<barcode>.
//
// A non-2xx response yields [*domain.StatusError].
func (c Client) FindByBarcode(
	ctx context.Context, barcode string,
) ([]domain.Product, error) {
	const op = "Client.FindByBarcode"

	ps, err := retry.DoWithResult(ctx, c.retry, func() ([]domain.Product, error) {
		return c.get(ctx, barcode)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (c Client) get(
	ctx context.Context, barcode string,
) ([]domain.Product, error) {
	log := logger.FromContext(ctx, "Client.get")

	u := c.endpoint
	q := u.Query()
	q.Set("barcode", barcode)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.StatusError{Code: resp.StatusCode}
	}

	var body productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidResponse, err)
	}

	log.Debug().
		Str("status", body.Status).
		Int("nProducts", len(body.Products)).
		Msg("upstream responded")

	return body.toDomain(), nil
}

func (c Client) closeBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var se *domain.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}

	return !errors.Is(err, domain.ErrInvalidResponse)
}
