package soap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"

	"demographics/internal/registry/hl7"
	"demographics/internal/registry/transport"
)

// DefaultSOAPAction is the action header the registry routes on.
const DefaultSOAPAction = "HCIM_IN_GetDemographics"

const contentType = "text/xml; charset=utf-8"

type exchange struct {
	status int
	body   []byte
}

// Client posts GetDemographics envelopes to the registry. It never retries;
// an optional circuit breaker fails fast while the registry is down.
type Client struct {
	endpoint   string
	soapAction string
	http       *resty.Client
	breaker    *gobreaker.CircuitBreaker[exchange]
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each exchange.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithSOAPAction overrides the SOAPAction header.
func WithSOAPAction(action string) Option {
	return func(c *Client) {
		c.soapAction = action
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = newResty(hc)
	}
}

// WithBreaker opens the circuit after consecutiveFailures outages in a row
// and probes again after cooldown. Zero disables the breaker.
func WithBreaker(consecutiveFailures uint32, cooldown time.Duration) Option {
	return func(c *Client) {
		if consecutiveFailures == 0 {
			c.breaker = nil
			return
		}
		c.breaker = gobreaker.NewCircuitBreaker[exchange](gobreaker.Settings{
			Name:        "client-registry",
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= consecutiveFailures
			},
			IsSuccessful: func(err error) bool {
				return err == nil || transport.GetCategory(err) == transport.ErrorCanceled
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.logger.Warn("registry circuit state changed",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		})
	}
}

// New creates a Client for endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("registry endpoint is required")
	}
	c := &Client{
		endpoint:   endpoint,
		soapAction: DefaultSOAPAction,
		http:       newResty(nil),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newResty(hc *http.Client) *resty.Client {
	var client *resty.Client
	if hc != nil {
		client = resty.NewWithClient(hc)
	} else {
		client = resty.New().SetTimeout(30 * time.Second)
	}
	return client.
		SetRetryCount(0).
		SetHeader("Content-Type", contentType).
		SetHeader("Accept", "text/xml")
}

// Endpoint returns the registry URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send posts req and decodes the reply. Every failure is a *transport.Error.
func (c *Client) Send(ctx context.Context, req hl7.ProtocolRequest) (*hl7.ProtocolResponse, error) {
	payload, err := EncodeRequest(req)
	if err != nil {
		return nil, transport.NewError(transport.ErrorInternal, c.endpoint, "encode request", err)
	}

	ex, err := c.execute(ctx, payload)
	if err != nil {
		c.logger.WarnContext(ctx, "registry exchange failed",
			"endpoint", c.endpoint,
			"category", string(transport.GetCategory(err)),
			"error", err,
		)
		return nil, err
	}

	resp, err := DecodeResponse(ex.body)
	if err != nil {
		var fault *FaultError
		switch {
		case errors.As(err, &fault):
			return nil, transport.NewError(transport.ErrorProtocolFault, c.endpoint, fault.Fault.String, err)
		case !isSuccess(ex.status):
			return nil, transport.NewError(transport.ErrorProviderOutage, c.endpoint, fmt.Sprintf("unexpected status %d", ex.status), err)
		default:
			return nil, transport.NewError(transport.ErrorBadData, c.endpoint, "malformed reply", err)
		}
	}
	if !isSuccess(ex.status) {
		return nil, transport.NewError(transport.ErrorProviderOutage, c.endpoint, fmt.Sprintf("unexpected status %d", ex.status), nil)
	}

	c.logger.DebugContext(ctx, "registry exchange completed",
		"endpoint", c.endpoint,
		"message_id", req.ID.Extension,
		"response_code", resp.ResponseCode,
	)
	return resp, nil
}

func (c *Client) execute(ctx context.Context, payload []byte) (exchange, error) {
	if c.breaker == nil {
		return c.post(ctx, payload)
	}
	ex, err := c.breaker.Execute(func() (exchange, error) {
		return c.post(ctx, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return exchange{}, transport.NewError(transport.ErrorProviderOutage, c.endpoint, "circuit open", err)
	}
	return ex, err
}

// post performs one HTTP exchange. Server errors that do not carry a SOAP
// fault count as outages so the breaker sees them.
func (c *Client) post(ctx context.Context, payload []byte) (exchange, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("SOAPAction", c.soapAction).
		SetBody(payload).
		Post(c.endpoint)
	if err != nil {
		return exchange{}, transport.Normalize(err, c.endpoint)
	}

	ex := exchange{status: resp.StatusCode(), body: resp.Body()}
	if ex.status >= http.StatusInternalServerError && !bytes.Contains(ex.body, []byte("Fault")) {
		return exchange{}, transport.NewError(transport.ErrorProviderOutage, c.endpoint, fmt.Sprintf("unexpected status %d", ex.status), nil)
	}
	return ex, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
