package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/go_cart/storefront/internal/serviceerr"
	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
)

// TokenSource yields the bearer token to attach, if any. It is consulted
// on every request so logins and logouts take effect immediately.
type TokenSource interface {
	GetToken(ctx context.Context) (string, bool)
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Breaker   *circuitbreaker.Breaker
	Transport http.RoundTripper
}

// Client talks to the gateway REST API. It never retries.
type Client struct {
	http    *resty.Client
	baseURL string
	timeout time.Duration
	breaker *circuitbreaker.Breaker
}

func New(opts Options, tokens TokenSource) *Client {
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTransport(otelhttp.NewTransport(transport)).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if tokens != nil {
			if token, ok := tokens.GetToken(r.Context()); ok {
				r.SetAuthToken(token)
			}
		}
		r.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		http:    rc,
		baseURL: baseURL,
		timeout: timeout,
		breaker: opts.Breaker,
	}
}

// IsBackendFailure reports whether err means the backend is unhealthy, as
// opposed to it rejecting a particular request. Used to feed the breaker.
func IsBackendFailure(err error) bool {
	kind := serviceerr.KindOf(err)
	return kind == serviceerr.KindTransport || kind == serviceerr.KindServer
}

// ImageURL maps a stored image reference like "images/soup.png" to the URL
// the gateway serves it from.
func (c *Client) ImageURL(ref string) string {
	if ref == "" {
		return ""
	}
	name := path.Base(ref)
	if i := strings.Index(ref, "images/"); i >= 0 {
		name = ref[i+len("images/"):]
	}
	return c.baseURL + "/menu/images/" + name
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(
	ctx context.Context,
	op string,
	send func(*resty.Request) (*resty.Response, error),
	out any,
) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := func() error {
		resp, err := send(c.http.R().SetContext(ctx))
		if err != nil {
			return serviceerr.Wrap(serviceerr.KindTransport, op, err)
		}
		if !resp.IsSuccess() {
			return errorFromResponse(op, resp)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return serviceerr.Wrap(serviceerr.KindMalformed, op, err)
		}
		return nil
	}

	var err error
	if c.breaker == nil {
		err = call()
	} else {
		err = c.breaker.Execute(call)
		if errors.Is(err, circuitbreaker.ErrOpen) {
			err = serviceerr.Wrap(serviceerr.KindTransport, op, err)
		}
	}

	if err != nil {
		slogctx.Debug(ctx, "backend call failed", "op", op, "kind", serviceerr.KindOf(err), "error", err)
	}
	return err
}

// errorFromResponse turns a non-2xx response into a typed error, pulling
// the message out of FastAPI's {"detail": ...} body when present.
func errorFromResponse(op string, resp *resty.Response) error {
	return &serviceerr.Error{
		Op:      op,
		Kind:    serviceerr.KindFromStatus(resp.StatusCode()),
		Status:  resp.StatusCode(),
		Message: detailMessage(resp.StatusCode(), resp.Body()),
	}
}

func detailMessage(status int, body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return http.StatusText(status)
	}
	var msg string
	if err := json.Unmarshal(envelope.Detail, &msg); err == nil {
		return msg
	}
	return string(envelope.Detail)
}
