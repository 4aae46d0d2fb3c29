package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/serviceerr"
)

func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, "users.me", func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/users/users/me")
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, "users.register", func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(reg).Post("/users/registration/")
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PasswordToken runs the OAuth2 password grant against /users/token and
// returns the access token.
func (c *Client) PasswordToken(ctx context.Context, username, password string) (string, error) {
	const op = "users.token"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + "/users/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http.GetClient())

	var token *oauth2.Token
	call := func() error {
		var err error
		token, err = conf.PasswordCredentialsToken(ctx, username, password)
		if err == nil {
			return nil
		}
		return tokenError(op, err)
	}

	var err error
	if c.breaker == nil {
		err = call()
	} else {
		err = c.breaker.Execute(call)
	}
	if err != nil {
		if serviceerr.KindOf(err) == serviceerr.KindUnknown {
			err = serviceerr.Wrap(serviceerr.KindTransport, op, err)
		}
		return "", err
	}
	return token.AccessToken, nil
}

// tokenError classifies a failed password grant. Bad credentials come back
// as 400 or 401; a 2xx body without an access token is malformed.
func tokenError(op string, err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) && rerr.Response != nil {
		status := rerr.Response.StatusCode
		msg := detailMessage(status, rerr.Body)
		if status == http.StatusBadRequest || status == http.StatusUnauthorized {
			msg = "incorrect username or password"
		}
		return &serviceerr.Error{
			Op:      op,
			Kind:    serviceerr.KindFromStatus(status),
			Status:  status,
			Message: msg,
			Err:     err,
		}
	}

	var uerr *url.Error
	if errors.As(err, &uerr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return serviceerr.Wrap(serviceerr.KindTransport, op, err)
	}
	return serviceerr.Wrap(serviceerr.KindMalformed, op, err)
}
