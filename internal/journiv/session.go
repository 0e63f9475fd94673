package journiv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/c0pper/data-driven-blog/internal/metrics"
	"github.com/c0pper/data-driven-blog/internal/upstream"
)

// State is the session lifecycle:
//
//	Unauthenticated --login ok--> Authenticated
//	Authenticated --401--> RefreshPending --ok--> Authenticated
//	                                      --rejected--> Unauthenticated
//
// A failed login always lands in Unauthenticated.
type State int

// sessionTimeout bounds a shared login or refresh when the HTTP client has
// no timeout of its own.
const sessionTimeout = 30 * time.Second

const (
	Unauthenticated State = iota
	Authenticated
	RefreshPending
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case RefreshPending:
		return "refresh_pending"
	default:
		return "unauthenticated"
	}
}

func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Login exchanges the configured credentials for a token pair. A rejected
// login returns false with a nil error; only transport failures and
// unreadable success bodies produce an error.
func (c *Client) Login(ctx context.Context) (bool, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/v1/auth/login", nil, jsonHeaders(), loginRequest{Email: c.email, Password: c.password})
	if err != nil {
		c.logger.Errorf("Failed to log in to Journiv: %v", err)
		return false, err
	}
	if resp.status != http.StatusOK {
		c.setSession(Unauthenticated, "", "")
		c.logger.Errorf("Failed to log in to Journiv: status %d", resp.status)
		return false, nil
	}
	var body loginResponse
	if err := resp.decode(&body); err != nil || body.AccessToken == "" {
		c.setSession(Unauthenticated, "", "")
		if err == nil {
			err = errors.New("missing access_token")
		}
		c.logger.Errorf("Failed to log in to Journiv: %v", err)
		return false, fmt.Errorf("%w: login: %w", upstream.ErrAuthentication, err)
	}
	c.setSession(Authenticated, body.AccessToken, body.RefreshToken)
	c.logger.Infof("Logged in to Journiv")
	return true, nil
}

// RefreshAccessToken swaps the access token using the held refresh token.
// The refresh token itself is not rotated. Without a refresh token it
// returns false and makes no request.
func (c *Client) RefreshAccessToken(ctx context.Context) (bool, error) {
	c.mu.Lock()
	refresh := c.refreshToken
	if refresh == "" {
		c.mu.Unlock()
		return false, nil
	}
	c.state = RefreshPending
	c.mu.Unlock()

	resp, err := c.send(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, jsonHeaders(), refreshRequest{RefreshToken: refresh})
	if err != nil {
		// the tokens may still be good; keep them
		c.restoreState()
		metrics.RecordTokenRefresh(false)
		return false, err
	}
	var body refreshResponse
	if resp.status == http.StatusOK {
		if derr := resp.decode(&body); derr != nil {
			c.logger.Warnf("Journiv refresh: %v", derr)
		}
	}
	if resp.status != http.StatusOK || body.AccessToken == "" {
		c.setSession(Unauthenticated, "", "")
		metrics.RecordTokenRefresh(false)
		c.logger.Warnf("Journiv token refresh rejected: status %d", resp.status)
		return false, nil
	}

	c.mu.Lock()
	c.accessToken = body.AccessToken
	c.state = Authenticated
	c.mu.Unlock()
	metrics.RecordTokenRefresh(true)
	c.logger.Debugf("Refreshed Journiv access token")
	return true, nil
}

// AuthHeaders returns the headers for an authenticated call, or
// ErrAuthenticationRequired when no access token is held.
func (c *Client) AuthHeaders() (http.Header, error) {
	h, _, err := c.authHeaders()
	return h, err
}

func (c *Client) authHeaders() (http.Header, string, error) {
	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()
	if token == "" {
		return nil, "", upstream.ErrAuthenticationRequired
	}
	h := jsonHeaders()
	h.Set("Authorization", "Bearer "+token)
	return h, token, nil
}

// EnsureSession logs in when no session is held. Concurrent callers share
// one login round trip; a caller whose ctx ends stops waiting without
// failing the others.
func (c *Client) EnsureSession(ctx context.Context) error {
	c.mu.RLock()
	ready := c.accessToken != ""
	c.mu.RUnlock()
	if ready {
		return nil
	}
	_, err := c.shared(ctx, "login", func(ctx context.Context) (any, error) {
		c.mu.RLock()
		ready := c.accessToken != ""
		c.mu.RUnlock()
		if ready {
			return nil, nil
		}
		ok, err := c.Login(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: login rejected", upstream.ErrAuthentication)
		}
		return nil, nil
	})
	return err
}

// refreshFrom refreshes after stale was rejected with 401. If another caller
// already replaced stale, the current token is used as is. Concurrent
// callers share one refresh round trip.
func (c *Client) refreshFrom(ctx context.Context, stale string) (bool, error) {
	v, err := c.shared(ctx, "refresh", func(ctx context.Context) (any, error) {
		c.mu.RLock()
		current := c.accessToken
		c.mu.RUnlock()
		if current != "" && current != stale {
			return true, nil
		}
		return c.RefreshAccessToken(ctx)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// shared runs fn once per key for all concurrent callers. fn gets a context
// detached from the caller that started it, bounded by the client timeout.
// Each caller stops waiting when its own ctx ends.
func (c *Client) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := c.flight.DoChan(key, func() (any, error) {
		timeout := c.httpClient.Timeout
		if timeout <= 0 {
			timeout = sessionTimeout
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		v, err := fn(fctx)
		if err != nil && fctx.Err() != nil && !errors.Is(err, upstream.ErrConnectivity) {
			err = upstream.Connectivity(serviceName, err)
		}
		return v, err
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) setSession(s State, access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
	c.accessToken = access
	c.refreshToken = refresh
}

func (c *Client) restoreState() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" {
		c.state = Authenticated
	} else {
		c.state = Unauthenticated
	}
}

func jsonHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	return h
}
