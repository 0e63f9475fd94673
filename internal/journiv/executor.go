package journiv

import (
	"context"
	"net/http"
	"net/url"
)

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	// want is the only status treated as success (200 or 201).
	want int
}

// do runs an authenticated call. A 401 triggers exactly one refresh and, if
// that succeeds, exactly one re-issue; no call reaches the server more than
// twice. Transport failures are never retried.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	if cl.want == 0 {
		cl.want = http.StatusOK
	}
	header, token, err := c.authHeaders()
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, cl.method, cl.path, cl.query, header, cl.body)
	if err != nil {
		return err
	}
	if resp.status == cl.want {
		return resp.decode(out)
	}
	if resp.status != http.StatusUnauthorized {
		return resp.err()
	}

	c.logger.Debugf("journiv %s %s: 401, refreshing token", cl.method, cl.path)
	ok, err := c.refreshFrom(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return resp.err()
	}
	header, _, err = c.authHeaders()
	if err != nil {
		return err
	}
	retry, err := c.send(ctx, cl.method, cl.path, cl.query, header, cl.body)
	if err != nil {
		return err
	}
	if retry.status == cl.want {
		return retry.decode(out)
	}
	return retry.err()
}
