package journiv

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/c0pper/data-driven-blog/internal/upstream"
)

type TagPage struct {
	Limit  int
	Offset int
	Search string
}

func (c *Client) Tags(ctx context.Context, p TagPage) ([]Tag, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampPageSize(limit)))
	q.Set("offset", strconv.Itoa(max(p.Offset, 0)))
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	var out []Tag
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/tags/", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AllTags(ctx context.Context, search string) ([]Tag, error) {
	return collectPages(ctx, MaxPageSize, c.exhaustive, func(ctx context.Context, limit, offset int) ([]Tag, error) {
		return c.Tags(ctx, TagPage{Limit: limit, Offset: offset, Search: search})
	})
}

// TagByName finds a tag case-insensitively. It returns nil, nil when no tag
// matches.
func (c *Client) TagByName(ctx context.Context, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, upstream.InvalidArgument("tag name is required")
	}
	tags, err := c.AllTags(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range tags {
		if strings.EqualFold(tags[i].Name, name) {
			return &tags[i], nil
		}
	}
	return nil, nil
}

func (c *Client) AddTagToEntry(ctx context.Context, entryID, tagID string) (*EntryTag, error) {
	if strings.TrimSpace(entryID) == "" || strings.TrimSpace(tagID) == "" {
		return nil, upstream.InvalidArgument("entry_id and tag_id are required")
	}
	var out EntryTag
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/v1/tags/entry/" + escape(entryID) + "/tag/" + escape(tagID),
		want:   http.StatusCreated,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EntryTags(ctx context.Context, entryID string) ([]Tag, error) {
	if strings.TrimSpace(entryID) == "" {
		return nil, upstream.InvalidArgument("entry_id is required")
	}
	var out []Tag
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/tags/entry/" + escape(entryID)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
