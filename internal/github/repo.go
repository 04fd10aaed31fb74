package github

import (
	"context"
	"fmt"
	"net/url"
)

// getRepo fetches repository metadata for owner/repo.
func (c *Client) getRepo(ctx context.Context, owner, repo string) (*apiRepo, error) {
	var r apiRepo
	if err := c.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s", c.APIURL, url.PathEscape(owner), url.PathEscape(repo)), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// getLanguages lists the languages of owner/repo in the order GitHub reports
// them (largest first).
func (c *Client) getLanguages(ctx context.Context, owner, repo string) ([]string, error) {
	return c.orderedKeys(ctx, fmt.Sprintf("%s/repos/%s/%s/languages", c.APIURL, url.PathEscape(owner), url.PathEscape(repo)))
}
