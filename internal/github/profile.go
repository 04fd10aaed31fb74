package github

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/spigell/resume-scorer/internal/utils"
)

const readmeExcerptRunes = 500

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// getUser fetches the public profile of username.
func (c *Client) getUser(ctx context.Context, username string) (*apiUser, error) {
	var user apiUser
	if err := c.getJSON(ctx, fmt.Sprintf("%s/users/%s", c.APIURL, url.PathEscape(username)), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// countRecentEvents returns the number of public events on the first page
// of the user's activity feed. It approximates contribution activity.
func (c *Client) countRecentEvents(ctx context.Context, username string) (int, error) {
	var events []map[string]any
	if err := c.getJSON(ctx, fmt.Sprintf("%s/users/%s/events", c.APIURL, url.PathEscape(username)), &events); err != nil {
		return 0, err
	}
	return len(events), nil
}

// getReadmeExcerpt downloads the README of owner/repo and returns its first
// 500 runes with line breaks collapsed to single spaces.
func (c *Client) getReadmeExcerpt(ctx context.Context, owner, repo string) (string, error) {
	var readme apiReadme
	if err := c.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s/readme", c.APIURL, url.PathEscape(owner), url.PathEscape(repo)), &readme); err != nil {
		return "", err
	}

	if readme.DownloadURL == "" {
		return "", &StatusError{Status: "readme has no download url", URL: readme.DownloadURL}
	}

	content, err := c.getText(ctx, readme.DownloadURL)
	if err != nil {
		return "", err
	}

	return utils.TruncateRunes(lineBreaks.ReplaceAllString(content, " "), readmeExcerptRunes), nil
}
