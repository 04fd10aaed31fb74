package github

import (
	"net/url"
	"regexp"
	"strings"
)

var githubLinkPattern = regexp.MustCompile(`^https?://github\.com/[\w-]+`)

// reservedSegments can't name a repository, so a link with one of them in
// place of the repo is profile-only.
var reservedSegments = map[string]struct{}{
	"issues": {},
	"pulls":  {},
	"tree":   {},
	"blob":   {},
}

// trackerSegments after the repo point into issue or pull request lists.
var trackerSegments = map[string]struct{}{
	"issues": {},
	"pulls":  {},
}

// Link is a classified GitHub URL. Repo is empty for profile links.
type Link struct {
	Owner string
	Repo  string
}

// IsRepo reports whether the link points at a repository.
func (l Link) IsRepo() bool { return l.Repo != "" }

// Classify parses raw as a GitHub profile or repository link. Anything that
// isn't a github.com URL with an owner is rejected.
func Classify(raw string) (Link, bool) {
	raw = strings.TrimSpace(raw)
	if !githubLinkPattern.MatchString(raw) {
		return Link{}, false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return Link{}, false
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return Link{}, false
	}

	link := Link{Owner: segments[0]}
	if len(segments) == 1 || segments[1] == "" {
		return link, true
	}

	if _, reserved := reservedSegments[segments[1]]; reserved {
		return link, true
	}

	// Links into issue lists only identify the owner. File trees and blobs
	// still name the repository.
	for _, segment := range segments[2:] {
		if _, tracker := trackerSegments[segment]; tracker {
			return link, true
		}
	}

	link.Repo = segments[1]
	return link, true
}
