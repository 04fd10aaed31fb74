package github

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Collector turns resume links into an EnrichmentRecord.
type Collector struct {
	client *Client
	logger *zap.Logger
}

func NewCollector(client *Client, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{client: client, logger: logger}
}

// Collect fetches facts for every GitHub link in links, in order. Links that
// are not GitHub links are skipped. A profile or repository answering with a
// non-200 status is left out; a failed sub-fetch leaves its field nil.
// Transport errors abort the whole collection.
func (c *Collector) Collect(ctx context.Context, links []string) (*EnrichmentRecord, error) {
	record := NewEnrichmentRecord()

	for _, raw := range links {
		link, ok := Classify(raw)
		if !ok {
			continue
		}

		if link.IsRepo() {
			project, err := c.collectProject(ctx, link)
			if err != nil {
				return nil, fmt.Errorf("collect repository %s/%s: %w", link.Owner, link.Repo, err)
			}
			if project != nil {
				record.Projects = append(record.Projects, project)
			}
			continue
		}

		profile, err := c.collectProfile(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("collect profile %s: %w", link.Owner, err)
		}
		if profile != nil {
			record.Profiles = append(record.Profiles, profile)
		}
	}

	c.logger.Debug("github enrichment collected",
		zap.Int("links", len(links)),
		zap.Int("profiles", len(record.Profiles)),
		zap.Int("projects", len(record.Projects)),
	)

	return record, nil
}

func (c *Collector) collectProfile(ctx context.Context, link Link) (*ProfileFact, error) {
	user, err := c.client.getUser(ctx, link.Owner)
	if err != nil {
		if IsStatusError(err) {
			c.logger.Debug("skipping github profile", zap.String("owner", link.Owner), zap.Error(err))
			return nil, nil
		}
		return nil, err
	}

	contributions, err := optional(c.client.countRecentEvents(ctx, link.Owner))
	if err != nil {
		return nil, err
	}

	// A profile README lives in the repository named after the user.
	readme, err := optional(c.client.getReadmeExcerpt(ctx, link.Owner, link.Owner))
	if err != nil {
		return nil, err
	}

	return &ProfileFact{
		ProfileURL:           user.HTMLURL,
		DisplayName:          user.Name,
		Bio:                  user.Bio,
		PublicRepoCount:      user.PublicRepos,
		Followers:            user.Followers,
		Following:            user.Following,
		ContributionCount:    contributions,
		ProfileReadmeExcerpt: readme,
	}, nil
}

func (c *Collector) collectProject(ctx context.Context, link Link) (*ProjectFact, error) {
	repo, err := c.client.getRepo(ctx, link.Owner, link.Repo)
	if err != nil {
		if IsStatusError(err) {
			c.logger.Debug("skipping github repository",
				zap.String("owner", link.Owner),
				zap.String("repo", link.Repo),
				zap.Error(err),
			)
			return nil, nil
		}
		return nil, err
	}

	languages, err := c.client.getLanguages(ctx, link.Owner, link.Repo)
	if err != nil && !IsStatusError(err) {
		return nil, err
	}

	readme, err := optional(c.client.getReadmeExcerpt(ctx, link.Owner, link.Repo))
	if err != nil {
		return nil, err
	}

	return &ProjectFact{
		RepoURL:         repo.HTMLURL,
		Description:     repo.Description,
		Stars:           repo.StargazersCount,
		Forks:           repo.ForksCount,
		PrimaryLanguage: repo.Language,
		Languages:       languages,
		ReadmeExcerpt:   readme,
	}, nil
}

// optional maps a status error to an absent value and keeps other errors.
func optional[T any](value T, err error) (*T, error) {
	if err == nil {
		return &value, nil
	}
	if IsStatusError(err) {
		return nil, nil
	}
	return nil, err
}
