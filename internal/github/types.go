package github

// EnrichmentRecord holds the portfolio facts gathered for one scoring request.
type EnrichmentRecord struct {
	Profiles []*ProfileFact `json:"profiles"`
	Projects []*ProjectFact `json:"projects"`
}

// NewEnrichmentRecord returns an empty record that serializes with empty
// lists rather than nulls.
func NewEnrichmentRecord() *EnrichmentRecord {
	return &EnrichmentRecord{
		Profiles: make([]*ProfileFact, 0),
		Projects: make([]*ProjectFact, 0),
	}
}

// Empty reports whether the record carries no facts.
func (r *EnrichmentRecord) Empty() bool {
	return r == nil || (len(r.Profiles) == 0 && len(r.Projects) == 0)
}

// ProfileFact describes a GitHub user. Nil pointers mark values that could
// not be fetched.
type ProfileFact struct {
	ProfileURL           string  `json:"profile_url"`
	DisplayName          *string `json:"name"`
	Bio                  *string `json:"bio"`
	PublicRepoCount      int     `json:"public_repos"`
	Followers            int     `json:"followers"`
	Following            int     `json:"following"`
	ContributionCount    *int    `json:"contributions"`
	ProfileReadmeExcerpt *string `json:"profile_readme"`
}

// ProjectFact describes a GitHub repository.
type ProjectFact struct {
	RepoURL         string   `json:"repo_url"`
	Description     *string  `json:"description"`
	Stars           int      `json:"stars"`
	Forks           int      `json:"forks"`
	PrimaryLanguage *string  `json:"language"`
	Languages       []string `json:"languages"`
	ReadmeExcerpt   *string  `json:"readme"`
}

type apiUser struct {
	HTMLURL     string  `json:"html_url"`
	Name        *string `json:"name"`
	Bio         *string `json:"bio"`
	PublicRepos int     `json:"public_repos"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
}

type apiRepo struct {
	HTMLURL         string  `json:"html_url"`
	Description     *string `json:"description"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	Language        *string `json:"language"`
}

type apiReadme struct {
	DownloadURL string `json:"download_url"`
}
