package jobs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned when no posting carries the requested id.
var ErrNotFound = errors.New("job posting not found")

// Posting is an open position resumes are scored against.
type Posting struct {
	ID         string   `mapstructure:"id" json:"id" validate:"required"`
	Title      string   `mapstructure:"title" json:"title" validate:"required"`
	Skills     []string `mapstructure:"skills" json:"skills" validate:"required,min=1,dive,required"`
	Experience string   `mapstructure:"experience" json:"experience"`
	Education  string   `mapstructure:"education" json:"education"`
	Additional string   `mapstructure:"additional" json:"additional,omitempty"`
}

// Description renders the posting as the job description given to the scorer.
func (p Posting) Description() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Job Title: %s\n\n", strings.TrimSpace(p.Title))

	b.WriteString("Skills Requirements:\n")
	for _, skill := range p.Skills {
		fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(skill))
	}

	fmt.Fprintf(&b, "\nExperience Requirements:\n%s\n", orNone(p.Experience))
	fmt.Fprintf(&b, "\nEducation Requirements:\n%s\n", orNone(p.Education))
	fmt.Fprintf(&b, "\nAdditional Requirements:\n%s\n", orNone(p.Additional))

	return b.String()
}

func orNone(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "None"
	}
	return s
}

// Catalog is an immutable, ordered set of postings.
type Catalog struct {
	postings []Posting
	byID     map[string]int
}

// NewCatalog validates postings and indexes them by id.
func NewCatalog(postings []Posting) (*Catalog, error) {
	validate := validator.New()

	c := &Catalog{
		postings: make([]Posting, 0, len(postings)),
		byID:     make(map[string]int, len(postings)),
	}

	for i, p := range postings {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("job posting #%d: %w", i+1, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("job posting #%d: duplicate id %q", i+1, p.ID)
		}

		c.byID[p.ID] = len(c.postings)
		c.postings = append(c.postings, p)
	}

	return c, nil
}

// FindByID returns the posting with id or ErrNotFound.
func (c *Catalog) FindByID(id string) (Posting, error) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Posting{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.postings[idx], nil
}

// Titles lists "id: title" labels in catalog order.
func (c *Catalog) Titles() []string {
	titles := make([]string, 0, len(c.postings))
	for _, p := range c.postings {
		titles = append(titles, fmt.Sprintf("%s: %s", p.ID, p.Title))
	}
	return titles
}

// Postings returns a copy of the postings in catalog order.
func (c *Catalog) Postings() []Posting {
	return append([]Posting(nil), c.postings...)
}

func (c *Catalog) Len() int { return len(c.postings) }
