package resume

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

var (
	linkPattern       = regexp.MustCompile(`https?://[^\s<>"'()\[\]{}]+`)
	spacePattern      = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	blankLinesPattern = regexp.MustCompile(`\n{2,}`)
)

const linkTrailingCutset = ".,;:!?"

// ExtractText returns the plain text of a resume file and the links it
// carries: PDF link annotations first, then URLs written in the text. PDF,
// plain text and markdown files are supported.
func ExtractText(filename string, data []byte) (string, []string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		text, annotations, err := pdfContent(data)
		if err != nil {
			return "", nil, fmt.Errorf("read pdf %s: %w", filename, err)
		}
		return text, mergeLinks(annotations, ExtractLinks(text)), nil
	case ".txt", ".md":
		if !utf8.Valid(data) {
			return "", nil, fmt.Errorf("%s is not valid UTF-8 text", filename)
		}
		text := normalize(string(data))
		return text, ExtractLinks(text), nil
	default:
		return "", nil, fmt.Errorf("unsupported resume format %q: only pdf, txt and md are allowed", ext)
	}
}

func pdfContent(data []byte) (text string, links []string, err error) {
	// The pdf reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, err
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", nil, err
	}

	return normalize(buf.String()), annotationLinks(r), nil
}

// annotationLinks collects the URI targets of /Link annotations on every page.
func annotationLinks(r *pdf.Reader) []string {
	var links []string

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		annots := page.V.Key("Annots")
		for j := 0; j < annots.Len(); j++ {
			annot := annots.Index(j)
			if annot.Key("Subtype").Name() != "Link" {
				continue
			}

			uri := annot.Key("A").Key("URI")
			if uri.Kind() != pdf.String {
				continue
			}
			if link := strings.TrimSpace(uri.Text()); linkPattern.MatchString(link) {
				links = append(links, link)
			}
		}
	}

	return links
}

// normalize collapses horizontal whitespace and keeps paragraph breaks.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = spacePattern.ReplaceAllString(s, " ")
	s = blankLinesPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ExtractLinks returns the distinct http(s) URLs of text in order of first
// appearance.
func ExtractLinks(text string) []string {
	matches := linkPattern.FindAllString(text, -1)
	for i, match := range matches {
		matches[i] = strings.TrimRight(match, linkTrailingCutset)
	}
	return mergeLinks(matches)
}

// mergeLinks concatenates groups, dropping empty and repeated links.
func mergeLinks(groups ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string

	for _, group := range groups {
		for _, link := range group {
			if link == "" {
				continue
			}
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			merged = append(merged, link)
		}
	}

	return merged
}
