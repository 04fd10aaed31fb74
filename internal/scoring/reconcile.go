package scoring

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Field names of the model answer.
const (
	FieldImpact     = "IMPACT"
	FieldFormat     = "FORMAT"
	FieldLanguage   = "LANGUAGE"
	FieldSkills     = "SKILLS"
	FieldSimilarity = "SIMILARITY"
	FieldGitHub     = "GITHUB"
	FieldTotal      = "TOTAL"
)

const (
	totalDriftTolerance = 5
	highTotal           = 75
	mediumTotal         = 50
	highSimilarity      = 42
	mediumSimilarity    = 36
)

var (
	jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)
	integerPattern    = regexp.MustCompile(`\b(\d+)\b`)
)

// rawScores maps recognized field names to parsed values. A key with
// numeric=false was present but carried no usable number.
type rawScores map[string]rawValue

type rawValue struct {
	value   int
	numeric bool
}

func (s rawScores) get(field string) (int, bool) {
	v, ok := s[field]
	if !ok || !v.numeric {
		return 0, false
	}
	return v.value, true
}

func (s rawScores) between(field string, lo, hi int) (int, bool) {
	v, ok := s.get(field)
	if !ok || v < lo || v > hi {
		return 0, false
	}
	return v, true
}

func (s rawScores) usable() bool {
	for _, v := range s {
		if v.numeric {
			return true
		}
	}
	return false
}

// jsonScores picks recognized keys out of a decoded object; mapstructure
// matches keys case-insensitively.
type jsonScores struct {
	Impact     any `mapstructure:"IMPACT"`
	Format     any `mapstructure:"FORMAT"`
	Language   any `mapstructure:"LANGUAGE"`
	Skills     any `mapstructure:"SKILLS"`
	Similarity any `mapstructure:"SIMILARITY"`
	GitHub     any `mapstructure:"GITHUB"`
	Total      any `mapstructure:"TOTAL"`
}

// Reconcile parses a model answer and repairs it into a valid ScoreRecord.
// It accepts any input.
func Reconcile(raw string) ScoreRecord {
	scores := parseJSONScores(raw)
	if !scores.usable() {
		scores = parseLineScores(raw)
	}
	return repair(scores)
}

func parseJSONScores(raw string) rawScores {
	candidate := jsonObjectPattern.FindString(raw)
	if candidate == "" {
		return nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(candidate), &data); err != nil {
		return nil
	}

	var picked jsonScores
	if err := mapstructure.Decode(data, &picked); err != nil {
		return nil
	}

	scores := make(rawScores)
	for field, value := range map[string]any{
		FieldImpact:     picked.Impact,
		FieldFormat:     picked.Format,
		FieldLanguage:   picked.Language,
		FieldSkills:     picked.Skills,
		FieldSimilarity: picked.Similarity,
		FieldGitHub:     picked.GitHub,
		FieldTotal:      picked.Total,
	} {
		if value == nil {
			continue
		}
		n, ok := coerceInt(value)
		scores[field] = rawValue{value: n, numeric: ok}
	}

	return scores
}

func parseLineScores(raw string) rawScores {
	scores := make(rawScores)

	for _, line := range strings.Split(raw, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), ":")
		if !found {
			continue
		}

		key = strings.ToUpper(strings.Trim(key, " \t*_#-"))
		if !isField(key) {
			continue
		}

		n, ok := firstInteger(value)
		if !ok {
			continue
		}
		scores[key] = rawValue{value: n, numeric: true}
	}

	return scores
}

func isField(key string) bool {
	switch key {
	case FieldImpact, FieldFormat, FieldLanguage, FieldSkills, FieldSimilarity, FieldGitHub, FieldTotal:
		return true
	}
	return false
}

func coerceInt(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		if val > math.MaxInt32 || val < math.MinInt32 {
			return int(math.Copysign(math.MaxInt32, val)), true
		}
		return int(val), true
	case string:
		return firstInteger(val)
	default:
		return 0, false
	}
}

// firstInteger extracts the first unsigned integer token of s. Oversized
// numbers saturate so that range checks reject them.
func firstInteger(s string) (int, bool) {
	match := integerPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, false
	}

	n, err := strconv.Atoi(match[1])
	if err != nil {
		return math.MaxInt32, true
	}
	return n, true
}

// repair applies the corrective rules in a fixed order. Each rule only
// replaces values that are missing or out of range.
func repair(scores rawScores) ScoreRecord {
	var record ScoreRecord

	subScore := func(field string) int {
		if v, ok := scores.between(field, 0, MaxSubScore); ok {
			return v
		}
		return fallbackSubScore
	}
	record.Impact = subScore(FieldImpact)
	record.Format = subScore(FieldFormat)
	record.Language = subScore(FieldLanguage)
	record.Skills = subScore(FieldSkills)

	parameter := record.ParameterScore()

	if v, ok := scores.between(FieldGitHub, 0, MaxGitHub); ok {
		record.GitHub = v
	} else {
		record.GitHub = fallbackGitHub
	}

	total, hasTotal := scores.get(FieldTotal)

	if v, ok := scores.between(FieldSimilarity, 0, MaxSimilarity); ok {
		record.Similarity = v
	} else {
		// A reported total hints at how well the model thought the resume matched.
		switch {
		case hasTotal && total > highTotal:
			record.Similarity = highSimilarity
		case hasTotal && total > mediumTotal:
			record.Similarity = mediumSimilarity
		default:
			record.Similarity = fallbackSimilarity
		}
	}

	expected := parameter + record.Similarity + record.GitHub
	if !hasTotal || abs(total-expected) > totalDriftTolerance {
		total = expected
	}
	record.Total = clamp(total, 0, MaxTotal)

	if record.Total != parameter+record.Similarity+record.GitHub {
		record.Similarity = clamp(record.Total-parameter-record.GitHub, 0, MaxSimilarity)
	}

	// Similarity clamping can leave a gap; the components win.
	if record.Total != parameter+record.Similarity+record.GitHub {
		record.Total = parameter + record.Similarity + record.GitHub
	}

	return record
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
