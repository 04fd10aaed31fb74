package scoring

import (
	"strings"
	"testing"
)

func assertInvariants(t *testing.T, r ScoreRecord) {
	t.Helper()

	for name, v := range map[string]int{"impact": r.Impact, "format": r.Format, "language": r.Language, "skills": r.Skills} {
		if v < 0 || v > MaxSubScore {
			t.Fatalf("%s out of range: %d", name, v)
		}
	}
	if r.Similarity < 0 || r.Similarity > MaxSimilarity {
		t.Fatalf("similarity out of range: %d", r.Similarity)
	}
	if r.GitHub < 0 || r.GitHub > MaxGitHub {
		t.Fatalf("github out of range: %d", r.GitHub)
	}
	if r.Total < 0 || r.Total > MaxTotal {
		t.Fatalf("total out of range: %d", r.Total)
	}
	if got := r.ParameterScore() + r.Similarity + r.GitHub; got != r.Total {
		t.Fatalf("total %d does not match component sum %d", r.Total, got)
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ScoreRecord
	}{
		{
			name: "consistent answer is kept",
			raw:  "IMPACT: 4\nFORMAT: 4\nLANGUAGE: 4\nSKILLS: 4\nSIMILARITY: 42\nGITHUB: 15\nTOTAL: 73",
			want: ScoreRecord{Impact: 4, Format: 4, Language: 4, Skills: 4, Similarity: 42, GitHub: 15, Total: 73},
		},
		{
			name: "total far off is recomputed",
			raw:  "IMPACT: 4\nFORMAT: 4\nLANGUAGE: 4\nSKILLS: 4\nSIMILARITY: 42\nGITHUB: 15\nTOTAL: 90",
			want: ScoreRecord{Impact: 4, Format: 4, Language: 4, Skills: 4, Similarity: 42, GitHub: 15, Total: 73},
		},
		{
			name: "missing parameters default before total is recomputed",
			raw:  "SIMILARITY: 42\nGITHUB: 15\nTOTAL: 90",
			want: ScoreRecord{Impact: 4, Format: 4, Language: 4, Skills: 4, Similarity: 42, GitHub: 15, Total: 73},
		},
		{
			name: "small drift moves similarity",
			raw:  "IMPACT: 4\nFORMAT: 4\nLANGUAGE: 4\nSKILLS: 4\nSIMILARITY: 42\nGITHUB: 15\nTOTAL: 77",
			want: ScoreRecord{Impact: 4, Format: 4, Language: 4, Skills: 4, Similarity: 46, GitHub: 15, Total: 77},
		},
		{
			name: "similarity clamp forces total back to the sum",
			raw:  "IMPACT: 0\nFORMAT: 0\nLANGUAGE: 0\nSKILLS: 0\nSIMILARITY: 60\nGITHUB: 20\nTOTAL: 84",
			want: ScoreRecord{Similarity: 60, GitHub: 20, Total: 80},
		},
		{
			name: "empty answer gets defaults",
			raw:  "",
			want: ScoreRecord{Impact: 4, Format: 4, Language: 4, Skills: 4, Similarity: 30, GitHub: 15, Total: 61},
		},
		{
			name: "out of range values are replaced",
			raw:  "IMPACT: 9\nFORMAT: 3\nLANGUAGE: 5\nSKILLS: 2\nSIMILARITY: 75\nGITHUB: 44\nTOTAL: 12",
			want: ScoreRecord{Impact: 4, Format: 3, Language: 5, Skills: 2, Similarity: 30, GitHub: 15, Total: 59},
		},
		{
			name: "missing similarity inferred from high total",
			raw:  "IMPACT: 4\nFORMAT: 4\nLANGUAGE: 4\nSKILLS: 4\nGITHUB: 15\nTOTAL: 80",
			want: ScoreRecord{Impact: 4, Format: 4, Language: 4, Skills: 4, Similarity: 42, GitHub: 15, Total: 73},
		},
		{
			name: "missing similarity inferred from medium total",
			raw:  "IMPACT: 4\nFORMAT: 4\nLANGUAGE: 4\nSKILLS: 4\nGITHUB: 15\nTOTAL: 60",
			want: ScoreRecord{Impact: 4, Format: 4, Language: 4, Skills: 4, Similarity: 36, GitHub: 15, Total: 67},
		},
		{
			name: "markdown decorated lines",
			raw:  "Here are the scores:\n**IMPACT**: 5\n- FORMAT: 3 points\n## Language: 4/5\nskills: 5\nSimilarity: 48 out of 60\nGitHub: 12\nTOTAL: 81",
			want: ScoreRecord{Impact: 5, Format: 3, Language: 4, Skills: 5, Similarity: 52, GitHub: 12, Total: 81},
		},
		{
			name: "later line overrides earlier one",
			raw:  "GITHUB: 3\nGITHUB: 10",
			want: ScoreRecord{Impact: 4, Format: 4, Language: 4, Skills: 4, Similarity: 30, GitHub: 10, Total: 56},
		},
		{
			name: "json object with mixed key case and value types",
			raw:  `Sure! {"impact": 5, "Format": "3/5", "language": 4.7, "skills": true, "similarity": 50, "github": 18, "total": 80}`,
			want: ScoreRecord{Impact: 5, Format: 3, Language: 4, Skills: 4, Similarity: 46, GitHub: 18, Total: 80},
		},
		{
			name: "json without usable values falls back to lines",
			raw:  "{\"note\": \"n/a\"}\nIMPACT: 2\nTOTAL: 63",
			want: ScoreRecord{Impact: 2, Format: 4, Language: 4, Skills: 4, Similarity: 34, GitHub: 15, Total: 63},
		},
		{
			name: "oversized number is out of range",
			raw:  "SIMILARITY: 99999999999999999999999\nTOTAL: 73",
			want: ScoreRecord{Impact: 4, Format: 4, Language: 4, Skills: 4, Similarity: 36, GitHub: 15, Total: 67},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.raw)
			if got != tt.want {
				t.Fatalf("unexpected record\n got: %+v\nwant: %+v", got, tt.want)
			}
			assertInvariants(t, got)
		})
	}
}

func TestReconcileNeverProducesInvalidRecords(t *testing.T) {
	inputs := []string{
		"I cannot score this resume.",
		"TOTAL: 100",
		"TOTAL: 0\nSIMILARITY: 60\nGITHUB: 20",
		"IMPACT: -3\nFORMAT: five",
		"{\"TOTAL\": -40, \"SIMILARITY\": null}",
		"{broken json IMPACT: 5",
		strings.Repeat("SKILLS: 5\n", 1000),
		"IMPACT: 5\nFORMAT: 5\nLANGUAGE: 5\nSKILLS: 5\nSIMILARITY: 60\nGITHUB: 20\nTOTAL: 100",
		"\x00\xff:\xfe",
	}

	for _, raw := range inputs {
		assertInvariants(t, Reconcile(raw))
	}
}

func TestReconcileIsIdempotentOnRenderedRecords(t *testing.T) {
	inputs := []string{
		"",
		"TOTAL: 95",
		"IMPACT: 1\nFORMAT: 2\nLANGUAGE: 3\nSKILLS: 0\nSIMILARITY: 10\nGITHUB: 0\nTOTAL: 16",
		`{"impact": 5, "similarity": 59, "github": 20, "total": 100}`,
	}

	for _, raw := range inputs {
		first := Reconcile(raw)
		second := Reconcile(first.String())
		if first != second {
			t.Fatalf("reconcile is not idempotent for %q: %+v then %+v", raw, first, second)
		}
	}
}
