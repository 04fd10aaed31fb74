package scoring

import (
	"strings"
	"testing"
)

const backendJob = "Job Title: Backend Engineer\nSkills Requirements:\n- Go\n- Kubernetes\n- PostgreSQL\n- Redis\n\nExperience Requirements:\n3+ years"

func TestGenerateFeedbackInvitesStrongCandidates(t *testing.T) {
	got := GenerateFeedback(73, 16, 42, 15, backendJob)

	want := "Your profile shows good potential for Backend Engineer. You meet many of our key requirements, though there may be areas for improvement.\n\n" +
		"Your resume is well-structured with clear achievements and professional presentation. " +
		"Your background shows some alignment (70%) with our requirements, but there are some key skills or experiences missing. " +
		"Your GitHub projects show good technical capabilities, though more relevant work would strengthen your application.\n\n" +
		"We'd like to invite you to the next stage of our interview process. Our team will contact you shortly with more details."

	if got != want {
		t.Fatalf("unexpected feedback\n got: %q\nwant: %q", got, want)
	}
}

func TestGenerateFeedbackSuggestsImprovements(t *testing.T) {
	got := GenerateFeedback(40, 8, 20, 12, backendJob)

	wantSuffix := "For future applications, we recommend the following improvements:\n" +
		"• Your resume would benefit from a complete overhaul. Consider using industry-standard templates and focusing on quantifiable achievements rather than just listing responsibilities.\n" +
		"• Focus on developing these key skills that were missing from your application: Go, Kubernetes, PostgreSQL\n\n" +
		"We encourage you to apply for future positions that better match your skill set and experience level."

	if !strings.HasSuffix(got, wantSuffix) {
		t.Fatalf("unexpected suggestions\n got: %q\nwant suffix: %q", got, wantSuffix)
	}
	if !strings.HasPrefix(got, "Thank you for your application for Backend Engineer.") {
		t.Fatalf("unexpected overall sentence: %q", got)
	}
	if !strings.Contains(got, "limited alignment (33%)") {
		t.Fatalf("expected similarity percentage in %q", got)
	}
}

func TestGenerateFeedbackTiers(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		parameter  int
		similarity int
		github     int
		job        string
		contains   []string
	}{
		{
			name:       "excellent",
			total:      92,
			parameter:  18,
			similarity: 55,
			github:     19,
			job:        "Job Title: SRE",
			contains: []string{
				"Congratulations! Your profile is an excellent match for SRE.",
				"Your skills and experience are 92% aligned",
				"impressive technical skills",
				"invite you to the next stage",
			},
		},
		{
			name:       "partial without title",
			total:      55,
			parameter:  11,
			similarity: 30,
			github:     12,
			job:        "no structure at all",
			contains: []string{
				"Thank you for your interest in this position.",
				"Your resume would benefit from significant improvements",
				"To improve your resume:",
				"Review the job requirements carefully",
			},
		},
		{
			name:       "no github",
			total:      45,
			parameter:  15,
			similarity: 30,
			github:     0,
			job:        "Job Title: Analyst",
			contains: []string{
				"Adding relevant technical projects to a public repository",
				"Creating a GitHub portfolio with projects relevant to this role",
			},
		},
		{
			name:       "weak github",
			total:      58,
			parameter:  16,
			similarity: 36,
			github:     6,
			job:        "Job Title: Analyst",
			contains: []string{
				"While you have some GitHub projects",
				"Improve your GitHub portfolio by adding more projects",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateFeedback(tt.total, tt.parameter, tt.similarity, tt.github, tt.job)
			for _, fragment := range tt.contains {
				if !strings.Contains(got, fragment) {
					t.Fatalf("feedback %q does not contain %q", got, fragment)
				}
			}
		})
	}
}

func TestBulletSkillsLimitsToThree(t *testing.T) {
	got := bulletSkills("• Go\nplain line\n- Rust\n-  \n- Terraform\n- Ansible")
	want := []string{"Go", "Rust", "Terraform"}

	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected skills %v", got)
	}
}
