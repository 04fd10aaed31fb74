package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	defaultJobTitle = "this position"
	inviteThreshold = 70
	maxSkillHints   = 3
)

var (
	jobTitlePattern      = regexp.MustCompile(`Job Title:\s*([^\n]+)`)
	skillsSectionPattern = regexp.MustCompile(`(?s)Skills Requirements:(.*?)(?:\n\n|$)`)
	bulletPrefixPattern  = regexp.MustCompile(`^[•\-\s]+`)
)

// GenerateFeedback writes candidate-facing feedback for the given scores.
// The job title and skills are read from the job description when present.
func GenerateFeedback(total, parameter, similarity, github int, jobDescription string) string {
	jobTitle := defaultJobTitle
	if match := jobTitlePattern.FindStringSubmatch(jobDescription); match != nil {
		jobTitle = strings.TrimSpace(match[1])
	}

	skillsSection := ""
	if match := skillsSectionPattern.FindStringSubmatch(jobDescription); match != nil {
		skillsSection = strings.TrimSpace(match[1])
	}

	feedback := fmt.Sprintf("%s\n\n%s %s %s",
		overallFeedback(total, jobTitle),
		resumeFeedback(parameter),
		similarityFeedback(similarity),
		githubFeedback(github),
	)

	if total >= inviteThreshold {
		return feedback + "\n\nWe'd like to invite you to the next stage of our interview process. Our team will contact you shortly with more details."
	}

	return feedback + "\n\n" + improvementSuggestions(parameter, similarity, github, skillsSection)
}

func overallFeedback(total int, jobTitle string) string {
	switch {
	case total >= 85:
		return fmt.Sprintf("Congratulations! Your profile is an excellent match for %s. Your resume demonstrates strong qualifications that align well with our requirements.", jobTitle)
	case total >= 70:
		return fmt.Sprintf("Your profile shows good potential for %s. You meet many of our key requirements, though there may be areas for improvement.", jobTitle)
	case total >= 50:
		return fmt.Sprintf("Thank you for your interest in %s. While you have some relevant qualifications, your profile doesn't fully align with our current requirements.", jobTitle)
	default:
		return fmt.Sprintf("Thank you for your application for %s. Unfortunately, your current qualifications don't match our requirements for this particular role.", jobTitle)
	}
}

func resumeFeedback(parameter int) string {
	switch {
	case parameter >= 16:
		return "Your resume is well-structured with clear achievements and professional presentation."
	case parameter >= 12:
		return "Your resume is satisfactory but could be improved with more quantifiable achievements and clearer organization."
	default:
		return "Your resume would benefit from significant improvements in structure, clarity, and highlighting specific achievements."
	}
}

func similarityFeedback(similarity int) string {
	percent := int(math.Round(float64(similarity) / MaxSimilarity * 100))

	switch {
	case similarity >= 45:
		return fmt.Sprintf("Your skills and experience are %d%% aligned with our requirements for this role.", percent)
	case similarity >= 30:
		return fmt.Sprintf("Your background shows some alignment (%d%%) with our requirements, but there are some key skills or experiences missing.", percent)
	default:
		return fmt.Sprintf("Your current skill set shows limited alignment (%d%%) with the specific requirements for this position.", percent)
	}
}

func githubFeedback(github int) string {
	switch {
	case github >= 16:
		return "Your GitHub portfolio demonstrates impressive technical skills directly relevant to this position."
	case github >= 10:
		return "Your GitHub projects show good technical capabilities, though more relevant work would strengthen your application."
	case github > 0:
		return "While you have some GitHub projects, they don't strongly demonstrate the technical skills we're looking for."
	default:
		return "Adding relevant technical projects to a public repository would significantly strengthen your application."
	}
}

type area int

const (
	areaResume area = iota
	areaSkills
	areaGitHub
)

func improvementSuggestions(parameter, similarity, github int, skillsSection string) string {
	ratios := [...]float64{
		areaResume: float64(parameter) / MaxParameter,
		areaSkills: float64(similarity) / MaxSimilarity,
		areaGitHub: float64(github) / MaxGitHub,
	}

	// First lowest ratio wins.
	weakest := areaResume
	for a := areaSkills; a <= areaGitHub; a++ {
		if ratios[a] < ratios[weakest] {
			weakest = a
		}
	}

	var suggestions []string

	if weakest == areaResume || ratios[areaResume] < 0.6 {
		if parameter < 10 {
			suggestions = append(suggestions, "Your resume would benefit from a complete overhaul. Consider using industry-standard templates and focusing on quantifiable achievements rather than just listing responsibilities.")
		} else {
			suggestions = append(suggestions, "To improve your resume: Add specific metrics and outcomes to your achievements, ensure consistent formatting, and tailor your experience descriptions to highlight relevant skills.")
		}
	}

	if weakest == areaSkills || ratios[areaSkills] < 0.5 {
		if skills := bulletSkills(skillsSection); len(skills) > 0 {
			suggestions = append(suggestions, "Focus on developing these key skills that were missing from your application: "+strings.Join(skills, ", "))
		} else {
			suggestions = append(suggestions, "Review the job requirements carefully and focus on acquiring the specific technical skills mentioned in the posting.")
		}
	}

	if weakest == areaGitHub || ratios[areaGitHub] < 0.5 {
		if github == 0 {
			suggestions = append(suggestions, "Creating a GitHub portfolio with projects relevant to this role would significantly strengthen future applications.")
		} else {
			suggestions = append(suggestions, "Improve your GitHub portfolio by adding more projects that demonstrate the specific technical skills required for this position, ensuring they have clear documentation and follow best practices.")
		}
	}

	const encouragement = "We encourage you to apply for future positions that better match your skill set and experience level."

	if len(suggestions) == 0 {
		return "For future applications, consider focusing on developing skills in specific areas mentioned in the job description and showcasing relevant projects. " + encouragement
	}

	return "For future applications, we recommend the following improvements:\n• " + strings.Join(suggestions, "\n• ") + "\n\n" + encouragement
}

// bulletSkills returns up to three bulleted entries of a skills section.
func bulletSkills(section string) []string {
	if section == "" {
		return nil
	}

	var skills []string
	for _, line := range strings.Split(section, "\n") {
		if !strings.ContainsAny(line, "-•") {
			continue
		}

		skill := strings.TrimSpace(bulletPrefixPattern.ReplaceAllString(line, ""))
		if skill == "" {
			continue
		}

		skills = append(skills, skill)
		if len(skills) == maxSkillHints {
			break
		}
	}

	return skills
}
