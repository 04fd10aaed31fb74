package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/jobs"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/notify"
	"github.com/spigell/resume-scorer/internal/resume"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume file against a job posting",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "resume file (.pdf, .txt or .md)")
	scoreCmd.Flags().String("job", "", "id of the job posting from the config")
	scoreCmd.Flags().String("job-file", "", "file with a free-form job description, used instead of a posting")
	scoreCmd.Flags().StringSlice("link", nil, "portfolio link, may be repeated")
	scoreCmd.Flags().Bool("notify", false, "decide and log the candidate notice")
	scoreCmd.Flags().String("name", "", "candidate name used in the notice")
	scoreCmd.Flags().String("email", "", "candidate email used in the notice")

	scoreCmd.MarkFlagRequired("resume")
}

func score(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-scorer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	resumeFile, _ := cmd.Flags().GetString("resume")
	data, err := os.ReadFile(resumeFile)
	if err != nil {
		logger.Fatal("reading resume file", zap.Error(err))
	}

	text, resumeLinks, err := resume.ExtractText(resumeFile, data)
	if err != nil {
		logger.Fatal("extracting resume text", zap.Error(err))
	}

	flagLinks, _ := cmd.Flags().GetStringSlice("link")
	links := mergeLinks(flagLinks, resumeLinks)
	logger.Info("resume loaded", zap.String("file", resumeFile), zap.Int("links", len(links)))

	title, jobDescription, err := resolveJob(cmd, config)
	if err != nil {
		logger.Fatal("resolving job description", zap.Error(err))
	}

	scorer, err := newScorer(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the scorer", zap.Error(err))
	}

	result := scorer.ScoreResume(ctx, text, jobDescription, links)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("encoding result", zap.Error(err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if notifyFlag, _ := cmd.Flags().GetBool("notify"); !notifyFlag {
		return
	}

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")

	decision := notify.Decide(result, threshold(config))
	if err := notify.NewLogNotifier(logger).Notify(ctx, notify.Candidate{Name: name, Email: email}, title, decision); err != nil {
		logger.Error("notifying candidate", zap.Error(err))
	}
}

// resolveJob returns the job title and description to score against.
func resolveJob(cmd *cobra.Command, config *Config) (string, string, error) {
	if jobFile, _ := cmd.Flags().GetString("job-file"); jobFile != "" {
		data, err := os.ReadFile(jobFile)
		if err != nil {
			return "", "", fmt.Errorf("read job description: %w", err)
		}
		return "", string(data), nil
	}

	catalog, err := newCatalog(config)
	if err != nil {
		return "", "", err
	}

	posting, err := selectPosting(catalog, cmd.Flag("job").Value.String())
	if err != nil {
		return "", "", err
	}

	return posting.Title, posting.Description(), nil
}

func selectPosting(catalog *jobs.Catalog, id string) (jobs.Posting, error) {
	if id = strings.TrimSpace(id); id != "" {
		return catalog.FindByID(id)
	}

	switch catalog.Len() {
	case 0:
		return jobs.Posting{}, errors.New("no job postings configured; add them under jobs or pass --job-file")
	case 1:
		return catalog.Postings()[0], nil
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job posting and press ENTER",
		Items: catalog.Titles(),
	}

	idx, _, err := jobPrompt.Run()
	if err != nil {
		return jobs.Posting{}, fmt.Errorf("select job posting: %w", err)
	}

	return catalog.Postings()[idx], nil
}

func mergeLinks(groups ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string

	for _, group := range groups {
		for _, link := range group {
			link = strings.TrimSpace(link)
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
