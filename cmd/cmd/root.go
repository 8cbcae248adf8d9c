package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mortgagebrief/internal/collect"
	"mortgagebrief/internal/config"
	"mortgagebrief/internal/email"
	"mortgagebrief/internal/llm"
	"mortgagebrief/internal/logger"
	"mortgagebrief/internal/pipeline"
	"mortgagebrief/internal/push"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mortgagebrief",
	Short: "mortgagebrief assembles and delivers a daily mortgage AI news briefing.",
	Long: `mortgagebrief collects mortgage AI news from NewsAPI, RSS feeds, and
GitHub, deduplicates it, ranks and summarizes the best items with a language
model, and delivers the result by email and/or push notification.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate and deliver today's briefing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger.SetLevel(cfg.App.LogLevel)

		if missing := cfg.Validate(); len(missing) > 0 {
			return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
		}

		location, err := time.LoadLocation(cfg.App.Timezone)
		if err != nil {
			logger.Get().Warn().Str("timezone", cfg.App.Timezone).Msg("Unknown timezone, using UTC")
			location = time.UTC
		}

		collectors := []collect.Collector{
			collect.NewNewsAPICollector(cfg.NewsAPI.APIKey, cfg.NewsAPI.Query),
			collect.NewRSSCollector(cfg.FeedURLs(), cfg.Feeds.UserAgent),
			collect.NewGitHubCollector(cfg.GitHub.Token),
		}

		client := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
		ranker := llm.NewService(client)

		var channels []pipeline.Channel
		if cfg.HasEmail() {
			channels = append(channels, pipeline.Channel{
				Name:      "email",
				Deliverer: email.NewService(cfg.Email),
			})
		}
		if cfg.HasPushbullet() {
			channels = append(channels, pipeline.Channel{
				Name:      "pushbullet",
				Deliverer: push.NewService(cfg.Push.PushbulletAPIKey),
			})
		}

		p := pipeline.New(collectors, ranker, channels, location)
		return p.Run(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Get().Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mortgagebrief.yaml)")
	rootCmd.AddCommand(runCmd)
}
