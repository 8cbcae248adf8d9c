package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     App     `mapstructure:"app"`
	NewsAPI NewsAPI `mapstructure:"newsapi"`
	LLM     LLM     `mapstructure:"llm"`
	GitHub  GitHub  `mapstructure:"github"`
	Feeds   Feeds   `mapstructure:"feeds"`
	Email   Email   `mapstructure:"email"`
	Push    Push    `mapstructure:"push"`
}

// App holds general application configuration
type App struct {
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"timezone"`
}

// NewsAPI holds NewsAPI.org configuration
type NewsAPI struct {
	APIKey string `mapstructure:"api_key"`
	Query  string `mapstructure:"query"`
}

// LLM holds the chat-completion endpoint configuration
type LLM struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// GitHub holds GitHub search configuration
type GitHub struct {
	Token string `mapstructure:"token"`
}

// Feeds holds RSS feed configuration
type Feeds struct {
	URLs      []string `mapstructure:"urls"`
	UserAgent string   `mapstructure:"user_agent"`
}

// Email holds email delivery configuration
type Email struct {
	From             string `mapstructure:"from"`
	To               string `mapstructure:"to"`
	GmailAppPassword string `mapstructure:"gmail_app_password"`
	SendGridAPIKey   string `mapstructure:"sendgrid_api_key"`
}

// Push holds push notification configuration
type Push struct {
	PushbulletAPIKey string `mapstructure:"pushbullet_api_key"`
}

const defaultNewsQuery = "(mortgage OR lending OR loan) AND (AI OR automation OR OCR OR workflow OR lead generation OR document processing)"

var defaultFeeds = []string{
	"https://www.finextra.com/rss/headlines.aspx",
	"https://www.housingwire.com/feed/",
	"https://www.pymnts.com/feed/",
}

// Load loads configuration from a .env file, environment variables, and an
// optional config file, in increasing order of specificity.
func Load(configFile string) (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".mortgagebrief")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.timezone", "America/New_York")

	viper.SetDefault("newsapi.query", defaultNewsQuery)

	viper.SetDefault("llm.base_url", "https://nano-gpt.com/api/v1")
	viper.SetDefault("llm.model", "gpt-4o-mini")

	viper.SetDefault("feeds.urls", defaultFeeds)
	viper.SetDefault("feeds.user_agent", "MortgageBrief/1.0")
}

// bindEnvironmentVariables maps the flat environment variable names used in
// deployment to their config keys.
func bindEnvironmentVariables() {
	bindEnvKeys("newsapi.api_key", []string{"NEWSAPI_KEY"})
	bindEnvKeys("newsapi.query", []string{"NEWSAPI_QUERY"})
	bindEnvKeys("llm.api_key", []string{"NANOGPT_API_KEY", "LLM_API_KEY"})
	bindEnvKeys("llm.base_url", []string{"NANOGPT_BASE_URL"})
	bindEnvKeys("llm.model", []string{"NANOGPT_MODEL"})
	bindEnvKeys("github.token", []string{"GITHUB_TOKEN"})
	bindEnvKeys("feeds.urls", []string{"RSS_FEEDS"})
	bindEnvKeys("email.from", []string{"EMAIL_FROM"})
	bindEnvKeys("email.to", []string{"EMAIL_TO"})
	bindEnvKeys("email.gmail_app_password", []string{"GMAIL_APP_PASSWORD"})
	bindEnvKeys("email.sendgrid_api_key", []string{"SENDGRID_API_KEY"})
	bindEnvKeys("push.pushbullet_api_key", []string{"PUSHBULLET_API_KEY"})
	bindEnvKeys("app.log_level", []string{"LOG_LEVEL"})
	bindEnvKeys("app.timezone", []string{"TIMEZONE"})
}

// bindEnvKeys binds a config key to one or more environment variable names
func bindEnvKeys(configKey string, envKeys []string) {
	for _, envKey := range envKeys {
		_ = viper.BindEnv(configKey, envKey)
	}
}

// Validate checks required configuration and returns the list of missing keys.
// An empty list means the configuration is usable.
func (c *Config) Validate() []string {
	var missing []string
	if c.NewsAPI.APIKey == "" {
		missing = append(missing, "NEWSAPI_KEY")
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, "NANOGPT_API_KEY")
	}
	if !c.HasEmail() && !c.HasPushbullet() {
		missing = append(missing, "Email (GMAIL_APP_PASSWORD or SENDGRID_API_KEY) or PUSHBULLET_API_KEY")
	}
	return missing
}

// HasEmail reports whether an email delivery channel is configured.
func (c *Config) HasEmail() bool {
	hasGmail := c.Email.GmailAppPassword != "" && c.Email.From != "" && c.Email.To != ""
	hasSendGrid := c.Email.SendGridAPIKey != "" && c.Email.From != "" && c.Email.To != ""
	return hasGmail || hasSendGrid
}

// HasPushbullet reports whether Pushbullet delivery is configured.
func (c *Config) HasPushbullet() bool {
	return c.Push.PushbulletAPIKey != ""
}

// FeedURLs returns the configured feed URLs, splitting a comma-separated
// RSS_FEEDS value when it arrived through the environment.
func (c *Config) FeedURLs() []string {
	if len(c.Feeds.URLs) == 1 && strings.Contains(c.Feeds.URLs[0], ",") {
		parts := strings.Split(c.Feeds.URLs[0], ",")
		urls := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				urls = append(urls, trimmed)
			}
		}
		return urls
	}
	return c.Feeds.URLs
}
