package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the original dashboard project setup. Everything can be
// overridden through the environment or, for the rate table, a YAML file.
const (
	DefaultBAC         = 12940.0
	DefaultPlannedDays = 156
	DefaultRate        = 35.0
	DefaultRoleField   = "customfield_10041"
	DefaultLookback    = 14
)

type Config struct {
	Jira   JiraConfig
	GitHub GitHubConfig
	Budget BudgetConfig
	Google GoogleConfig
	Output OutputConfig

	HTTPTimeout time.Duration
}

type JiraConfig struct {
	BaseURL    string
	Email      string
	Token      string
	ProjectKey string
	RoleField  string
	SprintName string
}

type GitHubConfig struct {
	Token        string
	Org          string
	LookbackDays int
}

type BudgetConfig struct {
	BAC         float64
	PlannedDays int
	Rates       map[string]float64
	DefaultRate float64
}

type GoogleConfig struct {
	CredentialsJSON string
	SpreadsheetID   string
	SpreadsheetName string
}

type OutputConfig struct {
	Directory string
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Jira: JiraConfig{
			BaseURL:    os.Getenv("JIRA_URL"),
			Email:      os.Getenv("JIRA_EMAIL"),
			Token:      getEnvOrDefault("JIRA_TOKEN", os.Getenv("JIRA_API_TOKEN")),
			ProjectKey: getEnvOrDefault("JIRA_PROJECT_KEY", "NT"),
			RoleField:  getEnvOrDefault("JIRA_ROLE_FIELD", DefaultRoleField),
			SprintName: os.Getenv("JIRA_SPRINT_NAME"),
		},
		GitHub: GitHubConfig{
			Token:        os.Getenv("ORG_GITHUB_TOKEN"),
			Org:          os.Getenv("GITHUB_ORG"),
			LookbackDays: getEnvInt("LOOKBACK_DAYS", DefaultLookback),
		},
		Budget: BudgetConfig{
			BAC:         getEnvFloat("EVM_BAC", DefaultBAC),
			PlannedDays: getEnvInt("EVM_PLANNED_DAYS", DefaultPlannedDays),
			Rates:       defaultRates(),
			DefaultRate: getEnvFloat("EVM_DEFAULT_RATE", DefaultRate),
		},
		Google: GoogleConfig{
			CredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
			SpreadsheetID:   os.Getenv("GOOGLE_SPREADSHEET_ID"),
			SpreadsheetName: getEnvOrDefault("SPREADSHEET_NAME", "notip-dashboard"),
		},
		Output: OutputConfig{
			Directory: getEnvOrDefault("OUTPUT_DIR", "data"),
		},
		HTTPTimeout: 30 * time.Second,
	}

	if ratesFile := os.Getenv("RATES_FILE"); ratesFile != "" {
		rates, defaultRate, err := LoadRates(ratesFile)
		if err != nil {
			return nil, fmt.Errorf("loading rates file: %w", err)
		}
		cfg.Budget.Rates = rates
		if defaultRate > 0 {
			cfg.Budget.DefaultRate = defaultRate
		}
	}

	return cfg, nil
}

// rateTableFile models the optional YAML file overriding the role rate table.
type rateTableFile struct {
	DefaultRate float64            `yaml:"default_rate"`
	Rates       map[string]float64 `yaml:"rates"`
}

// LoadRates parses a YAML role->hourly-rate table.
func LoadRates(path string) (map[string]float64, float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	var f rateTableFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, 0, err
	}
	if len(f.Rates) == 0 {
		return nil, 0, fmt.Errorf("%s: no rates defined", path)
	}
	return f.Rates, f.DefaultRate, nil
}

// ValidateJira checks the variables every Jira-backed command needs.
func (c *Config) ValidateJira() error {
	var missing []string
	if c.Jira.BaseURL == "" {
		missing = append(missing, "JIRA_URL")
	}
	if c.Jira.Email == "" {
		missing = append(missing, "JIRA_EMAIL")
	}
	if c.Jira.Token == "" {
		missing = append(missing, "JIRA_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateGitHub checks the variables every GitHub-backed command needs.
func (c *Config) ValidateGitHub() error {
	var missing []string
	if c.GitHub.Token == "" {
		missing = append(missing, "ORG_GITHUB_TOKEN")
	}
	if c.GitHub.Org == "" {
		missing = append(missing, "GITHUB_ORG")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateBudget guards the EVM constants before any computation happens.
func (c *Config) ValidateBudget() error {
	if c.Budget.BAC <= 0 {
		return fmt.Errorf("EVM_BAC must be positive, got %v", c.Budget.BAC)
	}
	if c.Budget.PlannedDays <= 0 {
		return fmt.Errorf("EVM_PLANNED_DAYS must be positive, got %d", c.Budget.PlannedDays)
	}
	return nil
}

func (c *Config) ValidateGoogle() error {
	if c.Google.CredentialsJSON == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_JSON environment variable is not set")
	}
	if c.Google.SpreadsheetID == "" {
		return fmt.Errorf("GOOGLE_SPREADSHEET_ID environment variable is not set")
	}
	return nil
}

func defaultRates() map[string]float64 {
	return map[string]float64{
		"Responsabile":   30,
		"Verificatore":   15,
		"Analista":       25,
		"Amministratore": 20,
		"Progettista":    25,
		"Programmatore":  15,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
