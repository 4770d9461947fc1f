package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the bridge service. Values come from
// config.defaults.yaml (if present) overridden by APP_-prefixed environment
// variables, e.g. APP_NOTION_API_KEY, APP_DB_HOST.
type Config struct {
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogToFile bool   `mapstructure:"LOG_TO_FILE"`

	// DataDir is the root for daily message/application logs and is also
	// where the external session process keeps its credential cache.
	DataDir string `mapstructure:"DATA_DIR"`

	// Flat-file directory sources, one colon-delimited record per line.
	ContactsFile     string `mapstructure:"CONTACTS_FILE"`      // name:number
	GroupProjectFile string `mapstructure:"GROUP_PROJECT_FILE"` // group:project
	BlocklistFile    string `mapstructure:"BLOCKLIST_FILE"`     // name:chatID
	ProjectSinksFile string `mapstructure:"PROJECT_SINKS_FILE"` // project:apiKey:databaseID

	// Notion sink.
	NotionAPIKey     string `mapstructure:"NOTION_API_KEY"`
	NotionDatabaseID string `mapstructure:"NOTION_DATABASE_ID"`
	NotionBaseURL    string `mapstructure:"NOTION_BASE_URL"`

	// DefaultProjectID is applied to inbound direct messages and to group
	// messages whose group has no mapping. Empty means the "N/A" sentinel.
	DefaultProjectID string `mapstructure:"DEFAULT_PROJECT_ID"`

	// Local account identity, used as sender/recipient for own messages.
	AccountDisplayName string `mapstructure:"ACCOUNT_DISPLAY_NAME"`
	AccountNumber      string `mapstructure:"ACCOUNT_NUMBER"`

	// Relational sink. PostgresDSN, when set, wins over the discrete fields.
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      int    `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_DATABASE"`

	NATSURL string `mapstructure:"NATS_URL"`

	AdminPort int `mapstructure:"ADMIN_PORT"`

	// Sink toggles. Delivery is attempted only for enabled sinks.
	FileSinkEnabled   bool `mapstructure:"FILE_SINK_ENABLED"`
	NotionSinkEnabled bool `mapstructure:"NOTION_SINK_ENABLED"`
	DBSinkEnabled     bool `mapstructure:"DB_SINK_ENABLED"`

	// Block/unblock scheduling.
	CronTimezone    string `mapstructure:"CRON_TIMEZONE"`
	UnblockMorning  string `mapstructure:"UNBLOCK_MORNING_SCHEDULE"`
	BlockNoon       string `mapstructure:"BLOCK_NOON_SCHEDULE"`
	UnblockEvening  string `mapstructure:"UNBLOCK_EVENING_SCHEDULE"`
	BlockNight      string `mapstructure:"BLOCK_NIGHT_SCHEDULE"`
	BlocklistPaceMS int    `mapstructure:"BLOCKLIST_PACE_MS"`
}

// DSN returns the PostgreSQL connection string, composing it from the
// discrete DB_* fields unless POSTGRES_DSN was provided directly.
func (c *Config) DSN() string {
	if c.PostgresDSN != "" {
		return c.PostgresDSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// Load reads configuration for the named service.
func Load(serviceName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("APP")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_TO_FILE", true)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("CONTACTS_FILE", "contactos.txt")
	v.SetDefault("GROUP_PROJECT_FILE", "grupoproyecto.txt")
	v.SetDefault("BLOCKLIST_FILE", "contactosbloquear.txt")
	v.SetDefault("PROJECT_SINKS_FILE", "")
	v.SetDefault("NOTION_API_KEY", "")
	v.SetDefault("NOTION_DATABASE_ID", "")
	v.SetDefault("NOTION_BASE_URL", "https://api.notion.com/v1")
	v.SetDefault("DEFAULT_PROJECT_ID", "")
	v.SetDefault("ACCOUNT_DISPLAY_NAME", "")
	v.SetDefault("ACCOUNT_NUMBER", "")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "bridge")
	v.SetDefault("DB_PASSWORD", "bridge")
	v.SetDefault("DB_DATABASE", "wabridge")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("ADMIN_PORT", 9105)
	v.SetDefault("FILE_SINK_ENABLED", true)
	v.SetDefault("NOTION_SINK_ENABLED", true)
	v.SetDefault("DB_SINK_ENABLED", true)
	v.SetDefault("CRON_TIMEZONE", "America/Mexico_City")
	v.SetDefault("UNBLOCK_MORNING_SCHEDULE", "0 8 * * 0-4,6")
	v.SetDefault("BLOCK_NOON_SCHEDULE", "0 12 * * *")
	v.SetDefault("UNBLOCK_EVENING_SCHEDULE", "0 14 * * 0-4,6")
	v.SetDefault("BLOCK_NIGHT_SCHEDULE", "0 17 * * *")
	v.SetDefault("BLOCKLIST_PACE_MS", 1000)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Base configuration file ('config.defaults.yaml') not found for %s; using defaults and environment variables.", serviceName)
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
