package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config contains all of the configuration options available to the hangman server
// and its tools.
type Config struct {
	// Hostname or IP address on which the server will listen for connections.
	Hostname string `mapstructure:"hostname"`
	// Port on which the game server will listen.
	Port int `mapstructure:"port"`
	// Maximum number of concurrent games the server will allow.
	MaxConnections int `mapstructure:"max_connections"`
	// Number of incorrect guesses a player gets before losing.
	MaxAttempts int `mapstructure:"max_attempts"`
	// Path to the word list, one word per line.
	WordFile string `mapstructure:"word_file"`
	// Maximum number of words read from the word list.
	MaxWords int `mapstructure:"max_words"`
	// Words longer than this are truncated when the word list is read.
	MaxWordLength int `mapstructure:"max_word_length"`
	// Deadline for each write to a client.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// Disconnect clients that send nothing for this long. Zero disables the timeout.
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout"`
	// How long a word is withheld from a player who was recently given it.
	RecentWordTTL time.Duration `mapstructure:"recent_word_ttl"`

	Logging struct {
		// Minimum level of a log required to be written. Options: debug, info, warn, error
		LogLevel string `mapstructure:"log_level"`
		// Full path to file to which logs will be written. Blank will write to stdout.
		LogFilePath string `mapstructure:"log_file_path"`
		// Include the file and line number of the logging call.
		IncludeCaller bool `mapstructure:"include_caller"`
	} `mapstructure:"logging"`

	Web struct {
		// HTTP port for the status endpoints. Zero disables the HTTP server.
		HTTPPort int `mapstructure:"http_port"`
	} `mapstructure:"web"`

	Database struct {
		// Storage engine for game results: sqlite, postgres, or blank to disable.
		Engine string `mapstructure:"engine"`
		// SQLite database file.
		Filename string `mapstructure:"filename"`
		// Hostname of the Postgres database instance.
		Host string `mapstructure:"host"`
		// Port on host on which the Postgres instance is accepting connections.
		Port int `mapstructure:"port"`
		// Name of the database in Postgres.
		Name string `mapstructure:"name"`
		// Username and password of a user with full RW privileges to Name.
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		// Set to verify-full if the Postgres instance supports SSL.
		SSLMode string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	Debugging struct {
		// Enable extra info-providing mechanisms for the server.
		Enabled bool `mapstructure:"enabled"`
		// Port on which a pprof server will be started if debug mode is enabled.
		PprofPort int `mapstructure:"pprof_port"`
		// Log every protocol message at debug level.
		PacketLoggingEnabled bool `mapstructure:"packet_logging_enabled"`
		// Enable database-level query logging.
		DatabaseLoggingEnabled bool `mapstructure:"database_logging_enabled"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "HANGMAN"

// maxTerminalWordLength keeps the longest outcome message within one length byte.
const maxTerminalWordLength = 0xFF - len("The word was \nYou lose!\nGame Over!")

var defaults = map[string]interface{}{
	"hostname":             "0.0.0.0",
	"port":                 8080,
	"max_connections":      3,
	"max_attempts":         6,
	"word_file":            "hangman_words.txt",
	"max_words":            15,
	"max_word_length":      8,
	"write_timeout":        5 * time.Second,
	"session_idle_timeout": time.Duration(0),
	"recent_word_ttl":      10 * time.Minute,

	"logging.log_level":      "info",
	"logging.log_file_path":  "",
	"logging.include_caller": false,

	"web.http_port": 0,

	"database.engine":   "",
	"database.filename": "hangman.db",
	"database.host":     "localhost",
	"database.port":     5432,
	"database.name":     "hangman",
	"database.username": "",
	"database.password": "",
	"database.sslmode":  "disable",

	"debugging.enabled":                  false,
	"debugging.pprof_port":               4000,
	"debugging.packet_logging_enabled":   false,
	"debugging.database_logging_enabled": false,
}

// LoadConfig reads config.yaml from configPath on top of the default values. A missing
// file is not an error; every option can also be set through the environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if configPath == "" {
		configPath = "."
	}
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envVarPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, database.host can be set using: <envVarPrefix>_DATABASE_HOST
	for _, k := range v.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := v.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			return nil, fmt.Errorf("error binding %s to %s: %w", k, envVarPrefix+"_"+envVar, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config object: %w", err)
	}
	return config, config.Validate()
}

// Validate checks that the options are usable by the server.
func (c *Config) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 0xFFFF:
		return fmt.Errorf("invalid port: %d", c.Port)
	case c.MaxConnections < 1:
		return fmt.Errorf("max_connections must be at least 1, got %d", c.MaxConnections)
	case c.MaxAttempts < 1 || c.MaxAttempts > 26:
		return fmt.Errorf("max_attempts must be between 1 and 26, got %d", c.MaxAttempts)
	case c.WordFile == "":
		return errors.New("word_file must be set")
	case c.MaxWords < 1:
		return fmt.Errorf("max_words must be at least 1, got %d", c.MaxWords)
	case c.MaxWordLength < 1 || c.MaxWordLength > maxTerminalWordLength:
		return fmt.Errorf("max_word_length must be between 1 and %d, got %d", maxTerminalWordLength, c.MaxWordLength)
	case c.WriteTimeout <= 0:
		return fmt.Errorf("write_timeout must be positive, got %v", c.WriteTimeout)
	case c.SessionIdleTimeout < 0:
		return fmt.Errorf("session_idle_timeout must not be negative, got %v", c.SessionIdleTimeout)
	}
	return nil
}

// Address returns the host:port on which the game server listens.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Hostname, c.Port)
}

const databaseURITemplate = "host=%s port=%d dbname=%s user=%s password=%s sslmode=%s"

// DatabaseURL returns a database URL generated from the provided config values.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		databaseURITemplate,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Username,
		c.Database.Password,
		c.Database.SSLMode,
	)
}
