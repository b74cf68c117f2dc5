package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// ErrConfiguration marks malformed or invalid settings
var ErrConfiguration = errors.New("configuration error")

// Settings is the immutable run configuration.
// It is built once by Load and handed to every component that needs it.
type Settings struct {
	SaveDirectory    string        `koanf:"save_directory" validate:"required"`
	MaxStates        int           `koanf:"max_states" validate:"min=1"`
	Recycle          bool          `koanf:"recycle"`
	CheckIntegrity   bool          `koanf:"check_integrity"`
	CompressionLevel int           `koanf:"compression_level" validate:"min=0,max=9"`
	WebhookURL       string        `koanf:"webhook_url"`
	DiscordUser      string        `koanf:"discord_user"`
	AvatarURL        string        `koanf:"avatar_url"`
	BackupDirectory  string        `koanf:"backup_directory" validate:"required"`
	CloudBackups     bool          `koanf:"cloud_backups"`
	B2BucketName     string        `koanf:"b2_bucket_name" validate:"required_if=CloudBackups true"`
	B2KeyID          string        `koanf:"b2_application_key_id" validate:"required_if=CloudBackups true"`
	B2ApplicationKey string        `koanf:"b2_application_key" validate:"required_if=CloudBackups true"`
	B2Region         string        `koanf:"b2_region"`
	B2Endpoint       string        `koanf:"b2_endpoint" validate:"omitempty,url"`
	LogFile          string        `koanf:"log_file" validate:"required"`
	LogLevel         string        `koanf:"log_level" validate:"oneof=debug info warn warning error"`
	NotifyTimeout    time.Duration `koanf:"notify_timeout" validate:"gt=0"`
	UploadTimeout    time.Duration `koanf:"upload_timeout" validate:"gt=0"`
	MinFreeDiskMB    int           `koanf:"min_free_disk_mb" validate:"min=0"`
}

// LoadOptions controls where Load looks for its inputs
type LoadOptions struct {
	// BaseDir anchors the default backup directory, log file and config file.
	// Defaults to the executable's directory.
	BaseDir string
	// ConfigPath is an explicit YAML file. Empty means search CONFIG_PATH then BaseDir.
	ConfigPath string
	// EnvFile is the dotenv file merged into the process environment. Empty means ".env".
	EnvFile string
}

// envKeys lists every environment variable Load understands
var envKeys = map[string]struct{}{
	"save_directory":        {},
	"max_states":            {},
	"recycle":               {},
	"check_integrity":       {},
	"compression_level":     {},
	"webhook_url":           {},
	"discord_user":          {},
	"avatar_url":            {},
	"backup_directory":      {},
	"cloud_backups":         {},
	"b2_bucket_name":        {},
	"b2_application_key_id": {},
	"b2_application_key":    {},
	"b2_region":             {},
	"b2_endpoint":           {},
	"log_file":              {},
	"log_level":             {},
	"notify_timeout":        {},
	"upload_timeout":        {},
	"min_free_disk_mb":      {},
}

// defaultSettings returns the built-in defaults relative to baseDir
func defaultSettings(baseDir string) *Settings {
	return &Settings{
		SaveDirectory:    DefaultSaveDirectory,
		MaxStates:        DefaultMaxStates,
		Recycle:          false,
		CheckIntegrity:   false,
		CompressionLevel: DefaultCompressionLevel,
		WebhookURL:       NotificationsDisabled,
		BackupDirectory:  filepath.Join(baseDir, DefaultBackupDirectory),
		CloudBackups:     false,
		B2Region:         DefaultB2Region,
		LogFile:          filepath.Join(baseDir, DefaultLogFilename),
		LogLevel:         "info",
		NotifyTimeout:    30 * time.Second,
		UploadTimeout:    30 * time.Minute,
		MinFreeDiskMB:    0,
	}
}

// Load builds Settings from defaults, an optional YAML file, the dotenv file and
// the process environment, in increasing order of priority.
func Load(opts LoadOptions) (*Settings, error) {
	if opts.BaseDir == "" {
		opts.BaseDir = ExecutableDir()
	}
	if opts.EnvFile == "" {
		opts.EnvFile = EnvFilename
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultSettings(opts.BaseDir), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("%w: failed to load defaults: %v", ErrConfiguration, err)
	}

	if configPath := findConfigFile(opts); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: failed to load config file %s: %v", ErrConfiguration, configPath, err)
		}
	}

	// Existing environment variables win over the dotenv file
	if err := godotenv.Load(opts.EnvFile); err != nil {
		slog.Debug("No dotenv file loaded", "path", opts.EnvFile, "error", err)
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("%w: failed to load environment variables: %v", ErrConfiguration, err)
	}

	settings := &Settings{}
	if err := k.Unmarshal("", settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if settings.B2Endpoint == "" {
		settings.B2Endpoint = fmt.Sprintf(B2EndpointFormat, settings.B2Region)
	}
	settings.LogLevel = strings.ToLower(settings.LogLevel)

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// envTransformFunc maps SAVE_DIRECTORY style names onto koanf keys.
// Anything outside envKeys is dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if _, ok := envKeys[key]; !ok {
		return ""
	}
	return key
}

// findConfigFile returns the YAML file to merge, or empty when none exists
func findConfigFile(opts LoadOptions) string {
	candidates := []string{opts.ConfigPath, os.Getenv(ConfigPathEnvVar), filepath.Join(opts.BaseDir, DefaultConfigFilename)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks value ranges that type coercion alone cannot catch
func (s *Settings) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: settings cannot be nil", ErrConfiguration)
	}
	if err := validator.New().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// NotificationsEnabled reports whether a webhook target is configured
func (s *Settings) NotificationsEnabled() bool {
	return s.WebhookURL != NotificationsDisabled && s.WebhookURL != ""
}

// EnsureBackupDirectory creates the backup destination and its parents
func (s *Settings) EnsureBackupDirectory() error {
	if err := os.MkdirAll(s.BackupDirectory, DirPermission); err != nil {
		return fmt.Errorf("failed to create backup directory %s: %w", s.BackupDirectory, err)
	}
	return nil
}
