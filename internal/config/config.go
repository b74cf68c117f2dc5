package config

import (
	"os"
	"path/filepath"
)

// Application identity
const (
	AppName = "savekeeper"
)

// Directory and file names
const (
	DefaultSaveDirectory   = "ProjectWar/Saved"
	DefaultBackupDirectory = "Backups"
	DefaultLogFilename     = "backup.log"
	DefaultConfigFilename  = AppName + ".yaml"
	EnvFilename            = ".env"
)

// Backup naming
const (
	StatePrefix      = "GameStates_"
	BackupGlob       = StatePrefix + "*.zip"
	ArchiveMarker    = "_Archive_"
	BackupExtension  = ".zip"
	TimestampFormat  = "20060102150405"
	TimestampLength  = 14
	SessionMorning   = "AM"
	SessionAfternoon = "PM"
)

// Backup configuration
const (
	DefaultMaxStates        = 5
	DefaultCompressionLevel = 6
)

// Notification configuration
const (
	// NotificationsDisabled is the webhook value that turns notifications off
	NotificationsDisabled = "nil"
	// WebhookSuccessStatus is the only status a webhook delivery is considered successful on
	WebhookSuccessStatus = 204
	WebhookMaxErrorBody  = 1024
)

// Log rotation
const (
	LogMaxSizeMB  = 1
	LogMaxBackups = 5
)

// S3/B2 configuration
const (
	S3PartSize    = 5 * 1024 * 1024 // 5 MB parts for multipart upload
	S3Concurrency = 1               // Sequential upload to minimize memory
)

// B2 endpoint format
const (
	DefaultB2Region  = "us-west-004"
	B2EndpointFormat = "https://s3.%s.backblazeb2.com"
)

// File permissions
const (
	DirPermission  = 0755
	FilePermission = 0644
)

// ExecutableDir returns the directory holding the running binary.
// Falls back to the working directory when the executable cannot be resolved.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return "."
		}
		return wd
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
