package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"savekeeper/internal/config"
)

var (
	// activeBackupPattern matches GameStates_<AM|PM>_<14 digits>.zip
	activeBackupPattern = regexp.MustCompile(`^GameStates_(AM|PM)_\d{14}\.zip$`)
	// archivedBackupPattern matches any backup name ending in _Archive_<14 digits>.zip
	archivedBackupPattern = regexp.MustCompile(`^GameStates_.*_Archive_\d{14}\.zip$`)
)

// StateDirectory is a save-state folder discovered under the save root
type StateDirectory struct {
	Path    string
	ModTime time.Time
}

// SessionSuffix returns "AM" before local noon and "PM" from noon on
func SessionSuffix(t time.Time) string {
	if t.Hour() < 12 {
		return config.SessionMorning
	}
	return config.SessionAfternoon
}

// ArchiveName builds GameStates_<suffix>_<YYYYMMDDHHMMSS>.zip
func ArchiveName(suffix string, t time.Time) string {
	return fmt.Sprintf("%s%s_%s%s", config.StatePrefix, suffix, t.Format(config.TimestampFormat), config.BackupExtension)
}

// ArchivedName inserts _Archive_<YYYYMMDDHHMMSS> before the extension of name
func ArchivedName(name string, t time.Time) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return stem + config.ArchiveMarker + t.Format(config.TimestampFormat) + ext
}

// IsActiveBackup reports whether name is a backup not yet superseded
func IsActiveBackup(name string) bool {
	return activeBackupPattern.MatchString(name)
}

// IsArchivedBackup reports whether name has already been rotated
func IsArchivedBackup(name string) bool {
	return archivedBackupPattern.MatchString(name)
}

// IsBackupCandidate reports whether name falls under the rotator's GameStates_*.zip scan
func IsBackupCandidate(name string) bool {
	matched, err := filepath.Match(config.BackupGlob, name)
	return err == nil && matched
}

// IsStateDirectoryName reports whether a save-root entry name looks like a save state
func IsStateDirectoryName(name string) bool {
	return strings.HasPrefix(name, config.StatePrefix)
}
