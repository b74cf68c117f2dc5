package domain

import "errors"

// Pipeline error kinds. Callers wrap them with context and classify with errors.Is.
var (
	ErrMissingSaveDirectory = errors.New("save directory does not exist")
	ErrInsufficientDisk     = errors.New("insufficient disk space")
	ErrArchiveIO            = errors.New("archive I/O failure")
	ErrIntegrityCheckFailed = errors.New("backup zip file failed the integrity check")
	ErrCloudUpload          = errors.New("cloud upload failed")

	// ErrNotificationDelivery is logged locally and never aborts a run
	ErrNotificationDelivery = errors.New("notification delivery failed")
)
