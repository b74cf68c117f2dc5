package domain

// RemoteFile identifies an uploaded backup in the cloud bucket
type RemoteFile struct {
	Bucket    string
	Key       string
	Location  string
	ETag      string
	VersionID string
	Size      int64
}

// RunOutcome describes a successful backup run
type RunOutcome struct {
	RunID            string
	ArchivePath      string
	ArchiveSize      int64
	Directories      []StateDirectory
	ArchivedPrevious string // Path of the previous backup after rotation, empty if none
	DeletedPrevious  bool
	Verified         bool
	Remote           *RemoteFile // nil unless cloud backups are enabled
}
