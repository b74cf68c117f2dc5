package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	appconfig "savekeeper/internal/config"
	"savekeeper/internal/core/domain"
	"savekeeper/internal/core/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
)

// B2Client is the part of the S3 API used against the Backblaze B2 endpoint
type B2Client interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	manager.UploadAPIClient
}

// B2Uploader error constants
var (
	ErrB2UploaderClientNil  = errors.New("B2 client cannot be nil")
	ErrB2UploaderBucketNil  = errors.New("bucket cannot be empty")
	ErrB2UploaderLoggerNil  = errors.New("logger cannot be nil")
	ErrB2UploaderContextNil = errors.New("context cannot be nil")
	ErrB2UploaderNil        = errors.New("B2 uploader cannot be nil")
	ErrB2SettingsNil        = errors.New("settings cannot be nil")
)

// B2Uploader pushes backup archives to a Backblaze B2 bucket through its
// S3 compatible API using multipart uploads
type B2Uploader struct {
	client   B2Client
	uploader *manager.Uploader
	bucket   string
	logger   *slog.Logger
}

// Compile-time check to ensure B2Uploader implements ports.CloudUploader
var _ ports.CloudUploader = (*B2Uploader)(nil)

func setupB2Client(ctx context.Context, settings *appconfig.Settings) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(settings.B2KeyID, settings.B2ApplicationKey, "")),
		config.WithRegion(settings.B2Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := settings.B2Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf(appconfig.B2EndpointFormat, settings.B2Region)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// NewB2Uploader creates an uploader from the B2 credentials in settings
func NewB2Uploader(ctx context.Context, settings *appconfig.Settings, logger *slog.Logger) (*B2Uploader, error) {
	if settings == nil {
		return nil, ErrB2SettingsNil
	}

	client, err := setupB2Client(ctx, settings)
	if err != nil {
		return nil, err
	}

	return NewB2UploaderWithClient(client, settings.B2BucketName, logger)
}

// NewB2UploaderWithClient creates an uploader over an existing client.
// Uses 5 MB parts uploaded sequentially to keep memory flat.
func NewB2UploaderWithClient(client B2Client, bucket string, logger *slog.Logger) (*B2Uploader, error) {
	if client == nil {
		return nil, ErrB2UploaderClientNil
	}
	if bucket == "" {
		return nil, ErrB2UploaderBucketNil
	}
	if logger == nil {
		return nil, ErrB2UploaderLoggerNil
	}

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = appconfig.S3PartSize
		u.Concurrency = appconfig.S3Concurrency
	})

	return &B2Uploader{
		client:   client,
		uploader: uploader,
		bucket:   bucket,
		logger:   logger,
	}, nil
}

// Upload authenticates against the bucket and stores localPath under its base name
func (u *B2Uploader) Upload(ctx context.Context, localPath string) (*domain.RemoteFile, error) {
	if u == nil {
		return nil, ErrB2UploaderNil
	}
	if ctx == nil {
		return nil, ErrB2UploaderContextNil
	}

	if _, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(u.bucket)}); err != nil {
		return nil, fmt.Errorf("%w: failed to authenticate with bucket %s: %w", domain.ErrCloudUpload, u.bucket, err)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", domain.ErrCloudUpload, localPath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat %s: %w", domain.ErrCloudUpload, localPath, err)
	}

	key := filepath.Base(localPath)
	u.logger.Info("Starting upload", "bucket", u.bucket, "key", key, "size", humanize.Bytes(uint64(info.Size())))
	pr := newProgressReader(file, key, info.Size(), u.logger)

	out, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        pr,
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to upload %s: %w", domain.ErrCloudUpload, key, err)
	}

	uploaded := atomic.LoadInt64(&pr.bytesRead)
	u.logger.Info("Upload completed", "bucket", u.bucket, "key", key, "total", humanize.Bytes(uint64(uploaded)))

	return &domain.RemoteFile{
		Bucket:    u.bucket,
		Key:       key,
		Location:  out.Location,
		ETag:      aws.ToString(out.ETag),
		VersionID: aws.ToString(out.VersionID),
		Size:      uploaded,
	}, nil
}

// progressReader wraps a reader and logs upload progress
type progressReader struct {
	reader        io.Reader
	key           string
	bytesRead     int64
	estimatedSize int64
	lastLogTime   time.Time
	logInterval   time.Duration
	logger        *slog.Logger
}

func newProgressReader(r io.Reader, key string, estimatedSize int64, logger *slog.Logger) *progressReader {
	return &progressReader{
		reader:        r,
		key:           key,
		estimatedSize: estimatedSize,
		lastLogTime:   time.Now(),
		logInterval:   5 * time.Second,
		logger:        logger,
	}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		atomic.AddInt64(&pr.bytesRead, int64(n))
		now := time.Now()
		if now.Sub(pr.lastLogTime) >= pr.logInterval {
			pr.lastLogTime = now
			bytesRead := atomic.LoadInt64(&pr.bytesRead)
			if pr.estimatedSize > 0 {
				pct := float64(bytesRead) / float64(pr.estimatedSize) * 100
				if pct > 100 {
					pct = 99 // Cap at 99% until complete
				}
				pr.logger.Info("Upload progress", "key", pr.key, "uploaded", humanize.Bytes(uint64(bytesRead)), "percent", fmt.Sprintf("%.1f%%", pct))
			} else {
				pr.logger.Info("Upload progress", "key", pr.key, "uploaded", humanize.Bytes(uint64(bytesRead)))
			}
		}
	}
	return n, err
}
