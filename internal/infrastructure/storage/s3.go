package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	infraconfig "github.com/bookpress/backend/internal/infrastructure/config"
)

// S3Storage implements PrintFileStorage on any S3-compatible store
// (AWS S3, MinIO, RustFS). Downloads are served through presigned URLs.
type S3Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	prefix        string
	presignTTL    time.Duration
	logger        *zap.Logger
}

// NewS3Storage creates an S3 backend from configuration
func NewS3Storage(cfg *infraconfig.StorageConfig, logger *zap.Logger) (*S3Storage, error) {
	if cfg == nil {
		return nil, errors.New("storage: configuration is required")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("storage: S3 bucket is required")
	}
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, errors.New("storage: S3 credentials are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey, cfg.S3SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	})

	ttl := cfg.S3PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Storage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.S3Bucket,
		prefix:        strings.Trim(cfg.S3Prefix, "/"),
		presignTTL:    ttl,
		logger:        logger,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup.
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("storage: failed to check bucket existence: %w", err)
	}

	s.logger.Info("creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Another process may have created it between head and create
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("storage: failed to create bucket: %w", err)
	}
	return nil
}

// Store uploads the PDF and returns its key plus a presigned download URL
func (s *S3Storage) Store(ctx context.Context, req *StoreRequest) (*StoredFile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	key := s.objectKey(req.ProjectID, now, req.JobID)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(req.PDFData),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: failed to upload print file: %w", err)
	}

	presigned, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return nil, fmt.Errorf("storage: failed to presign download URL: %w", err)
	}

	s.logger.Info("print file uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size_bytes", len(req.PDFData)))

	return &StoredFile{
		Key:      key,
		URL:      presigned.URL,
		Size:     int64(len(req.PDFData)),
		StoredAt: now,
	}, nil
}

// Retrieve reads a stored print file back
func (s *S3Storage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidFileID
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("storage: failed to fetch print file: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to read print file: %w", err)
	}
	return data, nil
}

// Delete removes a stored print file
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidFileID
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: failed to delete print file: %w", err)
	}
	return nil
}

// CleanupExpired lists objects under the prefix and deletes those older
// than the retention window.
func (s *S3Storage) CleanupExpired(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention)
	removed := 0

	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix + "/")
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return removed, fmt.Errorf("storage: failed to list print files: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.LastModified == nil || obj.LastModified.After(cutoff) {
				continue
			}
			_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return removed, fmt.Errorf("storage: failed to delete expired file: %w", err)
			}
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("expired print files removed",
			zap.String("bucket", s.bucket),
			zap.Int("count", removed))
	}
	return removed, nil
}

func (s *S3Storage) objectKey(projectID string, t time.Time, jobID string) string {
	key := path.Join(projectID, t.Format("2006"), t.Format("01"), jobID+".pdf")
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	return key
}

// Ensure S3Storage implements PrintFileStorage
var _ PrintFileStorage = (*S3Storage)(nil)
