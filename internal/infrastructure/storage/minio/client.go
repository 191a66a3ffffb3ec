// Package minio publishes campaign artifacts to an S3-compatible object
// store.
package minio

import (
	"context"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/tinydock/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client used here.
type MinIOAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
	// Prefix is prepended to every object key, without a trailing slash.
	Prefix string
}

type MinIOClient struct {
	client MinIOAPI
	config MinIOConfig
	logger logging.Logger

	mu          sync.Mutex
	bucketReady bool
}

// NewMinIOClient creates a client for cfg.  No request is made until the
// first upload.
func NewMinIOClient(cfg MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	applyDefaults(&cfg)
	if cfg.Endpoint == "" {
		return nil, errors.InvalidConfig("storage.minio.endpoint is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorage, "failed to create minio client")
	}
	return NewMinIOClientWithAPI(client, cfg, log), nil
}

// NewMinIOClientWithAPI wraps an existing API implementation.
func NewMinIOClientWithAPI(api MinIOAPI, cfg MinIOConfig, log logging.Logger) *MinIOClient {
	applyDefaults(&cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &MinIOClient{client: api, config: cfg, logger: log}
}

func applyDefaults(cfg *MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "tinydock"
	}
	cfg.Prefix = strings.Trim(cfg.Prefix, "/")
}

// Bucket returns the target bucket.
func (c *MinIOClient) Bucket() string { return c.config.Bucket }

// ObjectKey joins the configured prefix and key.
func (c *MinIOClient) ObjectKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if c.config.Prefix == "" {
		return key
	}
	return path.Join(c.config.Prefix, key)
}

// EnsureBucket creates the bucket when it does not exist.  A successful check
// is remembered for the lifetime of the client.
func (c *MinIOClient) EnsureBucket(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bucketReady {
		return nil
	}

	bucket := c.config.Bucket
	exists, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, errors.CodeStorage, "failed to check bucket existence").WithDetail("bucket=" + bucket)
	}
	if !exists {
		if err := c.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
			return errors.Wrap(err, errors.CodeStorage, "failed to create bucket").WithDetail("bucket=" + bucket)
		}
		c.logger.Info("Created bucket", logging.String("bucket", bucket))
	}
	c.bucketReady = true
	return nil
}

// UploadResult describes one stored object.
type UploadResult struct {
	Bucket     string    `json:"bucket" yaml:"bucket"`
	ObjectKey  string    `json:"object_key" yaml:"object_key"`
	ETag       string    `json:"etag" yaml:"etag"`
	Size       int64     `json:"size" yaml:"size"`
	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`
}

// UploadFile stores the local file at key (prefix applied).
func (c *MinIOClient) UploadFile(ctx context.Context, localPath, key, contentType string, tags map[string]string) (*UploadResult, error) {
	if localPath == "" || key == "" {
		return nil, errors.InvalidParam("upload needs a local path and an object key")
	}
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	objectKey := c.ObjectKey(key)
	info, err := c.client.FPutObject(ctx, c.config.Bucket, objectKey, localPath, minio.PutObjectOptions{
		ContentType: contentType,
		UserTags:    tags,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorage, "upload failed").WithDetail("key=" + objectKey)
	}
	c.logger.Debug("uploaded object", logging.String("bucket", info.Bucket), logging.String("key", info.Key),
		logging.Int64("size", info.Size))

	return &UploadResult{
		Bucket:     info.Bucket,
		ObjectKey:  info.Key,
		ETag:       info.ETag,
		Size:       info.Size,
		UploadedAt: time.Now(),
	}, nil
}

//Personal.AI order the ending
