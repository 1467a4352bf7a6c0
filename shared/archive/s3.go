// Package archive mirrors stored images to an S3 compatible bucket.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dfryer1193/apodwall/wallpaper/domain"
	"github.com/rs/zerolog"
)

var _ domain.Archiver = (*S3Archiver)(nil)

// Options configures the bucket mirror
type Options struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Archiver uploads images under <prefix>/<file name>
type S3Archiver struct {
	uploader uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

// NewS3Archiver builds an archiver from the default AWS credential chain,
// overridden by static keys and a custom endpoint when given.
func NewS3Archiver(ctx context.Context, opts Options, log zerolog.Logger) (*S3Archiver, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket cannot be empty")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Archiver(manager.NewUploader(client), opts.Bucket, opts.Prefix, log), nil
}

func newS3Archiver(u uploader, bucket string, prefix string, log zerolog.Logger) *S3Archiver {
	return &S3Archiver{
		uploader: u,
		bucket:   bucket,
		prefix:   prefix,
		log:      log.With().Str("component", "archive").Str("bucket", bucket).Logger(),
	}
}

// Key returns the object key for a record
func (a *S3Archiver) Key(rec domain.ImageRecord) string {
	return path.Join(a.prefix, filepath.Base(rec.Path))
}

// Archive uploads content with its digest and size as object metadata
func (a *S3Archiver) Archive(ctx context.Context, rec domain.ImageRecord, content []byte) error {
	key := a.Key(rec)

	input := &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
		Metadata: map[string]string{
			"sha256": rec.Hash,
			"size":   fmt.Sprintf("%d", rec.Size),
		},
	}
	if ct := mime.TypeByExtension(filepath.Ext(rec.Path)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := a.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("s3: uploading %s to %s failed: %w", key, a.bucket, err)
	}

	a.log.Info().Str("key", key).Int64("size", rec.Size).Msg("Mirrored image")
	return nil
}
