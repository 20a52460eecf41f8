// Package media implements the binary media store on S3-compatible object
// storage. Objects are addressed by an opaque key that doubles as the
// public reference stored on the post.
package media

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/hirafie/hirafie-backend/internal/domain/post"
)

// Config holds object storage settings. Endpoint is optional and enables
// S3-compatible providers (MinIO, R2) with path-style addressing.
type Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

var _ post.MediaStore = (*S3Store)(nil)

// S3Store stores post media in a single bucket.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Store creates an S3Store using the default AWS credential chain.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Store uploads one media file and returns its post attachment record.
func (s *S3Store) Store(ctx context.Context, data []byte, contentType string) (post.Media, error) {
	var kind post.MediaKind
	switch {
	case strings.HasPrefix(contentType, "image/"):
		kind = post.MediaImage
	case strings.HasPrefix(contentType, "video/"):
		kind = post.MediaVideo
	default:
		return post.Media{}, errors.Errorf("unsupported media content type %q", contentType)
	}

	key := "posts/" + string(kind) + "/" + uuid.New().String()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return post.Media{}, errors.Wrap(err, "put object")
	}

	return post.Media{
		ID:       uuid.New().String(),
		URL:      s.publicBaseURL + "/" + key,
		Kind:     kind,
		PublicID: key,
	}, nil
}

// Remove deletes the remote object for the given public reference.
func (s *S3Store) Remove(ctx context.Context, publicID string, _ post.MediaKind) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return errors.Wrapf(err, "delete object %q", publicID)
	}
	return nil
}
