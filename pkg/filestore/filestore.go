package filestore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/fx"

	"staffdir/pkg/config"
	"staffdir/pkg/logger"
)

var Module = fx.Provide(New)

// Store is the backend object storage. Upload returns a durable public
// URL for the stored object.
type Store interface {
	Upload(ctx context.Context, body io.Reader, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

type Params struct {
	fx.In

	Logger logger.Logger
	Config config.IConfig
}

type store struct {
	logger logger.Logger

	uploader *manager.Uploader
	s3Client *s3.Client
	bucket   string
	region   string
}

func New(p Params) (Store, error) {
	var (
		region = p.Config.GetString("aws_region")
		bucket = p.Config.GetString("aws_s3_bucket")
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				p.Config.GetString("aws_access_key_id"),
				p.Config.GetString("aws_secret_access_key"),
				"",
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg)

	return &store{
		logger:   p.Logger,
		uploader: manager.NewUploader(s3Client),
		s3Client: s3Client,
		bucket:   bucket,
		region:   region,
	}, nil
}

func (s *store) Upload(ctx context.Context, body io.Reader, key string) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

func (s *store) Remove(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object: %w", err)
	}

	return nil
}
