package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/moodloop/journal-server/internal/config"
)

// AvatarStore issues presigned URLs against the S3-compatible bucket holding
// profile avatars. A nil *AvatarStore means the feature is not configured.
type AvatarStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewAvatarStore builds the store from static credentials and a custom
// endpoint. Returns nil when no access key is configured.
func NewAvatarStore(cfg config.AvatarStorageConfig) *AvatarStore {
	if cfg.AccessKeyID == "" {
		return nil
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &AvatarStore{
		client:        client,
		bucket:        cfg.BucketName,
		publicBaseURL: cfg.PublicBaseURL,
	}
}

// PresignUpload creates a presigned PUT URL for a new avatar object owned by
// userID. The returned key identifies the object; PublicURL(key) is what gets
// stored on the profile.
func (s *AvatarStore) PresignUpload(ctx context.Context, userID uuid.UUID, expires time.Duration) (key, url string, err error) {
	key = fmt.Sprintf("avatars/%s/%s", userID, uuid.New())

	presigner := s3.NewPresignClient(s.client)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", "", err
	}
	return key, req.URL, nil
}

// PublicURL returns the stable, publicly readable URL for an avatar key.
func (s *AvatarStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicBaseURL, key)
}
