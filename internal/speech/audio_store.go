package speech

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/vitanest/vitanest-platform/pkg/logging"
)

// S3Client interface for S3 operations (allows mocking in tests)
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// AudioStore uploads synthesized audio to S3 and returns the object key.
type AudioStore struct {
	s3     S3Client
	bucket string
	logger *logging.Logger
	now    func() time.Time
}

func NewAudioStore(client S3Client, bucket string, logger *logging.Logger) *AudioStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &AudioStore{
		s3:     client,
		bucket: bucket,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Enabled reports whether uploads are configured.
func (a *AudioStore) Enabled() bool {
	return a != nil && a.s3 != nil && a.bucket != ""
}

// Save uploads one MP3 and returns its key, shaped as
// audio/v1/by-date/YYYY/MM/DD/<user>/<uuid>.mp3 so objects can be lifecycled
// by prefix.
func (a *AudioStore) Save(ctx context.Context, userID string, audio []byte) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("speech: audio store not configured")
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("speech: audio payload is empty")
	}

	now := a.now()
	key := fmt.Sprintf("audio/v1/by-date/%04d/%02d/%02d/%s/%s.mp3",
		now.Year(), now.Month(), now.Day(), userID, uuid.NewString())

	_, err := a.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(audio),
		ContentType: aws.String("audio/mpeg"),
		Metadata: map[string]string{
			"user_id": userID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech: s3 upload failed: %w", err)
	}

	a.logger.Info("audio stored", "key", key, "bytes", len(audio))
	return key, nil
}
