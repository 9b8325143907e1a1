package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
	"golang.org/x/image/draw"
)

const avatarSize = 250

// NormalizeAvatar decodes an uploaded image and scales it to the fixed
// square every avatar is stored as. Output is always PNG, whatever
// format came in.
func NormalizeAvatar(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image, %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode image, %w", err)
	}

	return buf.Bytes(), nil
}

// AvatarStore persists a processed avatar and returns the public URL
// it will be served from.
type AvatarStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// NewAvatarStore picks the configured storage backend.
func NewAvatarStore() (AvatarStore, error) {
	switch viper.GetString("storage.type") {
	case "s3":
		return NewS3AvatarStore()
	default:
		return NewLocalAvatarStore(viper.GetString("storage.avatar_dir"))
	}
}

// LocalAvatarStore writes avatars into the public directory the router
// serves statically under /avatars.
type LocalAvatarStore struct {
	Dir string
}

func NewLocalAvatarStore(dir string) (*LocalAvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory, %w", err)
	}

	return &LocalAvatarStore{Dir: dir}, nil
}

func (l *LocalAvatarStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(l.Dir, name), data, 0o644); err != nil {
		return "", err
	}

	return "/avatars/" + name, nil
}

// S3AvatarStore puts avatars into an S3-compatible bucket.
type S3AvatarStore struct {
	C        *s3.Client
	Uploader *manager.Uploader
	Bucket   *string
}

func NewS3AvatarStore() (*S3AvatarStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("s3.access_key_id"),
			viper.GetString("s3.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("s3.bucket"))

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", viper.GetString("s3.account_id")))
		o.Region = "auto"
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3AvatarStore{
		C:        client,
		Uploader: manager.NewUploader(client),
		Bucket:   bucket,
	}, nil
}

func (s *S3AvatarStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := "avatars/" + name

	_, err := s.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      s.Bucket,
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", viper.GetString("s3.public_base_url"), key), nil
}
