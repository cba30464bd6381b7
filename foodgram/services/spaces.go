package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

type SpacesOptions struct {
	Key       string
	Secret    string
	Region    string
	Bucket    string
	Endpoint  string
	PublicURL string
	ImageRoot string
}

// SpacesService stores recipe images in an S3-compatible bucket
// (DigitalOcean Spaces by default). References are object keys.
type SpacesService struct {
	client    *s3.Client
	bucket    string
	region    string
	publicURL string
	ImageRoot string
	log       *slog.Logger
}

func NewSpacesService(ctx context.Context, opts SpacesOptions) (*SpacesService, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", opts.Region)
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.Key, opts.Secret, "")),
		config.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load Spaces config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	publicURL := opts.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.%s.digitaloceanspaces.com", opts.Bucket, opts.Region)
	}

	return &SpacesService{
		client:    client,
		bucket:    opts.Bucket,
		region:    opts.Region,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		ImageRoot: strings.Trim(opts.ImageRoot, "/"),
		log:       slog.With(slog.String("service", "spaces")),
	}, nil
}

// Put uploads the image under a fresh key and returns that key.
func (s *SpacesService) Put(ctx context.Context, data []byte, ext string) (string, error) {
	key := imageKey(s.ImageRoot, ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(imageContentType(ext)),
		CacheControl: aws.String("public, max-age=31536000"),
		ACL:          types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %w", key, err)
	}

	s.log.Debug("Image uploaded", slog.String("key", key), slog.Int("size", len(data)))
	return key, nil
}

func (s *SpacesService) Delete(ctx context.Context, ref string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", ref, err)
	}
	return nil
}

// URL returns the public address of a stored image.
func (s *SpacesService) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.publicURL + "/" + strings.TrimPrefix(ref, "/")
}

func (s *SpacesService) GetBucket() string {
	return s.bucket
}

func (s *SpacesService) GetRegion() string {
	return s.region
}

func imageKey(root, ext string) string {
	return path.Join(root, uuid.NewString()+"."+strings.ToLower(ext))
}

func imageContentType(ext string) string {
	if ct := mime.TypeByExtension("." + strings.ToLower(ext)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
