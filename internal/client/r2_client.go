package client

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/musicmixer/api/internal/config"
)

// ArchiveStore keeps finished generations as JSON objects
type ArchiveStore interface {
	// Put writes data under key and returns the URL it can be read from.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// R2Archive is an ArchiveStore backed by a Cloudflare R2 bucket
type R2Archive struct {
	s3     *s3.Client
	bucket string
	base   string
}

// NewR2Archive connects to the R2 bucket named in cfg
func NewR2Archive(cfg *config.R2Config) (*R2Archive, error) {
	switch {
	case cfg.AccountID == "", cfg.AccessKeyID == "", cfg.SecretAccessKey == "":
		return nil, fmt.Errorf("R2 configuration incomplete")
	case cfg.BucketName == "":
		return nil, fmt.Errorf("R2 bucket name is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		base = endpoint + "/" + cfg.BucketName
	}

	return &R2Archive{s3: api, bucket: cfg.BucketName, base: base}, nil
}

// Put uploads data and returns its public URL
func (a *R2Archive) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := a.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to R2: %w", key, err)
	}
	return a.base + "/" + key, nil
}
