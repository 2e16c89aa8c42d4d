/*
Package storage provides the file storage service behind the upload
endpoint and room teardown.

This file implements the S3-compatible backend for deployments where the
server does not own a local disk.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"slidecast/internal/pkg/logx"
)

// s3Store implements Service against an S3-compatible bucket.
type s3Store struct {
	cfg      ServiceConfig
	client   *s3.Client
	uploader *manager.Uploader
	logger   zerolog.Logger
}

// newS3Store initializes the S3 client with a custom endpoint so
// S3-compatible providers work alongside AWS itself.
func newS3Store(cfg ServiceConfig) (*s3Store, error) {
	sdkCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, errors.New("failed to initialize S3 client configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Store{
		cfg:      cfg,
		client:   client,
		uploader: manager.NewUploader(client),
		logger:   logx.Logger().With().Str("component", "S3Store").Logger(),
	}, nil
}

// Save uploads the content to the bucket under name.
func (c *s3Store) Save(ctx context.Context, name string, contentType string, content io.Reader, size int64) error {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &c.cfg.S3BucketName,
		Key:         &name,
		Body:        content,
		ContentType: &contentType,
	})

	if err != nil {
		c.logger.Error().Err(err).Str("key", name).Msg("S3 upload failed.")
		return fmt.Errorf("failed to upload file to S3: %w", err)
	}

	c.logger.Info().Str("key", name).Int64("size", size).Msg("File stored.")
	return nil
}

// Delete removes the object with the given name from the bucket. S3 treats
// deleting a missing key as success, matching the Service contract.
func (c *s3Store) Delete(ctx context.Context, name string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &c.cfg.S3BucketName,
		Key:    &name,
	})

	if err != nil {
		c.logger.Error().Err(err).Str("key", name).Msg("S3 delete failed.")
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// Sweep lists the bucket and deletes every object older than maxAge.
func (c *s3Store) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: &c.cfg.S3BucketName,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return removed, fmt.Errorf("failed to list bucket for sweep: %w", err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil || obj.LastModified == nil {
				continue
			}
			if obj.LastModified.After(cutoff) {
				continue
			}

			if err := c.Delete(ctx, *obj.Key); err != nil {
				c.logger.Warn().Err(err).Str("key", *obj.Key).Msg("Sweep failed to delete object.")
				continue
			}
			removed++
		}
	}

	return removed, nil
}
