// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

/*
Package objstore provides S3-compatible object storage for user uploads.

It currently serves a single purpose: persisting avatar images and handing
back a stable public URL for the users.account row. The client works against
AWS S3 proper or any S3-compatible endpoint (MinIO, R2) via BaseEndpoint.
*/
package objstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const putTimeout = 30 * time.Second

// Uploader stores a blob and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

// # S3 Client

// Options configures the S3 store.
type Options struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKeyID   string
	SecretKey     string
	PublicBaseURL string
}

// Store is an [Uploader] backed by an S3-compatible bucket.
type Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewStore builds the S3 client from static credentials.
func NewStore(ctx context.Context, options Options) (*Store, error) {
	if options.Bucket == "" {
		return nil, fmt.Errorf("objstore: bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(options.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			options.AccessKeyID,
			options.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("objstore: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
			// Path-style addressing, required by MinIO and friends.
			o.UsePathStyle = true
		}
	})

	return &Store{
		client:        client,
		bucket:        options.Bucket,
		publicBaseURL: strings.TrimRight(options.PublicBaseURL, "/"),
	}, nil
}

// # Disabled Store

// Disabled is an [Uploader] used when object storage is not configured.
// Every upload fails with a clear error so the caller can surface a 503.
type Disabled struct{}

// Upload always fails.
func (Disabled) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", fmt.Errorf("objstore: object storage is not configured")
}

// Upload writes the object and returns its public URL.
func (store *Store) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	putCtx, cancel := context.WithTimeout(ctx, putTimeout)
	defer cancel()

	_, err := store.client.PutObject(putCtx, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("objstore: put object failed: %w", err)
	}

	return store.publicBaseURL + "/" + key, nil
}
