package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the subset of the S3 client used by S3KeyValue.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3KeyValue stores each key as one object under bucket/prefix.
type S3KeyValue struct {
	client S3API
	bucket string
	prefix string
}

func NewS3KeyValue(client S3API, bucket, prefix string) *S3KeyValue {
	return &S3KeyValue{client: client, bucket: bucket, prefix: prefix}
}

// NewAWSS3KeyValue builds an S3KeyValue from the default AWS credential chain.
func NewAWSS3KeyValue(ctx context.Context, region, bucket, prefix string) (*S3KeyValue, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3KeyValue(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (k *S3KeyValue) objectKey(key string) string {
	if k.prefix == "" {
		return key + ".json"
	}
	return path.Join(k.prefix, key+".json")
}

func (k *S3KeyValue) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := k.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(k.bucket),
		Key:    aws.String(k.objectKey(key)),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get s3 object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3 object %s: %w", key, err)
	}
	return data, nil
}

func (k *S3KeyValue) Set(ctx context.Context, key string, value []byte) error {
	_, err := k.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(k.bucket),
		Key:         aws.String(k.objectKey(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3 object %s: %w", key, err)
	}
	return nil
}

// Delete removes the object. S3 reports success for missing objects.
func (k *S3KeyValue) Delete(ctx context.Context, key string) error {
	_, err := k.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(k.bucket),
		Key:    aws.String(k.objectKey(key)),
	})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("failed to delete s3 object %s: %w", key, err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

var _ KeyValue = (*S3KeyValue)(nil)
