package planfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/picklr-io/planrisk/internal/retry"
)

const defaultRegion = "us-east-1"

// s3GetObjectAPI is the part of the S3 client the source needs.
type s3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Source reads a plan stored as an S3 object.
type s3Source struct {
	bucket  string
	key     string
	region  string
	profile string

	client s3GetObjectAPI
	policy *retry.Policy
}

func newS3Source(cfg *SourceConfig) (Source, error) {
	bucket, key, err := ParseS3URL(cfg.Location)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	s := &s3Source{
		bucket:  bucket,
		key:     key,
		region:  region,
		profile: cfg.Profile,
	}

	client, err := NewS3Client(context.Background(), s.region, s.profile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 source: %w", err)
	}
	s.client = client

	return s, nil
}

// NewS3Client loads the default AWS configuration for region and profile.
func NewS3Client(ctx context.Context, region, profile string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(region))
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func (s *s3Source) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := retry.Do(ctx, s.policy, func() error {
		var err error
		data, err = s.get(ctx)
		return err
	}, retry.IsTransient)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, s)
		}
		return nil, fmt.Errorf("failed to read plan from %s: %w", s, err)
	}
	return data, nil
}

func (s *s3Source) get(ctx context.Context) ([]byte, error) {
	ctx, cancel := retry.WithTimeout(ctx, 0)
	defer cancel()

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(result.Body); err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *s3Source) String() string {
	return "s3://" + s.bucket + "/" + s.key
}

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nsb *s3types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return true
		}
	}
	return false
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 URL: %s", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 URL must be s3://bucket/key: %s", location)
	}
	return bucket, key, nil
}
