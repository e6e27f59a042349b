package report

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/picklr-io/planrisk/internal/ir"
	"github.com/picklr-io/planrisk/internal/logging"
	"github.com/picklr-io/planrisk/internal/retry"
)

// S3PutObjectAPI is the part of the S3 client the publisher needs.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads JSON reports under a bucket prefix.
type S3Publisher struct {
	bucket string
	prefix string
	client S3PutObjectAPI
	policy *retry.Policy
}

// NewS3Publisher returns a publisher writing under prefix in bucket. The bucket is required.
func NewS3Publisher(client S3PutObjectAPI, bucket, prefix string) (*S3Publisher, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 publisher requires a bucket")
	}
	return &S3Publisher{
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		client: client,
	}, nil
}

// Key returns the object key for a report name.
func (p *S3Publisher) Key(name string) string {
	return path.Join(p.prefix, name+".json")
}

// Publish uploads the report as <prefix>/<name>.json and returns its URL.
func (p *S3Publisher) Publish(ctx context.Context, name string, a *ir.PlanAnalysis) (string, error) {
	data, err := Marshal(a)
	if err != nil {
		return "", err
	}

	key := p.Key(name)
	url := "s3://" + p.bucket + "/" + key
	err = retry.Do(ctx, p.policy, func() error {
		putCtx, cancel := retry.WithTimeout(ctx, 0)
		defer cancel()
		_, err := p.client.PutObject(putCtx, &s3.PutObjectInput{
			Bucket:               aws.String(p.bucket),
			Key:                  aws.String(key),
			Body:                 bytes.NewReader(data),
			ContentType:          aws.String("application/json"),
			ServerSideEncryption: s3types.ServerSideEncryptionAes256,
		})
		return err
	}, retry.IsTransient)
	if err != nil {
		return "", fmt.Errorf("failed to write report to %s: %w", url, err)
	}

	logging.Info("report published", "url", url, "bytes", len(data))
	return url, nil
}
