package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	sc "github.com/dmitrijs2005/growthjournal/internal/server/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// ObjectPresigner issues upload URLs for object keys.
type ObjectPresigner interface {
	// PresignPut returns a URL accepting one PUT of key with contentType.
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	// ObjectURL is the stable address of key.
	ObjectURL(key string) (string, error)
}

// S3Presigner presigns against an S3-compatible endpoint (MinIO in
// development) using path-style addressing.
type S3Presigner struct {
	client   *s3.PresignClient
	bucket   string
	endpoint string
	expiry   time.Duration
}

// NewS3Presigner builds the presign client from the S3 settings in c.
func NewS3Presigner(ctx context.Context, c *sc.Config) (*S3Presigner, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Presigner{
		client:   newS3PresignClient(client),
		bucket:   c.S3Bucket,
		endpoint: c.S3BaseEndpoint,
		expiry:   c.PresignExpiry,
	}, nil
}

func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	req, err := presignPutObject(p.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (p *S3Presigner) ObjectURL(key string) (string, error) {
	return url.JoinPath(p.endpoint, p.bucket, key)
}
