package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/growthjournal/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func presignConfig() *sc.Config {
	return &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "growthjournal",
		PresignExpiry:  5 * time.Minute,
	}
}

func stubAWS(t *testing.T) *s3.Options {
	t.Helper()
	origLoad, origNewS3, origNewPre, origPut := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignPutObject = origLoad, origNewS3, origNewPre, origPut
	})
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		if c == nil {
			t.Fatalf("nil client passed to presign")
		}
		return &s3.PresignClient{}
	}

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	opts := &s3.Options{}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(opts)
		}
		return &s3.Client{}
	}
	return opts
}

func TestNewS3Presigner_AppliesEndpoint(t *testing.T) {
	opts := stubAWS(t)

	p, err := NewS3Presigner(context.Background(), presignConfig())
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Presigner_ConfigError(t *testing.T) {
	stubAWS(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}
	_, err := NewS3Presigner(context.Background(), presignConfig())
	assert.ErrorContains(t, err, "aws config: no creds")
}

func TestS3Presigner_PresignPut(t *testing.T) {
	stubAWS(t)
	p, err := NewS3Presigner(context.Background(), presignConfig())
	require.NoError(t, err)

	var gotIn *s3.PutObjectInput
	var gotExpiry time.Duration
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotIn = in
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		gotExpiry = po.Expires
		return &v4.PresignedHTTPRequest{URL: "http://127.0.0.1:9000/growthjournal/k?X-Amz-Signature=x", Method: http.MethodPut}, nil
	}

	u, err := p.PresignPut(context.Background(), "users/u1/media/abc", "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, u, "X-Amz-Signature")
	assert.Equal(t, "growthjournal", aws.ToString(gotIn.Bucket))
	assert.Equal(t, "users/u1/media/abc", aws.ToString(gotIn.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(gotIn.ContentType))
	assert.Equal(t, 5*time.Minute, gotExpiry)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}
	_, err = p.PresignPut(context.Background(), "k", "image/jpeg")
	assert.EqualError(t, err, "sign failed")
}

func TestS3Presigner_ObjectURL(t *testing.T) {
	stubAWS(t)
	p, err := NewS3Presigner(context.Background(), presignConfig())
	require.NoError(t, err)

	u, err := p.ObjectURL("users/u1/media/abc")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/growthjournal/users/u1/media/abc", u)
}
