package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/zlvtv/TeamBridge-sub000/internal/server/config"
)

func stubPresign(t *testing.T, putURL, getURL string, presignErr error) {
	t.Helper()

	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() { presignPutObject, presignGetObject = origPut, origGet })

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: putURL}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: getURL}, nil
	}

	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
}

func testConfig() *sc.Config {
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	return cfg
}

func TestGetPresignedPutUrl_ReturnsKeyAndURL(t *testing.T) {
	stubPresign(t, "https://s3.example/put", "", nil)

	svc := NewAttachmentService(testConfig())
	key, url, err := svc.GetPresignedPutUrl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "https://s3.example/put", url)
	assert.True(t, strings.HasPrefix(key, "attachments/"))
}

func TestGetPresignedGetUrl_ReturnsURL(t *testing.T) {
	stubPresign(t, "", "https://s3.example/get", nil)

	svc := NewAttachmentService(testConfig())
	url, err := svc.GetPresignedGetUrl(context.Background(), "attachments/2025/6/1/key")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example/get", url)
}

func TestGetPresignedPutUrl_Error(t *testing.T) {
	stubPresign(t, "", "", errors.New("presign failed"))

	svc := NewAttachmentService(testConfig())
	_, _, err := svc.GetPresignedPutUrl(context.Background())
	assert.Error(t, err)
}

func TestRandomStorageKey_Unique(t *testing.T) {
	assert.NotEqual(t, randomStorageKey(), randomStorageKey())
}
