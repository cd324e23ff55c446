package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/farmdirect-backend/internal/config"
	"github.com/javajoker/farmdirect-backend/internal/ledger"
)

func newTestMediaService(t *testing.T, cloudFront string) *MediaService {
	t.Helper()

	svc, err := NewMediaService(config.AWSConfig{
		Region:          "eu-central-1",
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
		S3Bucket:        "farmdirect-media",
		CloudFrontURL:   cloudFront,
		UploadURLTTL:    10,
	})
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Unix(startTime, 0) }
	return svc
}

func TestPresignUploadScopesKeyToCaller(t *testing.T) {
	svc := newTestMediaService(t, "")

	upload, err := svc.PresignUpload("farmer-a", &UploadURLRequest{
		Filename:    "field.JPG",
		ContentType: "image/jpeg",
		Category:    "growth",
	})
	require.NoError(t, err)

	owner := ledger.WalletAddress("farmer-a")[:16]
	assert.True(t, strings.HasPrefix(upload.Key, "media/"+owner+"/growth/"))
	assert.True(t, strings.HasSuffix(upload.Key, ".jpg"))
	assert.Contains(t, upload.UploadURL, "farmdirect-media")
	assert.Contains(t, upload.UploadURL, "X-Amz-Signature=")
	assert.Equal(t, "https://farmdirect-media.s3.eu-central-1.amazonaws.com/"+upload.Key, upload.MediaURL)
	assert.Equal(t, startTime+600, upload.ExpiresAt)
}

func TestPresignUploadUsesCloudFront(t *testing.T) {
	svc := newTestMediaService(t, "https://cdn.farmdirect.example/")

	upload, err := svc.PresignUpload("farmer-a", &UploadURLRequest{
		Filename:    "crate.png",
		ContentType: "image/png",
		Category:    "delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.farmdirect.example/"+upload.Key, upload.MediaURL)
}

func TestPresignUploadRejectsMismatchedTypes(t *testing.T) {
	svc := newTestMediaService(t, "")

	_, err := svc.PresignUpload("farmer-a", &UploadURLRequest{
		Filename:    "notes.pdf",
		ContentType: "application/pdf",
		Category:    "product",
	})
	assert.Equal(t, ledger.KindInvalidArgument, ledger.KindOf(err))

	_, err = svc.PresignUpload("farmer-a", &UploadURLRequest{
		Filename:    "clip.png",
		ContentType: "video/mp4",
		Category:    "product",
	})
	assert.Equal(t, ledger.KindInvalidArgument, ledger.KindOf(err))
}

func TestPresignUploadDisabledWithoutCredentials(t *testing.T) {
	svc, err := NewMediaService(config.AWSConfig{Region: "eu-central-1"})
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	_, err = svc.PresignUpload("farmer-a", &UploadURLRequest{Filename: "a.jpg", ContentType: "image/jpeg", Category: "product"})
	assert.ErrorIs(t, err, ErrMediaDisabled)
}
