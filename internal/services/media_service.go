// internal/services/media_service.go
package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/farmdirect-backend/internal/config"
	"github.com/javajoker/farmdirect-backend/internal/ledger"
)

var ErrMediaDisabled = errors.New("media storage not configured")

// MediaService hands out upload URLs for photos and videos. The resulting
// public URL is what clients put into media_refs; the ledger stores it as an
// opaque string.
type MediaService struct {
	s3Client *s3.S3
	config   config.AWSConfig
	now      func() time.Time
}

type UploadURLRequest struct {
	Filename    string `json:"filename" validate:"required,max=128"`
	ContentType string `json:"content_type" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=product growth delivery campaign profile"`
}

type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	MediaURL  string `json:"media_url"`
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

var allowedMediaTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
	"video/mp4":  {".mp4"},
}

func NewMediaService(cfg config.AWSConfig) (*MediaService, error) {
	if cfg.AccessKeyID == "" {
		// Upload URLs are unavailable without credentials
		return &MediaService{config: cfg, now: time.Now}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &MediaService{
		s3Client: s3.New(sess),
		config:   cfg,
		now:      time.Now,
	}, nil
}

func (s *MediaService) Enabled() bool {
	return s.s3Client != nil
}

// PresignUpload returns a short-lived PUT URL scoped to one object key under
// the caller's folder.
func (s *MediaService) PresignUpload(identity string, req *UploadURLRequest) (*UploadURLResponse, error) {
	if !s.Enabled() {
		return nil, ErrMediaDisabled
	}
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	contentType := strings.ToLower(req.ContentType)
	extensions, ok := allowedMediaTypes[contentType]
	if !ok {
		return nil, ledger.InvalidArgument("content_type", "unsupported media type")
	}
	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !containsString(extensions, ext) {
		return nil, ledger.InvalidArgument("filename", "extension does not match content type")
	}

	key := s.objectKey(identity, req.Category, ext)
	ttl := time.Duration(s.config.UploadURLTTL) * time.Minute
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	putReq, _ := s.s3Client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	url, err := putReq.Presign(ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"identity": identity,
		"key":      key,
	}).Debug("Upload URL issued")

	return &UploadURLResponse{
		UploadURL: url,
		MediaURL:  s.publicURL(key),
		Key:       key,
		ExpiresAt: s.now().Add(ttl).Unix(),
	}, nil
}

// objectKey groups uploads per wallet so identities never collide.
func (s *MediaService) objectKey(identity, category, ext string) string {
	owner := ledger.WalletAddress(identity)[:16]
	date := s.now().UTC().Format("20060102")
	return fmt.Sprintf("media/%s/%s/%s_%s%s", owner, category, date, uuid.New().String()[:8], ext)
}

func (s *MediaService) publicURL(key string) string {
	if s.config.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.S3Bucket, s.config.Region, key)
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
