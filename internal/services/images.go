package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"petshop_back_end/internal/config"
)

const MaxImageSize = 10 << 20

var ErrImagesDisabled = errors.New("image upload is not configured")

type ImageService struct {
	store   ImageStore
	maxSize int64
}

// Upload stores an image under a random name and returns its public URL.
func (s *ImageService) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if s.store == nil {
		return "", ErrImagesDisabled
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", invalid("file must be an image")
	}
	if file.Size > s.maxSize {
		return "", invalid(fmt.Sprintf("image is larger than %d MB", s.maxSize>>20))
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	return s.store.Put(ctx, name, f, file.Size, contentType)
}

type MinioImageStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinioImageStore(client *minio.Client, cfg *config.Config) *MinioImageStore {
	base := cfg.MinioPublicURL
	if base == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.MinioEndpoint
	}
	return &MinioImageStore{client: client, bucket: cfg.MinioBucket, baseURL: strings.TrimRight(base, "/")}
}

func (m *MinioImageStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", m.baseURL, m.bucket, name), nil
}
