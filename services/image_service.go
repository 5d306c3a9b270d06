package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/yeremiapane/restaurant-backoffice/config"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

const MaxImageSize = 5 << 20

var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ImageStore saves dish pictures and returns the URL stored in platos.imagen.
type ImageStore interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string) error
}

// NewImageStore picks the backend from IMAGE_STORAGE.
func NewImageStore(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	if cfg.ImageStorage == "s3" {
		return NewS3ImageStore(ctx, cfg)
	}
	return NewLocalImageStore(cfg.UploadDir, "/uploads"), nil
}

// ValidateImage checks size and extension before anything is written.
func ValidateImage(fh *multipart.FileHeader) error {
	if fh == nil {
		return InvalidArgument("image file is required")
	}
	if fh.Size > MaxImageSize {
		return InvalidArgument("image exceeds the maximum size of %d MB", MaxImageSize>>20)
	}
	if _, ok := allowedImageExt[strings.ToLower(filepath.Ext(fh.Filename))]; !ok {
		return InvalidArgument("only jpg, jpeg, png and webp images are allowed")
	}
	return nil
}

func imageName(fh *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	base := strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename))
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), base, ext)
}

// LocalImageStore writes under Dir and serves from BaseURL (router maps it as static).
type LocalImageStore struct {
	Dir     string
	BaseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	return &LocalImageStore{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *LocalImageStore) Save(_ context.Context, fh *multipart.FileHeader) (string, error) {
	if err := ValidateImage(fh); err != nil {
		return "", err
	}
	// Buat direktori jika belum ada
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	name := imageName(fh)
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	return s.BaseURL + "/" + name, nil
}

func (s *LocalImageStore) Delete(_ context.Context, url string) error {
	if url == "" || !strings.HasPrefix(url, s.BaseURL+"/") {
		return nil
	}
	path := filepath.Join(s.Dir, filepath.Base(strings.TrimPrefix(url, s.BaseURL+"/")))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

// S3ImageStore keeps images in a bucket under the menu/ prefix.
type S3ImageStore struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3ImageStore(ctx context.Context, cfg *config.Config) (*S3ImageStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3ImageStore{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
		region: cfg.AWSRegion,
	}, nil
}

func (s *S3ImageStore) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if err := ValidateImage(fh); err != nil {
		return "", err
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	contentType := allowedImageExt[strings.ToLower(filepath.Ext(fh.Filename))]
	if sniffed := http.DetectContentType(content); strings.HasPrefix(sniffed, "image/") {
		contentType = sniffed
	}

	key := "menu/" + imageName(fh)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	utils.InfoLogger.Printf("Uploaded dish image to s3://%s/%s", s.bucket, key)
	return s.objectURL(key), nil
}

func (s *S3ImageStore) Delete(ctx context.Context, url string) error {
	prefix := s.objectURL("")
	if url == "" || !strings.HasPrefix(url, prefix) {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(url, prefix)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *S3ImageStore) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
