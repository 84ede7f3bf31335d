package aws

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	appconfig "wedding/src/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used for gallery objects.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

func GetS3Client() (*s3.Client, string) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil, ""
	}
	svc := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return svc, cfg.Region
}

type S3Storage struct {
	client    S3API
	bucket    string
	publicURL string
}

func NewS3Storage(client S3API, bucket, publicURL string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// NewGalleryStorage builds the gallery bucket storage from the environment.
func NewGalleryStorage() *S3Storage {
	client, region := GetS3Client()
	if client == nil {
		return nil
	}
	c := appconfig.Get()
	publicURL := c.GalleryPublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.GalleryBucket, region)
	}
	return NewS3Storage(client, c.GalleryBucket, publicURL)
}

func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("public, max-age=3600"),
	})
	if err != nil {
		log.Printf("Could not put object to S3 bucket: %s\n", err.Error())
		return "", err
	}
	log.Printf("Added object '%s' to bucket '%s'", key, s.bucket)
	return s.PublicURL(key), nil
}

func (s *S3Storage) PublicURL(key string) string {
	return s.publicURL + "/" + key
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
