package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"wedding/src/config"
	awslib "wedding/src/lib/aws"
	"wedding/src/models"
	"wedding/src/repository"
	"wedding/src/types"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// BlobStorage stores gallery objects and serves them from a public URL.
type BlobStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

var (
	galleryStorage BlobStorage
	storageMu      sync.Mutex
)

func GetGalleryStorage() BlobStorage {
	storageMu.Lock()
	defer storageMu.Unlock()
	if galleryStorage != nil {
		return galleryStorage
	}
	if s := awslib.NewGalleryStorage(); s != nil {
		galleryStorage = s
	}
	return galleryStorage
}

func NewGalleryStorage(s BlobStorage) BlobStorage {
	storageMu.Lock()
	defer storageMu.Unlock()
	galleryStorage = s
	return galleryStorage
}

type GalleryUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// GalleryObjectKey builds <category>/<unix millis>-<slug>.<ext>.
func GalleryObjectKey(category, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "foto"
	}
	return fmt.Sprintf("%s/%d-%s%s", category, now.UnixMilli(), base, ext)
}

func detectContentType(upload *GalleryUpload) string {
	ct := upload.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(upload.Filename)))
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}

// UploadGalleryItem validates and stores a guest photo, recording it as
// approved.
func UploadGalleryItem(ctx context.Context, params *types.UploadGalleryRequestBody, upload *GalleryUpload) (*models.GalleryItem, error) {
	contentType := detectContentType(upload)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: only images are accepted", types.ErrInvalidUpload)
	}
	if upload.Size <= 0 || upload.Size > config.Get().GalleryMaxBytes {
		return nil, fmt.Errorf("%w: file must be at most %d bytes", types.ErrInvalidUpload, config.Get().GalleryMaxBytes)
	}
	storage := GetGalleryStorage()
	if storage == nil {
		return nil, types.ErrStorageNotEnabled
	}
	key := GalleryObjectKey(params.Category, upload.Filename, time.Now())
	url, err := storage.Upload(ctx, key, contentType, upload.Body, upload.Size)
	if err != nil {
		log.Printf("Error uploading %s: %s\n", key, err.Error())
		return nil, err
	}
	uploadedBy := strings.TrimSpace(params.UploadedBy)
	if uploadedBy == "" {
		uploadedBy = types.DEFAULT_UPLOADER
	}
	item := &models.GalleryItem{
		Category:    params.Category,
		StoragePath: key,
		URL:         url,
		Caption:     optional(params.Caption),
		UploadedBy:  uploadedBy,
		ContentType: contentType,
		Size:        upload.Size,
		Approved:    true,
	}
	if err := repository.GetStore().CreateGalleryItem(ctx, item); err != nil {
		if derr := storage.Delete(ctx, key); derr != nil {
			log.Printf("Error removing orphaned object %s: %s\n", key, derr.Error())
		}
		return nil, err
	}
	return item, nil
}

func ListGalleryItems(ctx context.Context, category string, approvedOnly bool) ([]models.GalleryItem, error) {
	return repository.GetStore().ListGalleryItems(ctx, category, approvedOnly)
}

// DeleteGalleryItem removes the row, then the stored object. Failing to
// remove the object is logged only.
func DeleteGalleryItem(ctx context.Context, id uuid.UUID) error {
	item, err := repository.GetStore().DeleteGalleryItem(ctx, id)
	if err != nil {
		return err
	}
	if storage := GetGalleryStorage(); storage != nil {
		if err := storage.Delete(ctx, item.StoragePath); err != nil {
			log.Printf("Error deleting object %s: %s\n", item.StoragePath, err.Error())
		}
	}
	return nil
}

func SetGalleryApproval(ctx context.Context, id uuid.UUID, approved bool) (*models.GalleryItem, error) {
	return repository.GetStore().SetGalleryApproval(ctx, id, approved)
}
