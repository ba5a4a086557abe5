package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"projectshelf/internal/domain"
	"projectshelf/internal/storage"
)

// MediaConfig bounds what users may upload.
type MediaConfig struct {
	KeyPrefix      string
	MaxUploadBytes int64
	URLTTL         time.Duration
}

// MediaUpload is a single file received from a client.
type MediaUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaService manages images referenced from portfolio media lists. Objects
// are namespaced per user so one user can never list or remove another's.
type MediaService interface {
	Upload(ctx context.Context, ownerID string, in MediaUpload) (*domain.MediaObject, error)
	List(ctx context.Context, ownerID string) ([]domain.MediaObject, error)
	Delete(ctx context.Context, ownerID, key string) error
}

type mediaService struct {
	store  storage.Service
	cfg    MediaConfig
	logger *logrus.Logger
}

func NewMediaService(store storage.Service, cfg MediaConfig, logger *logrus.Logger) MediaService {
	if logger == nil {
		logger = logrus.New()
	}
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = 24 * time.Hour
	}
	return &mediaService{store: store, cfg: cfg, logger: logger}
}

func (s *mediaService) ownerPrefix(ownerID string) string {
	if s.cfg.KeyPrefix == "" {
		return ownerID + "/"
	}
	return s.cfg.KeyPrefix + "/" + ownerID + "/"
}

func (s *mediaService) Upload(ctx context.Context, ownerID string, in MediaUpload) (*domain.MediaObject, error) {
	mediaType, _, err := mime.ParseMediaType(in.ContentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return nil, domain.E(domain.KindValidation, "only image uploads are allowed")
	}
	if in.Size <= 0 {
		return nil, domain.E(domain.KindValidation, "file is empty")
	}
	if s.cfg.MaxUploadBytes > 0 && in.Size > s.cfg.MaxUploadBytes {
		return nil, domain.E(domain.KindValidation, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxUploadBytes))
	}

	ext := strings.ToLower(filepath.Ext(in.FileName))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	key := s.ownerPrefix(ownerID) + uuid.NewString() + ext

	if err := s.store.Put(ctx, in.Body, storage.PutOptions{Key: key, ContentType: mediaType, Size: in.Size}); err != nil {
		return nil, err
	}
	url, err := s.store.GetObjectURL(ctx, key, s.cfg.URLTTL)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": ownerID, "key": key, "size": in.Size}).Info("media uploaded")
	return &domain.MediaObject{Key: key, URL: url, Size: in.Size}, nil
}

func (s *mediaService) List(ctx context.Context, ownerID string) ([]domain.MediaObject, error) {
	objects, err := s.store.ListObjects(ctx, s.ownerPrefix(ownerID))
	if err != nil {
		return nil, err
	}

	out := make([]domain.MediaObject, 0, len(objects))
	for _, obj := range objects {
		url, err := s.store.GetObjectURL(ctx, obj.Key, s.cfg.URLTTL)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.MediaObject{
			Key:          obj.Key,
			URL:          url,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return out, nil
}

func (s *mediaService) Delete(ctx context.Context, ownerID, key string) error {
	clean := path.Clean("/" + strings.TrimSpace(key))[1:]
	if clean == "" || !strings.HasPrefix(clean, s.ownerPrefix(ownerID)) {
		return domain.E(domain.KindNotFound, "Media not found")
	}
	if err := s.store.Delete(ctx, clean); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"user_id": ownerID, "key": clean}).Info("media deleted")
	return nil
}
