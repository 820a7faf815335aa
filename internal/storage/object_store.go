package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"galleria/api/internal/config"
	"galleria/api/internal/ids"
)

// StoredObject is what the external image host hands back after an upload:
// a stable public URL plus the key needed to delete the object later.
type StoredObject struct {
	Key  string
	URL  string
	Size int64
}

type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.Bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.Bucket, err)
		}
	}
	return nil
}

func (s *ObjectStore) Upload(ctx context.Context, reader io.Reader, size int64, contentType, ext string) (StoredObject, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
	defer cancel()

	key := s.buildObjectKey(ext)
	info, err := s.client.PutObject(ctx, s.cfg.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return StoredObject{}, fmt.Errorf("put object: %w", err)
	}

	return StoredObject{
		Key:  key,
		URL:  s.buildPublicURL(key),
		Size: info.Size,
	}, nil
}

func (s *ObjectStore) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
	defer cancel()

	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (s *ObjectStore) Healthy(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	return err
}

func (s *ObjectStore) buildObjectKey(ext string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(datePrefix, fmt.Sprintf("%s.%s", ids.New(), ext))
}

func (s *ObjectStore) buildPublicURL(key string) string {
	base := s.cfg.PublicBaseURL
	if base == "" {
		base = s.cfg.Endpoint
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.Bucket, key)
}
