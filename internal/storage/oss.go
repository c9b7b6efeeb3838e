package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/iplayapp/iplay-backend/internal/config"
)

// Bucket is the object store surface the jobs need: put/get by key.
type Bucket interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	URL(key string) string
}

// Open connects to the configured OSS bucket. With incomplete credentials it
// returns (nil, nil) and storage-backed features stay disabled.
func Open(cfg config.OSS) (Bucket, error) {
	if !cfg.Complete() {
		return nil, nil
	}
	cli, err := oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	b, err := cli.Bucket(cfg.Bucket)
	if err != nil {
		return nil, err
	}
	return &ossBucket{bucket: b, name: cfg.Bucket}, nil
}

type ossBucket struct {
	bucket *oss.Bucket
	name   string
}

func (o *ossBucket) Put(_ context.Context, key string, r io.Reader, contentType string) error {
	return o.bucket.PutObject(key, r, oss.ContentType(contentType))
}

func (o *ossBucket) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return o.bucket.GetObject(key)
}

func (o *ossBucket) URL(key string) string {
	return fmt.Sprintf("oss://%s/%s", o.name, key)
}
