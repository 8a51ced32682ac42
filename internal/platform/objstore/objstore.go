// Package objstore is the object store boundary: list, open, put and read text by key.
// Backends: s3 (and S3-compatible endpoints), local filesystem, in-memory
package objstore

import (
	"context"
	"io"
	"strings"
	"time"

	"chatclean/internal/platform/config"
	perr "chatclean/internal/platform/errors"
)

// Store is the minimal object store surface the pipeline needs
type Store interface {
	// List returns every key under prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)
	// Open streams an object; caller closes
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Put overwrites key with data
	Put(ctx context.Context, key string, data []byte) error
	// ReadText reads a whole object as a string
	ReadText(ctx context.Context, key string) (string, error)
}

// Backend names accepted by STORE_BACKEND
const (
	BackendS3    = "s3"
	BackendLocal = "local"
	BackendMem   = "mem"
)

// Options configures a Store
type Options struct {
	Backend   string        `env:"STORE_BACKEND" validate:"required,oneof=s3 local mem"`
	Bucket    string        `env:"STORE_BUCKET" validate:"required_if=Backend s3"`
	Region    string        `env:"STORE_REGION"`
	Endpoint  string        `env:"STORE_ENDPOINT" validate:"omitempty,url"`
	PathStyle bool          `env:"STORE_PATH_STYLE"`
	AccessKey string        `env:"STORE_ACCESS_KEY"`
	SecretKey string        `env:"STORE_SECRET_KEY" validate:"required_with=AccessKey"`
	Root      string        `env:"STORE_ROOT" validate:"required_if=Backend local"`
	OpTimeout time.Duration `env:"STORE_OP_TIMEOUT" validate:"gte=0"`
}

// FromConfig reads Options from a STORE_-prefixed Conf
func FromConfig(cfg config.Conf) Options {
	return Options{
		Backend:   strings.ToLower(cfg.MayEnum("BACKEND", BackendS3, BackendS3, BackendLocal, BackendMem)),
		Bucket:    cfg.MayString("BUCKET", ""),
		Region:    cfg.MayString("REGION", "us-east-1"),
		Endpoint:  cfg.MayString("ENDPOINT", ""),
		PathStyle: cfg.MayBool("PATH_STYLE", false),
		AccessKey: cfg.MayString("ACCESS_KEY", ""),
		SecretKey: cfg.MayString("SECRET_KEY", ""),
		Root:      cfg.MayString("ROOT", ""),
		OpTimeout: cfg.MayDuration("OP_TIMEOUT", 5*time.Minute),
	}
}

// Open validates opts and builds the selected backend
func Open(ctx context.Context, opts Options) (Store, error) {
	if err := config.Validate(opts); err != nil {
		return nil, perr.WithOp(err, "objstore.open")
	}
	switch opts.Backend {
	case BackendS3:
		return NewS3(ctx, opts)
	case BackendLocal:
		return NewLocal(opts.Root)
	default:
		return NewMem(), nil
	}
}

// readAllText drains an Open stream into a string
func readAllText(ctx context.Context, s Store, key string) (string, error) {
	rc, err := s.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeStorage, "read %s", key)
	}
	return string(b), nil
}
