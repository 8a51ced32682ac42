package objstore

import (
	"context"
	stderrs "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	perr "chatclean/internal/platform/errors"
)

// Local maps keys to files under a root directory
type Local struct {
	root string
}

// NewLocal creates the root if needed
func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "resolve root %q", root)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "create root %q", abs)
	}
	return &Local{root: abs}, nil
}

func (l *Local) path(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

// List walks the root and returns slash-separated keys under prefix
func (l *Local) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "list %s", prefix)
	}
	sort.Strings(keys)
	return keys, nil
}

// Open opens the backing file
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(key))
	if err != nil {
		if stderrs.Is(err, fs.ErrNotExist) {
			return nil, perr.WithKey(perr.Wrapf(err, perr.ErrorCodeNotFound, "object %s missing", key), key)
		}
		return nil, perr.WithKey(perr.Wrapf(err, perr.ErrorCodeStorage, "open %s", key), key)
	}
	return f, nil
}

// Put writes to a temp file in the target directory then renames over key
func (l *Local) Put(_ context.Context, key string, data []byte) error {
	dst := l.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return perr.WithKey(perr.Wrapf(err, perr.ErrorCodeStorage, "mkdir for %s", key), key)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return perr.WithKey(perr.Wrapf(err, perr.ErrorCodeStorage, "temp for %s", key), key)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return perr.WithKey(perr.Wrapf(err, perr.ErrorCodeStorage, "write %s", key), key)
	}
	if err := tmp.Close(); err != nil {
		return perr.WithKey(perr.Wrapf(err, perr.ErrorCodeStorage, "close %s", key), key)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return perr.WithKey(perr.Wrapf(err, perr.ErrorCodeStorage, "rename %s", key), key)
	}
	return nil
}

// ReadText reads a whole object
func (l *Local) ReadText(ctx context.Context, key string) (string, error) {
	return readAllText(ctx, l, key)
}
