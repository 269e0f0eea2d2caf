// Package storage persists generated print files. The pipeline writes one
// PDF per job; the filesystem backend keeps them under a retention window
// and the S3 backend additionally serves presigned download URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Errors shared by storage backends
var (
	ErrEmptyFile     = errors.New("storage: print file data is empty")
	ErrInvalidFileID = errors.New("storage: project and job IDs must be non-empty path-safe names")
	ErrFileNotFound  = errors.New("storage: print file not found")
)

// StoreRequest identifies one print file to persist
type StoreRequest struct {
	ProjectID string
	JobID     string
	PDFData   []byte
}

// Validate checks the request before any backend work
func (r *StoreRequest) Validate() error {
	if len(r.PDFData) == 0 {
		return ErrEmptyFile
	}
	if !safeName(r.ProjectID) || !safeName(r.JobID) {
		return ErrInvalidFileID
	}
	return nil
}

// StoredFile describes a persisted print file
type StoredFile struct {
	Key      string    // backend-specific location of the file
	URL      string    // download URL when the backend can serve one
	Size     int64     // file size in bytes
	StoredAt time.Time // when the file was written
}

// PrintFileStorage is the persistence capability the pipeline depends on
type PrintFileStorage interface {
	// Store persists a generated print file and returns its location
	Store(ctx context.Context, req *StoreRequest) (*StoredFile, error)
	// Retrieve reads a stored print file back
	Retrieve(ctx context.Context, key string) ([]byte, error)
	// Delete removes a stored print file
	Delete(ctx context.Context, key string) error
	// CleanupExpired removes files older than the retention window and
	// returns how many were deleted
	CleanupExpired(ctx context.Context, retention time.Duration) (int, error)
}

// safeName rejects IDs that could escape the storage root when used as a
// path segment.
func safeName(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}

// FileSystemStorage keeps print files on local disk, laid out as
// {base}/{projectID}/{year}/{month}/{jobID}.pdf so cleanup can walk by age
// without a database.
type FileSystemStorage struct {
	basePath string
	logger   *zap.Logger
}

// NewFileSystemStorage creates a filesystem backend rooted at basePath
func NewFileSystemStorage(basePath string, logger *zap.Logger) (*FileSystemStorage, error) {
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create base path: %w", err)
	}
	return &FileSystemStorage{basePath: basePath, logger: logger}, nil
}

// Store writes the PDF under the project and month of its creation
func (f *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoredFile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	rel := filepath.Join(req.ProjectID, now.Format("2006"), now.Format("01"), req.JobID+".pdf")
	full := filepath.Join(f.basePath, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create directory: %w", err)
	}
	if err := os.WriteFile(full, req.PDFData, 0o644); err != nil {
		return nil, fmt.Errorf("storage: failed to write print file: %w", err)
	}

	f.logger.Info("print file stored",
		zap.String("key", rel),
		zap.Int("size_bytes", len(req.PDFData)))

	return &StoredFile{
		Key:      rel,
		Size:     int64(len(req.PDFData)),
		StoredAt: now,
	}, nil
}

// Retrieve reads a stored print file back
func (f *FileSystemStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	full, err := f.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("storage: failed to read print file: %w", err)
	}
	return data, nil
}

// Delete removes a stored print file
func (f *FileSystemStorage) Delete(ctx context.Context, key string) error {
	full, err := f.resolve(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return fmt.Errorf("storage: failed to delete print file: %w", err)
	}
	return nil
}

// CleanupExpired walks the tree and removes print files whose modification
// time is older than the retention window. Empty directories left behind
// are removed on a best-effort basis.
func (f *FileSystemStorage) CleanupExpired(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention)
	removed := 0

	err := filepath.WalkDir(f.basePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".pdf") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("storage: cleanup failed: %w", err)
	}

	f.pruneEmptyDirs()

	if removed > 0 {
		f.logger.Info("expired print files removed", zap.Int("count", removed))
	}
	return removed, nil
}

// resolve maps a key back to an absolute path, refusing keys that escape
// the storage root.
func (f *FileSystemStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidFileID
	}
	full := filepath.Join(f.basePath, filepath.FromSlash(key))
	base := filepath.Clean(f.basePath)
	if full != base && !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", ErrInvalidFileID
	}
	return full, nil
}

func (f *FileSystemStorage) pruneEmptyDirs() {
	var dirs []string
	_ = filepath.WalkDir(f.basePath, func(path string, d os.DirEntry, err error) error {
		if err == nil && d.IsDir() && path != f.basePath {
			dirs = append(dirs, path)
		}
		return nil
	})
	// Deepest first so parents empty out as children go
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Remove(dirs[i])
	}
}

// Ensure FileSystemStorage implements PrintFileStorage
var _ PrintFileStorage = (*FileSystemStorage)(nil)
