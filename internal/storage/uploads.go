// Package storage persists uploaded resource images on local disk and hands
// back the public path stored alongside the database record.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

// UploadStore writes multipart uploads into Dir.  Files are named by the
// current unix-millis timestamp plus the original extension, so concurrent
// uploads within the same millisecond are the only collision risk we accept.
type UploadStore struct {
	Dir string
}

// NewUploadStore creates the upload directory if needed and returns a store
// rooted there.
func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{Dir: dir}, nil
}

// Save copies the uploaded file to disk and returns its public path under
// /uploads.  Only the extension of the client-supplied filename is kept.
func (s *UploadStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/uploads/" + name, nil
}
