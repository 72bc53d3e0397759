package uploads

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

	"lemburan/export"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Prefix is the URL path proof images are served under.
const Prefix = "/uploads/"

// MaxFileBytes bounds a single uploaded proof image.
const MaxFileBytes = export.MaxImageBytes

var (
	ErrMissingFile = errors.New("no file uploaded")
	ErrInvalidType = errors.New("only image files are allowed")
	ErrTooLarge    = errors.New("file too large")
)

// allowedTypes maps sniffed content types to the stored file extension.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store keeps proof images on local disk and hands out public URLs for them.
type Store struct {
	dir     string
	baseURL string
	now     func() time.Time
}

func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload directory")
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

// Save stores an uploaded image and returns its public URL. kind is a short
// tag such as "start" or "end" that becomes part of the file name.
func (s *Store) Save(fh *multipart.FileHeader, kind string) (string, error) {
	if fh == nil || fh.Size == 0 {
		return "", ErrMissingFile
	}
	if fh.Size > MaxFileBytes {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", errors.Wrap(err, "reading upload")
	}
	ext, ok := allowedTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", ErrInvalidType
	}

	name := fmt.Sprintf("%d_%s_%s%s", s.now().UnixMilli(), uuid.NewString(), kind, ext)
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "creating stored file")
	}

	if _, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head[:n]), src)); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", errors.Wrap(err, "writing stored file")
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", errors.Wrap(err, "closing stored file")
	}

	return s.baseURL + Prefix + name, nil
}

// Remove deletes the file behind a URL returned by Save. URLs this store did
// not issue are ignored.
func (s *Store) Remove(url string) error {
	path, ok := s.localPath(url)
	if !ok {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing stored file")
	}
	return nil
}

// Handler serves stored files. Mount it at Prefix.
func (s *Store) Handler() http.Handler {
	return http.StripPrefix(Prefix, http.FileServer(http.Dir(s.dir)))
}

// Fetcher reads images this store issued straight from disk and passes any
// other URL to next.
func (s *Store) Fetcher(next export.Fetcher) export.Fetcher {
	return export.FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		path, ok := s.localPath(url)
		if !ok {
			if next == nil {
				return nil, errors.Errorf("no fetcher for %s", url)
			}
			return next.Fetch(ctx, url)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading stored image")
		}
		return data, nil
	})
}

// localPath maps a public URL back to a file inside dir.
func (s *Store) localPath(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, s.baseURL+Prefix)
	if !ok || name == "" || name == ".." || name != filepath.Base(name) {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}
