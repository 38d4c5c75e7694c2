package uploads

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	ErrEmptyFile       = errors.New("uploaded file is empty")
	ErrFileTooLarge    = errors.New("uploaded file exceeds the size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrInvalidPath     = errors.New("invalid upload path")
)

const (
	// MaxUploadSize caps a single upload at 10 MiB.
	MaxUploadSize = 10 << 20

	// URLPrefix is the public path prefix under which uploads are served.
	URLPrefix = "/uploads/"
)

// Service stores uploaded invitation media (photos, music) on a filesystem
// and serves them back by URL path. Files are renamed to random identifiers
// so client-supplied names never touch the disk.
type Service struct {
	fs afero.Fs
}

// NewService creates an uploads service backed by the given directory on the
// OS filesystem.
func NewService(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Service{fs: afero.NewBasePathFs(afero.NewOsFs(), dir)}, nil
}

// NewServiceWithFs creates an uploads service on an arbitrary filesystem.
func NewServiceWithFs(fs afero.Fs) *Service {
	return &Service{fs: fs}
}

// Save stores an uploaded file and returns its public URL path. Only image
// and audio content is accepted; the type is sniffed from the bytes, not
// taken from the client.
func (s *Service) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if len(data) > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") && !strings.HasPrefix(mtype.String(), "audio/") {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + mtype.Extension()
	if err := afero.WriteFile(s.fs, name, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return URLPrefix + name, nil
}

// Remove deletes a stored file by its public URL path. Returns false without
// error when the file does not exist; the row pointing at it is the thing
// being cleaned up, and a missing file just means less work.
func (s *Service) Remove(urlPath string) (bool, error) {
	name, err := fileName(urlPath)
	if err != nil {
		return false, err
	}

	err = s.fs.Remove(name)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove upload: %w", err)
	}
	return true, nil
}

// Open opens a stored file for reading by its public URL path.
func (s *Service) Open(urlPath string) (afero.File, error) {
	name, err := fileName(urlPath)
	if err != nil {
		return nil, err
	}
	return s.fs.Open(name)
}

// HTTPFileSystem adapts the upload store for http.FileServer.
func (s *Service) HTTPFileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs)
}

// fileName reduces a public URL path to a bare stored file name, rejecting
// anything that escapes the upload directory.
func fileName(urlPath string) (string, error) {
	if !strings.HasPrefix(urlPath, URLPrefix) {
		return "", ErrInvalidPath
	}
	name := strings.TrimPrefix(urlPath, URLPrefix)
	name = path.Clean("/" + name)[1:]
	if name == "" || name == "." || strings.Contains(name, "/") || strings.Contains(name, string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return name, nil
}
