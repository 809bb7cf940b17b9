package services

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/openwall/openwall-be/model"
)

const DefaultMaxUploadBytes = 25 << 20 // 25 MiB

// MediaStore is the upload collaborator: it takes raw multipart files and
// hands back MediaRef descriptors with a retrievable URL. Storage is
// pass-through to the local filesystem; no processing happens here.
type MediaStore struct {
	dir      string
	baseURL  string
	maxBytes int64
	logger   *log.Entry
}

func NewMediaStore(dir, baseURL string, maxBytes int64) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload directory")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &MediaStore{
		dir:      dir,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxBytes: maxBytes,
		logger:   log.WithField("component", "media"),
	}, nil
}

func (ms *MediaStore) Save(ctx context.Context, header *multipart.FileHeader) (*model.MediaRef, error) {
	if header.Size > ms.maxBytes {
		return nil, errors.Errorf("file %v exceeds the upload size limit", header.Filename)
	}
	src, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	// uuid-prefixed name: uploads never collide and the original name
	// never touches the filesystem
	stored := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(ms.dir, stored))
	if err != nil {
		return nil, errors.Wrap(err, "creating upload file")
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return nil, errors.Wrap(err, "writing upload file")
	}

	return &model.MediaRef{
		FileUrl:  ms.baseURL + "/" + stored,
		FileName: header.Filename,
		FileType: classify(header.Header.Get("Content-Type")),
		FileSize: header.Size,
	}, nil
}

// Remove deletes the backing file of a MediaRef. Already-gone files are
// not an error.
func (ms *MediaStore) Remove(ctx context.Context, fileUrl string) error {
	// only the final path element is trusted; anything else in the URL is
	// client-controlled
	name := path.Base(fileUrl)
	if name == "." || name == "/" || name == ".." {
		return errors.Errorf("malformed file url %q", fileUrl)
	}
	if err := os.Remove(filepath.Join(ms.dir, name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing upload file")
	}
	return nil
}

func (ms *MediaStore) Exists(ctx context.Context, fileUrl string) (bool, error) {
	if len(fileUrl) == 0 {
		return false, nil
	}
	if _, err := os.Stat(filepath.Join(ms.dir, path.Base(fileUrl))); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func classify(contentType string) model.MediaType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return model.MediaImage
	case strings.HasPrefix(contentType, "video/"):
		return model.MediaVideo
	default:
		return model.MediaFile
	}
}
