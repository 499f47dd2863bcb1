package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DHEENA0007/notsharing/internal/domain"

	"github.com/google/uuid"
)

// Kind buckets uploads by purpose. The value doubles as the directory name.
type Kind string

const (
	KindNote       Kind = "notes"
	KindThumbnail  Kind = "thumbnails"
	KindAttachment Kind = "comment_attachments"
	KindProfile    Kind = "profiles"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindNote, KindThumbnail, KindAttachment, KindProfile:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown upload kind %q: %w", s, domain.ErrInvalid)
}

// Store holds uploaded blobs behind opaque refs. The rest of the system
// never inspects content, only carries refs around.
type Store interface {
	Save(kind Kind, filename string, r io.Reader) (ref string, err error)
	Open(ref string) (io.ReadCloser, error)
	URL(ref string) string
}

type DiskStore struct {
	Root    string
	BaseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Save(kind Kind, filename string, r io.Reader) (string, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return "", err
	}

	name := uuid.NewString()
	if base := sanitizeName(filename); base != "" {
		name += "_" + base
	}
	ref := string(kind) + "/" + name

	dir := filepath.Join(s.Root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *DiskStore) Open(ref string) (io.ReadCloser, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %q: %w", ref, domain.ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (s *DiskStore) URL(ref string) string {
	return s.BaseURL + "/files/" + ref
}

// resolve rejects refs that escape the root.
func (s *DiskStore) resolve(ref string) (string, error) {
	clean := filepath.Clean(ref)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("bad file ref %q: %w", ref, domain.ErrInvalid)
	}
	return filepath.Join(s.Root, clean), nil
}

func sanitizeName(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, base)
}
