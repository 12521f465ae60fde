package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"storefront/pkg/utils"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Store writes accepted images under one directory and hands back the public path
type Store struct {
	fs        afero.Fs
	dir       string
	urlPrefix string
	allowed   map[string]struct{}
	log       *zap.Logger
}

func NewStore(fs afero.Fs, config utils.UploadConfig, log *zap.Logger) (*Store, error) {
	if err := fs.MkdirAll(config.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", config.Dir, err)
	}

	allowed := make(map[string]struct{}, len(config.AllowedExtensions))
	for _, ext := range config.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	return &Store{
		fs:        fs,
		dir:       config.Dir,
		urlPrefix: strings.TrimSuffix(config.URLPrefix, "/"),
		allowed:   allowed,
		log:       log.With(zap.String("component", "upload")),
	}, nil
}

// Allowed reports whether the filename carries an accepted extension.
// Only the name is inspected, never the content.
func (s *Store) Allowed(filename string) bool {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return false
	}
	_, ok := s.allowed[strings.ToLower(filename[dot+1:])]
	return ok
}

// Save returns nil without error when there is no file or it is not an accepted image
func (s *Store) Save(header *multipart.FileHeader) (*string, error) {
	if header == nil || header.Filename == "" {
		return nil, nil
	}

	if !s.Allowed(header.Filename) {
		s.log.Info("Skipping upload with disallowed extension", zap.String("filename", header.Filename))
		return nil, nil
	}

	name := storedName(header.Filename)

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer src.Close()

	target := filepath.Join(s.dir, name)
	dst, err := s.fs.Create(target)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := s.fs.Remove(target); rmErr != nil {
			s.log.Warn("Failed to remove partial upload", zap.String("file", name), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("write %s: %w", name, err)
	}

	s.log.Info("Image stored", zap.String("file", name), zap.Int64("bytes", written))

	ref := path.Join(s.urlPrefix, name)
	return &ref, nil
}

// Remove deletes an image previously returned by Save. Unknown or foreign
// refs are ignored.
func (s *Store) Remove(ref string) error {
	name := strings.TrimPrefix(ref, s.urlPrefix+"/")
	if name == ref || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}

	err := s.fs.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}

	s.log.Info("Image removed", zap.String("file", name))
	return nil
}

// FileSystem serves stored images. Directories are reported as missing so
// the upload folder cannot be listed.
func (s *Store) FileSystem() http.FileSystem {
	return filesOnly{afero.NewHttpFs(s.fs).Dir(s.dir)}
}

type filesOnly struct {
	http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

// storedName keeps the extension as uploaded and prefixes a uuid so two
// uploads never share a name. The stem is dropped when nothing survives
// sanitizing.
func storedName(filename string) string {
	dot := strings.LastIndex(filename, ".")
	ext := filename[dot+1:]

	stem := SecureFilename(filename[:dot])
	if stem == "" {
		return uuid.NewString() + "." + ext
	}
	return uuid.NewString() + "_" + stem + "." + ext
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename folds the name to ASCII, drops any directory part and keeps
// only letters, digits, dot, dash and underscore.
func SecureFilename(filename string) string {
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(folder, filename)
	if err != nil {
		ascii = filename
	}

	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeChars.ReplaceAllString(ascii, "")

	return strings.Trim(ascii, "._")
}
