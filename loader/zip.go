package loader

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/wippyai/jvm-runtime/errors"
)

// ZipLoader reads classes from a jar or zip archive. The central
// directory is indexed once when the archive is opened.
type ZipLoader struct {
	path    string
	closer  io.Closer
	entries map[string]*zip.File
}

// OpenZip opens the archive at path.
func OpenZip(path string) (*ZipLoader, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Load("open archive "+path, err)
	}
	return newZipLoader(path, &rc.Reader, rc), nil
}

// NewZipLoader indexes an archive held in memory.
func NewZipLoader(data []byte) (*ZipLoader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Load("read archive", err)
	}
	return newZipLoader("", zr, nil), nil
}

func newZipLoader(path string, zr *zip.Reader, closer io.Closer) *ZipLoader {
	z := &ZipLoader{path: path, closer: closer, entries: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			z.entries[f.Name] = f
		}
	}
	return z
}

// Path returns the archive path, or "" for an in-memory archive.
func (z *ZipLoader) Path() string { return z.path }

// Len returns the number of file entries in the archive.
func (z *ZipLoader) Len() int { return len(z.entries) }

func (z *ZipLoader) Load(name string) ([]byte, error) {
	file, err := ClassFileName(name)
	if err != nil {
		return nil, err
	}
	f, ok := z.entries[file]
	if !ok {
		return nil, notFound(name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Load("open entry "+file, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Load("read entry "+file, err)
	}
	return data, nil
}

// Close releases the archive file.
func (z *ZipLoader) Close() error {
	if z.closer == nil {
		return nil
	}
	return z.closer.Close()
}
