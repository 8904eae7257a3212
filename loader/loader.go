package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jvmruntime "github.com/wippyai/jvm-runtime"
	"github.com/wippyai/jvm-runtime/errors"
)

// ClassFileName returns the slash separated path of a class inside a class
// path entry, e.g. "java/lang/Object.class".
func ClassFileName(name string) (string, error) {
	internal := strings.ReplaceAll(strings.TrimSuffix(name, ".class"), ".", "/")
	if internal == "" || strings.ContainsRune(internal, '\\') {
		return "", errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("invalid class name %q", name))
	}
	for _, part := range strings.Split(internal, "/") {
		if part == "" {
			return "", errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("invalid class name %q", name))
		}
	}
	return internal + ".class", nil
}

func notFound(name string) error {
	return errors.NotFound(errors.PhaseLoad, "class", name)
}

// DirLoader reads classes from a directory tree laid out by package.
type DirLoader struct {
	root string
}

// NewDirLoader returns a loader rooted at dir.
func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{root: dir}
}

// Root returns the directory classes are read from.
func (d *DirLoader) Root() string { return d.root }

func (d *DirLoader) Load(name string) ([]byte, error) {
	file, err := ClassFileName(name)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(d.root, filepath.FromSlash(file))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, errors.Load("read "+path, err)
	}
	return data, nil
}

// MapLoader serves classes from memory, keyed by internal name.
type MapLoader map[string][]byte

func (m MapLoader) Load(name string) ([]byte, error) {
	file, err := ClassFileName(name)
	if err != nil {
		return nil, err
	}
	data, ok := m[strings.TrimSuffix(file, ".class")]
	if !ok {
		return nil, notFound(name)
	}
	return data, nil
}

// Chain searches its loaders in order and returns the first hit.
type Chain []jvmruntime.ClassLoader

func (c Chain) Load(name string) ([]byte, error) {
	for _, l := range c {
		data, err := l.Load(name)
		if err == nil {
			return data, nil
		}
		if !errors.IsKind(err, errors.KindNotFound) {
			return nil, err
		}
	}
	return nil, notFound(name)
}

// Close closes every loader in the chain that holds resources and returns
// the first error.
func (c Chain) Close() error {
	var first error
	for _, l := range c {
		if closer, ok := l.(io.Closer); ok {
			if err := closer.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
