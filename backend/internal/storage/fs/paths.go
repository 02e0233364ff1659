package fs

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolver turns untrusted gallery and image names into absolute paths under
// root/imagesBase. It is the only place names are checked for traversal.
type Resolver struct {
	root       string
	imagesBase string
}

func NewResolver(root, imagesBase string) *Resolver {
	return &Resolver{
		root:       filepath.Clean(root),
		imagesBase: filepath.Clean(string(filepath.Separator) + imagesBase),
	}
}

func (r *Resolver) Root() string {
	return r.root
}

// Base returns root/imagesBase, the parent of every gallery directory.
func (r *Resolver) Base() string {
	return filepath.Join(r.root, r.imagesBase)
}

// Directory returns root/imagesBase/name. No filesystem access.
func (r *Resolver) Directory(name string) (string, error) {
	if err := checkName("directory", name); err != nil {
		return "", err
	}
	return filepath.Join(r.Base(), name), nil
}

// File returns root/imagesBase/directory/name. No filesystem access.
func (r *Resolver) File(directory, name string) (string, error) {
	if err := checkName("image", name); err != nil {
		return "", err
	}
	dir, err := r.Directory(directory)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// PublicPath strips the root prefix so that root + PublicPath == absolutePath.
func (r *Resolver) PublicPath(absolutePath string) string {
	return filepath.ToSlash(strings.TrimPrefix(absolutePath, r.root))
}

// checkName rejects empty names, the parent-directory token anywhere in the
// name, a bare "." and path separators (galleries are exactly one level deep).
func checkName(kind, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: %s name can not be empty", ErrInvalidName, kind)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %s name can not contain \"..\"", ErrInvalidName, kind)
	case name == ".":
		return fmt.Errorf("%w: %s name can not be \".\"", ErrInvalidName, kind)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %s name can not contain path separators", ErrInvalidName, kind)
	}
	return nil
}
