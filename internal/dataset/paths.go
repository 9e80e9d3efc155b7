package dataset

import (
	"path"
	"path/filepath"
	"strings"
)

// imagesDirName is the directory under the dataset root that holds all
// generated illustrations, grouped per dataset file.
const imagesDirName = "images"

// FileBase returns a dataset file's name without directory or extension.
// It names the image subdirectory for that file's assets.
func FileBase(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ImageRelPath returns the derived, dataset-root-relative path for a record's
// illustration, always using forward slashes: images/<file_base>/<id>.png.
func ImageRelPath(filePath, id string) string {
	return path.Join(imagesDirName, FileBase(filePath), id+".png")
}

// ImageAbsPath returns the on-disk location for a record's illustration.
func ImageAbsPath(root, filePath, id string) string {
	return filepath.Join(root, imagesDirName, FileBase(filePath), id+".png")
}

// ResolveRelPath converts a dataset-root-relative forward-slash path (the
// form stored in image_url) to an on-disk path under root.
func ResolveRelPath(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
