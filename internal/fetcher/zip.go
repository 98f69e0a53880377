package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractZIP extracts all files from a ZIP archive to the destination
// directory, flattening any directory structure. Boundary archives hold a
// flat set of shapefile components (.shp, .shx, .dbf, .prj).
func ExtractZIP(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var extracted []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		// Flatten and sanitize against zip slip.
		name := filepath.Base(f.Name)
		destPath := filepath.Join(destDir, name)
		if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return extracted, eris.Errorf("zip: illegal path %q", f.Name)
		}

		rc, err := f.Open()
		if err != nil {
			return extracted, eris.Wrapf(err, "zip: open entry %s", f.Name)
		}

		out, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return extracted, eris.Wrapf(err, "zip: create %s", destPath)
		}

		if _, err := io.Copy(out, rc); err != nil {
			_ = out.Close()
			_ = rc.Close()
			return extracted, eris.Wrapf(err, "zip: extract %s", f.Name)
		}
		_ = out.Close()
		_ = rc.Close()

		extracted = append(extracted, destPath)
	}

	return extracted, nil
}

// FindByExt finds the first file with the given extension in a directory.
func FindByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file found in %s", ext, dir)
}
