package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZIP(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, content := range entries {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractZIP(t *testing.T) {
	zipPath := writeTestZIP(t, map[string]string{
		"cb_2022_us_county_500k.shp": "shp data",
		"cb_2022_us_county_500k.dbf": "dbf data",
		"cb_2022_us_county_500k.prj": "prj data",
	})

	destDir := t.TempDir()
	extracted, err := ExtractZIP(zipPath, destDir)
	require.NoError(t, err)
	assert.Len(t, extracted, 3)

	data, err := os.ReadFile(filepath.Join(destDir, "cb_2022_us_county_500k.shp"))
	require.NoError(t, err)
	assert.Equal(t, "shp data", string(data))
}

func TestExtractZIP_FlattensDirectories(t *testing.T) {
	zipPath := writeTestZIP(t, map[string]string{
		"nested/dir/file.shp": "nested shp",
	})

	destDir := t.TempDir()
	extracted, err := ExtractZIP(zipPath, destDir)
	require.NoError(t, err)
	require.Len(t, extracted, 1)
	assert.Equal(t, filepath.Join(destDir, "file.shp"), extracted[0])
}

func TestFindByExt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.dbf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.SHP"), []byte("x"), 0o644))

	path, err := FindByExt(dir, ".shp")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.SHP"), path)

	_, err = FindByExt(dir, ".prj")
	assert.Error(t, err)
}
