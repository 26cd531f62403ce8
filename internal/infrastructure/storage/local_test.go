package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PrepareCreatesTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "local_biomni")
	l := NewLocal(root)

	require.NoError(t, l.Prepare())
	require.NoError(t, l.Prepare())

	assert.DirExists(t, filepath.Join(root, "biomni_data", "benchmark", "hle"))
	assert.DirExists(t, filepath.Join(root, "biomni_data", "data_lake"))
}

func TestLocal_ListAndRead(t *testing.T) {
	l := NewLocal(t.TempDir())
	require.NoError(t, l.Prepare())

	require.NoError(t, os.MkdirAll(filepath.Join(l.DataLakeDir(), "gtex"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(l.DataLakeDir(), "gtex", "tpm.csv"), []byte("gene,tpm\nTP53,12\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(l.DataLakeDir(), "a.txt"), []byte("alpha"), 0644))

	files, err := l.ListDataLake()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "gtex/tpm.csv"}, files)

	content, truncated, err := l.ReadDataLakeFile("gtex/tpm.csv")
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, "gene,tpm\nTP53,12\n", content)
}

func TestLocal_ReadTruncatesLargeFiles(t *testing.T) {
	l := NewLocal(t.TempDir())
	require.NoError(t, l.Prepare())
	big := strings.Repeat("x", maxReadBytes+10)
	require.NoError(t, os.WriteFile(filepath.Join(l.DataLakeDir(), "big.txt"), []byte(big), 0644))

	content, truncated, err := l.ReadDataLakeFile("big.txt")
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Len(t, content, maxReadBytes)
}

func TestLocal_RejectsPathEscape(t *testing.T) {
	l := NewLocal(t.TempDir())
	require.NoError(t, l.Prepare())

	_, _, err := l.ReadDataLakeFile("../../secrets.env")
	assert.ErrorIs(t, err, ErrPathEscape)
}

func TestLocal_MissingExpected(t *testing.T) {
	l := NewLocal(t.TempDir())
	require.NoError(t, l.Prepare())
	require.NoError(t, os.WriteFile(filepath.Join(l.DataLakeDir(), "present.parquet"), nil, 0644))

	missing := l.MissingExpected([]string{"present.parquet", "absent.parquet"})

	assert.Equal(t, []string{"absent.parquet"}, missing)
}

func TestLocal_RejectsSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("TOPSECRET"), 0644))

	l := NewLocal(t.TempDir())
	require.NoError(t, l.Prepare())
	require.NoError(t, os.Symlink(outside, filepath.Join(l.DataLakeDir(), "link")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(l.DataLakeDir(), "secret.txt")))

	for _, name := range []string{"link/secret.txt", "secret.txt"} {
		content, _, err := l.ReadDataLakeFile(name)
		assert.ErrorIs(t, err, ErrPathEscape, name)
		assert.Empty(t, content, name)
	}

	assert.Equal(t, []string{"link/secret.txt"}, l.MissingExpected([]string{"link/secret.txt"}))
}

func TestLocal_AllowsSymlinkInsideDataLake(t *testing.T) {
	l := NewLocal(t.TempDir())
	require.NoError(t, l.Prepare())
	require.NoError(t, os.WriteFile(filepath.Join(l.DataLakeDir(), "real.csv"), []byte("gene\n"), 0644))
	require.NoError(t, os.Symlink("real.csv", filepath.Join(l.DataLakeDir(), "alias.csv")))

	content, _, err := l.ReadDataLakeFile("alias.csv")
	require.NoError(t, err)
	assert.Equal(t, "gene\n", content)
}

func TestLocal_ReadTruncatesOnRuneBoundary(t *testing.T) {
	l := NewLocal(t.TempDir())
	require.NoError(t, l.Prepare())
	// "é" is two bytes, so maxReadBytes falls inside one when prefixed by "x".
	big := "x" + strings.Repeat("é", maxReadBytes)
	require.NoError(t, os.WriteFile(filepath.Join(l.DataLakeDir(), "accents.txt"), []byte(big), 0644))

	content, truncated, err := l.ReadDataLakeFile("accents.txt")
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.True(t, utf8.ValidString(content))
	assert.Len(t, content, maxReadBytes-1)
}
