package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 15, 14, 30, 22, 0, time.UTC)

func TestGenerateOutputFileName(t *testing.T) {
	tests := []struct {
		name   string
		format string
		params map[string]string
		want   string
	}{
		{name: "stem", format: "{stem}_ledger.xml", params: map[string]string{"stem": "nalog"}, want: "nalog_ledger.xml"},
		{name: "date", format: "{stem}_{date}", params: map[string]string{"stem": "nalog"}, want: "nalog_20240315.xml"},
		{name: "timestamp", format: "out_{timestamp}.XML", want: "out_20240315_143022.XML"},
		{name: "time", format: "{time}.xml", want: "143022.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateOutputFileName(tt.format, tt.params, fixedNow))
		})
	}
}

func TestGenerateOutputFileName_UUID(t *testing.T) {
	name := GenerateOutputFileName("{uuid}.xml", nil, fixedNow)

	_, err := uuid.Parse(name[:len(name)-len(".xml")])
	assert.NoError(t, err)
}

func TestOutputPath(t *testing.T) {
	input := filepath.Join("data", "in", "nalog mart.xlsx")

	assert.Equal(t,
		filepath.Join("data", "in", "nalog mart_ledger.xml"),
		OutputPath(input, "", "{stem}_ledger.xml", fixedNow))

	assert.Equal(t,
		filepath.Join("out", "nalog mart_ledger.xml"),
		OutputPath(input, "out", "{stem}_ledger.xml", fixedNow))
}

func TestAuditPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("out", "xml_import_debug.csv"),
		AuditPath(filepath.Join("out", "nalog.xml"), "xml_import_debug.csv"))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "nalog.xml")

	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stale.xml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	removed, err := RemoveIfExists(path)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, FileExists(path))

	removed, err = RemoveIfExists(path)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	assert.True(t, FileExists(dir))
}
