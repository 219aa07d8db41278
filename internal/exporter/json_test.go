package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicatorcli/internal/series"
)

func TestEncodeRecordsJSON(t *testing.T) {
	tests := []struct {
		name    string
		records []series.Record
		want    string
	}{
		{
			name:    "nil is an empty array",
			records: nil,
			want:    "[]",
		},
		{
			name:    "empty",
			records: []series.Record{},
			want:    "[]",
		},
		{
			name: "two records",
			records: []series.Record{
				{Date: "2024-01-01", Value: 308.417},
				{Date: "2024-02-01", Value: 100},
			},
			want: "[\n" +
				"  {\n" +
				"    \"date\": \"2024-01-01\",\n" +
				"    \"value\": 308.417\n" +
				"  },\n" +
				"  {\n" +
				"    \"date\": \"2024-02-01\",\n" +
				"    \"value\": 100.0\n" +
				"  }\n" +
				"]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeRecordsJSON(tt.records)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestWriteRecordsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "cpi_local_data.json")

	records := []series.Record{{Date: "2025-04-01", Value: 320.795}}
	require.NoError(t, WriteRecordsJSON(path, records))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"date\": \"2025-04-01\",\n    \"value\": 320.795\n  }\n]", string(content))

	// overwrite without leaving temp files behind
	require.NoError(t, WriteRecordsJSON(path, nil))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(content))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteRecordsJSON_RejectsNonFinite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	err := WriteRecordsJSON(path, []series.Record{{Date: "2024-01-01", Value: series.Value(nan())}})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestWriteRecordsJSON_UnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteRecordsJSON(filepath.Join(blocker, "out.json"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE")
}
