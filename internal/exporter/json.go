package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"indicatorcli/internal/series"
)

// jsonIndent matches the two-space layout the dashboard fixtures use.
const jsonIndent = "  "

// EncodeRecordsJSON renders records as an indented JSON array with no
// trailing newline. A nil slice encodes as [].
func EncodeRecordsJSON(records []series.Record) ([]byte, error) {
	if records == nil {
		records = []series.Record{}
	}
	data, err := marshalJSON(records, jsonIndent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return data, nil
}

// WriteRecordsJSON encodes records and writes them to path, replacing any
// existing file.
func WriteRecordsJSON(path string, records []series.Record) error {
	data, err := EncodeRecordsJSON(records)
	if err != nil {
		return err
	}

	slog.Info("Writing JSON file",
		slog.String("file_path", path),
		slog.Int("record_count", len(records)))

	return writeFileAtomic(path, data)
}

// marshalJSON encodes v without HTML escaping, so URLs keep their literal
// '&'. An empty indent produces compact output.
func marshalJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
