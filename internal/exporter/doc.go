// Package exporter writes pipeline results to disk.
//
// It contains three pieces:
//
// WriteRecordsJSON: serializes a monthly series as an indented JSON array.
// The file only appears once the whole document has been encoded.
//
// StreamWriter: row-at-a-time CSV output on top of encoding/csv, with the
// ability to copy a raw header line and to reproduce blank lines.
//
// WriteUploadPayload: the indicator/data document and data-source
// preference file consumed by the dashboard's local upload feature.
//
// Example usage:
//
//	if err := exporter.WriteRecordsJSON("cpi_local_data.json", records); err != nil {
//		return err
//	}
//
//	stream := exporter.NewStreamWriter(out, exporter.StreamOptions{UseCRLF: true})
//	_ = stream.WriteRaw(header)
//	_ = stream.WriteRecord([]string{"2024-02-01", "4.82"})
//	err := stream.Flush()
package exporter
