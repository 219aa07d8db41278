package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
)

// StreamOptions configures a StreamWriter.
type StreamOptions struct {
	// UseCRLF terminates rows with \r\n instead of \n.
	UseCRLF bool
}

// StreamWriter writes CSV rows one at a time.
type StreamWriter struct {
	buf     *bufio.Writer
	writer  *csv.Writer
	useCRLF bool
	rows    int
}

// NewStreamWriter returns a StreamWriter writing to w. Call Flush when done.
func NewStreamWriter(w io.Writer, opts StreamOptions) *StreamWriter {
	buf := bufio.NewWriter(w)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = opts.UseCRLF

	return &StreamWriter{
		buf:     buf,
		writer:  writer,
		useCRLF: opts.UseCRLF,
	}
}

// WriteRaw copies line to the output unchanged. It is used for headers that
// must survive byte for byte, so line should include its own terminator.
func (s *StreamWriter) WriteRaw(line []byte) error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return err
	}
	if _, err := s.buf.Write(line); err != nil {
		return fmt.Errorf("failed to write raw line: %w", err)
	}
	return nil
}

// WriteRecord writes a single record. An empty record produces a blank line;
// a record holding one empty field is written as "" so it reads back as a
// row rather than a blank line.
func (s *StreamWriter) WriteRecord(record []string) error {
	if len(record) == 1 && record[0] == "" {
		if err := s.WriteRaw([]byte(`""` + s.lineEnd())); err != nil {
			return fmt.Errorf("failed to write record %d: %w", s.rows+1, err)
		}
		s.rows++
		return nil
	}
	if err := s.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record %d: %w", s.rows+1, err)
	}
	s.rows++
	return nil
}

// WriteBlankLines writes n empty lines.
func (s *StreamWriter) WriteBlankLines(n int) error {
	for i := 0; i < n; i++ {
		if err := s.WriteRecord(nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *StreamWriter) lineEnd() string {
	if s.useCRLF {
		return "\r\n"
	}
	return "\n"
}

// Rows returns the number of records written so far, blank lines included.
func (s *StreamWriter) Rows() int {
	return s.rows
}

// Flush pushes buffered output to the underlying writer.
func (s *StreamWriter) Flush() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return err
	}
	return s.buf.Flush()
}
