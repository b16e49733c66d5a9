package report

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/gocarina/gocsv"
)

// Difference types written to the difference_type column.
const (
	// TypeFieldDifference marks a document present in both indices with
	// differing fields.
	TypeFieldDifference = "field_difference"
	// TypeMissing marks a document present in only one of the indices.
	TypeMissing = "missing_in_one_index"
)

// flushEvery bounds how many rows are buffered before they hit the disk.
const flushEvery = 500

// Row is one report line.
type Row struct {
	// DocID is the document identifier.
	DocID string `csv:"doc_id"`
	// DifferenceType is one of TypeFieldDifference or TypeMissing.
	DifferenceType string `csv:"difference_type"`
	// DiffDetails is either the JSON-encoded delta or a note naming the
	// index the document was found in.
	DiffDetails string `csv:"diff_details"`
}

// MissingRow builds a row for a document present only in the named index.
func MissingRow(docID, index string) Row {
	return Row{
		DocID:          docID,
		DifferenceType: TypeMissing,
		DiffDetails:    fmt.Sprintf("Present in: %s", index),
	}
}

// Sink accepts report rows. The orchestrator writes through this interface
// so tests can capture rows in memory.
type Sink interface {
	Append(row Row) error
}

// Writer serializes report rows to a CSV file. Rows are buffered and
// flushed in batches.
type Writer struct {
	file    *os.File
	csv     *gocsv.SafeCSVWriter
	pending []Row
	rows    int
}

// NewWriter creates the output file and writes the header row.
func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	w := &Writer{
		file: file,
		csv:  gocsv.DefaultCSVWriter(file),
	}

	// Marshalling an empty slice emits only the header.
	if err := gocsv.MarshalCSV(&[]Row{}, w.csv); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}
	return w, nil
}

// Append buffers a row, flushing to disk once the batch is full.
func (w *Writer) Append(row Row) error {
	w.pending = append(w.pending, row)
	w.rows++
	if len(w.pending) >= flushEvery {
		return w.Flush()
	}
	return nil
}

// Flush writes all buffered rows to the file.
func (w *Writer) Flush() error {
	if len(w.pending) == 0 {
		return nil
	}
	if err := gocsv.MarshalCSVWithoutHeaders(&w.pending, w.csv); err != nil {
		return fmt.Errorf("failed to write report rows: %w", err)
	}
	w.pending = w.pending[:0]
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

// Rows returns the number of rows appended so far.
func (w *Writer) Rows() int {
	return w.rows
}

// Close flushes pending rows and closes the file.
func (w *Writer) Close() error {
	flushErr := w.Flush()
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return flushErr
}

var nonWord = regexp.MustCompile(`\W+`)

// Filename generates the default report name:
// <timestamp>-<indexA>-by-<indexB>.csv with non-word characters in the
// index names replaced by underscores.
func Filename(indexA, indexB string, now time.Time) string {
	return fmt.Sprintf("%s-%s-by-%s.csv",
		now.Format("2006-01-02_15-04-05"),
		nonWord.ReplaceAllString(indexA, "_"),
		nonWord.ReplaceAllString(indexB, "_"),
	)
}
