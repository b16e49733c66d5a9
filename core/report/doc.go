// Package report accumulates per-document comparison outcomes and
// serializes them as CSV rows.
//
// The row schema matches the columns downstream tooling expects:
// doc_id, difference_type, diff_details. Rows are buffered and flushed in
// batches so a long comparison never holds the whole report in memory.
//
// When no output name is given, Filename produces a timestamped default of
// the form 2025-01-02_15-04-05-index_a-by-index_b.csv.
package report
