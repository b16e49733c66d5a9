// Package compare orchestrates the comparison of two Elasticsearch indices.
//
// The pipeline is two sequential passes. Pass 1 scans index A through a
// scroll cursor; each page's ids are fetched from index B in one multi-get
// and matched pairs are diffed, producing field_difference rows for
// changed documents and missing_in_one_index rows for documents absent
// from B. Pass 2 scans index B and reports the ids pass 1 never saw.
//
// Memory stays bounded: one page per index plus the set of ids seen in
// pass 1. Rows stream to the report sink as they are found.
//
// UploadReport optionally pushes the finished CSV to object storage.
package compare
