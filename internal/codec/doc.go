// Package codec reads and writes pipeline documents.
//
// Documents are YAML (JSON is accepted as a subset). Optional fields are filled with their defaults on decode and
// omitted again on encode when they hold the default. Documents may be local files or http(s) URLs and may be
// compressed with zstd or xz, selected by the .zst and .xz suffixes.
package codec
