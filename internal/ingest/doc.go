// Package ingest discovers and loads the per-borough NYC rolling sales
// workbooks into a single unified table of raw rows.
//
// Each source workbook carries a fixed number of title rows before the
// header row; the loader verifies the header at the configured offset and
// fails the run on any mismatch or missing file. Every loaded row keeps its
// provenance-derived numeric borough code for the normalizer to recode.
package ingest
