// Package quality sorts probe results into bad-file categories and computes
// duration statistics over them.
//
// Classify flags streams shorter than a threshold and files that could not be
// read. Each category is written as a sorted, newline-delimited list of base
// identifiers so it can feed straight back into reconciliation.
package quality
