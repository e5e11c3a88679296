package services

import "errors"

var (
	// ErrInvalidDate is returned for a date bound that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date, use YYYY-MM-DD")
	// ErrFileNotFound is returned when a requested file or database is absent.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnsupportedFile is returned for document types with no extractor.
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrInvalidFilename is returned for names that would escape the data directory.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrNoResults is returned when there is nothing to export.
	ErrNoResults = errors.New("no results to export")
	// ErrNoJobs is returned when no schedule file yielded a job.
	ErrNoJobs = errors.New("no job data found in schedule files")
	// ErrNoQuickBooksFiles is returned when no "YYYY QB.csv" file exists.
	ErrNoQuickBooksFiles = errors.New("no QuickBooks files found")
	// ErrUnparseableDate is returned by ParseDate when every layout fails.
	ErrUnparseableDate = errors.New("could not parse date")
)
