package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidName is returned when a package name fails validation.
	ErrInvalidName = zerr.New("invalid package name")

	// ErrInvalidVersion is returned when a package version fails validation.
	ErrInvalidVersion = zerr.New("invalid package version")

	// ErrInvalidReference is returned when a package file reference cannot be parsed.
	ErrInvalidReference = zerr.New("invalid package reference")

	// ErrResolutionFailed is returned when the resolution tool exits non-zero
	// or produces an unusable lockfile.
	ErrResolutionFailed = zerr.New("package resolution failed")

	// ErrResolutionTimeout is returned when the resolution tool exceeds its deadline.
	ErrResolutionTimeout = zerr.New("package resolution timed out")

	// ErrFetchFailed is returned when a package archive cannot be downloaded
	// or does not extract into a usable layout.
	ErrFetchFailed = zerr.New("package fetch failed")

	// ErrPackageNotFound is returned when a reference names a package that is
	// not part of the resolved set.
	ErrPackageNotFound = zerr.New("package not present in resolved set")

	// ErrFileNotFound is returned when a referenced file does not exist inside
	// the package's lib directory.
	ErrFileNotFound = zerr.New("file not found in package")

	// ErrStoreDisabled is returned by the no-op store when package support is
	// switched off.
	ErrStoreDisabled = zerr.New("package store disabled")
)
