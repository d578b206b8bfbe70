// Package camera provides the photo/document capture collaborator: a
// one-shot still image or a multi-page scanned document, gated by an
// authorization step. The production implementation shells out to a still
// capture command and the SANE scanimage tool.
package camera

import (
	"context"
	"errors"
)

// AuthorizationStatus is the outcome of the camera consent check.
type AuthorizationStatus int

const (
	AuthorizationUndetermined AuthorizationStatus = iota
	AuthorizationGranted
	AuthorizationDenied
	AuthorizationRestricted
)

var (
	// ErrNotAuthorized is returned by capture calls without authorization.
	ErrNotAuthorized = errors.New("camera capture not authorized")

	// ErrUnavailable is returned when no capture device is present.
	ErrUnavailable = errors.New("camera unavailable")

	// ErrScannerUnavailable is returned when no document scanner is present.
	ErrScannerUnavailable = errors.New("document scanner unavailable")
)

// Source is the camera collaborator consumed by the journal controller.
type Source interface {
	// RequestAuthorization resolves the consent and availability gate.
	RequestAuthorization(ctx context.Context) (AuthorizationStatus, error)

	// AuthorizationStatus reports the current status without prompting.
	AuthorizationStatus() AuthorizationStatus

	// Available reports whether a still camera is usable at all.
	Available() bool

	// DocumentScannerAvailable reports whether document scanning hardware
	// is usable on this system.
	DocumentScannerAvailable() bool

	// CapturePhoto takes one still image and returns its raw encoded bytes.
	CapturePhoto(ctx context.Context) ([]byte, error)

	// ScanDocument scans a document and returns one raw image per page. An
	// empty scan returns an empty slice, not an error.
	ScanDocument(ctx context.Context) ([][]byte, error)
}
