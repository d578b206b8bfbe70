package journal

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/daybook-app/daybook/internal/camera"
	"github.com/daybook-app/daybook/internal/media"
	"github.com/daybook-app/daybook/internal/models"
)

// captureTimeout bounds one photo capture or document scan. Scans in
// particular take well longer than a storage round trip.
const captureTimeout = 30 * time.Second

// handleCameraTapped opens the capture options sheet. Any other open
// capture surface is torn down first.
func (c *Controller) handleCameraTapped() (tea.Model, tea.Cmd) {
	if c.session == nil {
		return c, nil
	}
	c.teardownCapture()
	c.camGen++
	c.session.setCamera(&cameraSession{
		stage:  cameraStageOptions,
		status: c.camera.AuthorizationStatus(),
	})
	c.errMsg = ""
	return c, nil
}

// beginCapture leaves the options sheet for one of the two capture flows.
// Scanning checks for scanner hardware before any authorization prompt;
// a missing scanner fails immediately without prompting.
func (c *Controller) beginCapture(kind captureKind) (tea.Model, tea.Cmd) {
	if c.session == nil || c.session.camera == nil {
		return c, nil
	}
	cam := c.session.camera
	if cam.stage != cameraStageOptions {
		return c, nil
	}
	if kind == captureScan && !c.camera.DocumentScannerAvailable() {
		c.camGen++
		c.session.clearCapture()
		c.errMsg = "no document scanner is available"
		return c, nil
	}
	cam.kind = kind

	switch c.camera.AuthorizationStatus() {
	case camera.AuthorizationGranted:
		return c, c.startCapture(cam, kind)
	case camera.AuthorizationUndetermined:
		cam.stage = cameraStageAuthorizing
		return c, c.requestCameraAuthCmd(c.camGen, kind)
	default:
		c.camGen++
		c.session.clearCapture()
		c.errMsg = "camera access has been denied"
		return c, nil
	}
}

func (c *Controller) startCapture(cam *cameraSession, kind captureKind) tea.Cmd {
	if kind == captureScan {
		cam.stage = cameraStageScanning
		return c.scanDocumentCmd(c.camGen)
	}
	cam.stage = cameraStageCapturing
	return c.capturePhotoCmd(c.camGen)
}

func (c *Controller) requestCameraAuthCmd(gen int, kind captureKind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.withTimeout()
		defer cancel()
		status, err := c.camera.RequestAuthorization(ctx)
		return cameraAuthMsg{gen: gen, kind: kind, status: status, err: err}
	}
}

func (c *Controller) capturePhotoCmd(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
		defer cancel()
		data, err := c.camera.CapturePhoto(ctx)
		return photoCapturedMsg{gen: gen, data: data, err: err}
	}
}

func (c *Controller) scanDocumentCmd(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
		defer cancel()
		pages, err := c.camera.ScanDocument(ctx)
		return documentScannedMsg{gen: gen, pages: pages, err: err}
	}
}

// currentCamera returns the camera session the generation belongs to, or
// nil when the completion is stale.
func (c *Controller) currentCamera(gen int) *cameraSession {
	if gen != c.camGen || c.session == nil || c.session.camera == nil {
		return nil
	}
	return c.session.camera
}

func (c *Controller) handleCameraAuth(msg cameraAuthMsg) (tea.Model, tea.Cmd) {
	cam := c.currentCamera(msg.gen)
	if cam == nil {
		return c, nil
	}
	cam.status = msg.status
	if msg.err != nil || msg.status != camera.AuthorizationGranted {
		if msg.err != nil {
			c.log.Error(context.Background(), "camera authorization failed", "error", msg.err)
		}
		c.camGen++
		c.session.clearCapture()
		c.errMsg = "camera access has been denied"
		return c, nil
	}
	return c, c.startCapture(cam, msg.kind)
}

func (c *Controller) handlePhotoCaptured(msg photoCapturedMsg) (tea.Model, tea.Cmd) {
	if c.currentCamera(msg.gen) == nil {
		return c, nil
	}
	c.session.clearCapture()
	if msg.err != nil {
		c.log.Error(context.Background(), "photo capture failed", "error", msg.err)
		c.errMsg = "could not capture photo"
		return c, nil
	}
	c.attachCapture(models.AttachmentKindImage, msg.data)
	return c, nil
}

func (c *Controller) handleDocumentScanned(msg documentScannedMsg) (tea.Model, tea.Cmd) {
	if c.currentCamera(msg.gen) == nil {
		return c, nil
	}
	c.session.clearCapture()
	if msg.err != nil {
		c.log.Error(context.Background(), "document scan failed", "error", msg.err)
		c.errMsg = "could not scan document"
		return c, nil
	}
	// A zero-page scan is a user-cancelled scan, not a failure.
	failed := 0
	for _, page := range msg.pages {
		if !c.attachCapture(models.AttachmentKindScan, page) {
			failed++
		}
	}
	if failed > 0 {
		c.errMsg = fmt.Sprintf("%d scanned pages could not be processed", failed)
	}
	return c, nil
}

func (c *Controller) handleCameraCancelled() (tea.Model, tea.Cmd) {
	if c.session == nil || c.session.camera == nil {
		return c, nil
	}
	c.camGen++
	c.session.clearCapture()
	return c, nil
}

// attachCapture converts a raw captured image and appends it to the
// session's pending attachments. A conversion failure drops the capture
// and surfaces a non-fatal error.
func (c *Controller) attachCapture(kind models.AttachmentKind, raw []byte) bool {
	conv, err := media.Convert(raw)
	if err != nil {
		c.log.Error(context.Background(), "image conversion failed", "error", err)
		c.errMsg = "captured image could not be processed"
		return false
	}
	att := models.NewAttachment(kind, conv.Data, conv.Thumbnail, conv.MIMEType)
	c.session.pending = append(c.session.pending, att)
	return true
}
