/*
DESCRIPTION
  capture.go implements the capture/sync state machine: setup-capture,
  cancel-capture, read-picture and read-latest-picture, grounded on
  cam_host.c/cam_target.c's OscCamSetupCapture/OscCamReadPicture and on
  spec.md §4.1's operation list. The target branch drives a SensorDriver
  ioctl; the host branch loads a stand-in bitmap through a
  FilenameReader and crops it to the recorded capture window.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cam

import (
	"github.com/leanxcam/oscar/framework"
)

// SetupCapture arms a capture into the buffer identified by id (or
// resolved through the multi-buffer sentinel). The current AOI is
// recorded as the window that will be applied when the frame is read.
func (c *Camera) SetupCapture(id uint8, mode TriggerMode) error {
	if c.capWin.Width == 0 || c.capWin.Height == 0 {
		return framework.New("cam", framework.ErrNoAreaOfInterestSet, "", nil)
	}

	resolved, err := c.resolveBufferID(id, (*MultiBuffer).CapBuf)
	if err != nil {
		return err
	}
	fb := c.buffers[resolved]
	if fb == nil {
		return framework.New("cam", framework.ErrInvalidParameter, "id", nil)
	}

	if c.driver != nil {
		if err := c.driver.TriggerCapture(resolved, c.capWin, mode); err != nil {
			return err
		}
	} else {
		fb.armCapture(mode)
	}

	c.lastCaptureWindow = c.capWin
	c.capturingID = resolved
	if id == MultiBufferID {
		c.mb.Capture()
	}
	c.log.Debug("capture armed", "id", resolved, "mode", mode)
	return nil
}

// CancelCapture aborts the in-flight capture, if any. The target issues
// an abort ioctl; either backend marks the buffer corrupted, since its
// contents may be left partially written.
func (c *Camera) CancelCapture() error {
	if c.capturingID == InvalidBufferID {
		return framework.New("cam", framework.ErrNothingToAbort, "", nil)
	}
	id := c.capturingID
	c.capturingID = InvalidBufferID

	if c.driver != nil {
		if err := c.driver.AbortCapture(id); err != nil {
			return err
		}
	}
	if fb := c.buffers[id]; fb != nil {
		fb.markCorrupted()
	}
	return nil
}

// ReadPicture blocks until the capture scheduled for id (or resolved
// through the multi-buffer sentinel) is delivered, then returns the
// frame-buffer bytes. maxAgeMs/timeoutMs bound the target's sync ioctl;
// the host accepts and ignores them, since its emulated capture
// completes immediately.
func (c *Camera) ReadPicture(id uint8, maxAgeMs, timeoutMs int) ([]byte, error) {
	resolved, err := c.resolveBufferID(id, (*MultiBuffer).SyncBuf)
	if err != nil {
		return nil, err
	}
	if resolved == InvalidBufferID {
		return nil, framework.New("cam", framework.ErrNoCaptureStarted, "", nil)
	}
	fb := c.buffers[resolved]
	if fb == nil {
		return nil, framework.New("cam", framework.ErrInvalidParameter, "id", nil)
	}

	if c.driver != nil {
		if err := c.readTarget(fb, resolved, maxAgeMs, timeoutMs); err != nil {
			return nil, err
		}
	} else {
		if err := c.readHost(fb); err != nil {
			return nil, err
		}
	}

	fb.markValid()
	if c.capturingID == resolved {
		c.capturingID = InvalidBufferID
	}
	if id == MultiBufferID {
		c.mb.Sync()
	}

	// The AOI may have changed since this buffer's capture was set up;
	// in that case last-valid is invalidated rather than recorded, so a
	// read-latest-picture never returns stale geometry (spec.md §7).
	if c.capWin != c.lastCaptureWindow {
		c.lastValidID = InvalidBufferID
	} else {
		c.lastValidID = resolved
	}
	return fb.Data, nil
}

// ReadLatestPicture returns the buffer associated with the most recent
// successful read.
func (c *Camera) ReadLatestPicture() ([]byte, error) {
	if c.lastValidID == InvalidBufferID {
		return nil, framework.New("cam", framework.ErrNoMatchingPicture, "", nil)
	}
	fb := c.buffers[c.lastValidID]
	if fb == nil {
		return nil, framework.New("cam", framework.ErrNoMatchingPicture, "", nil)
	}
	return fb.Data, nil
}
