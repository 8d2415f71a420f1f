//go:build oscartarget

package cam

import "github.com/leanxcam/oscar/framework"

// readTarget issues the sync ioctl bounded by maxAgeMs/timeoutMs, reads
// the completed frame back through the driver, and invokes the
// registered correction callback with the captured-window coordinates,
// matching cam_target.c's OscCamReadPicture.
func (c *Camera) readTarget(fb *FrameBuffer, id uint8, maxAgeMs, timeoutMs int) error {
	if err := c.driver.Sync(id, timeoutMs, maxAgeMs); err != nil {
		return err
	}
	data, err := c.driver.GetLastFrame(c.lastCaptureWindow)
	if err != nil {
		return err
	}
	copy(fb.Data, data)

	if c.corrector != nil {
		win := c.lastCaptureWindow
		if err := c.corrector.Apply(fb.Data, win.X, win.Y, win.Width, win.Height); err != nil {
			c.log.Warning("calibration correction failed", "error", err)
		}
	}
	return nil
}

// readHost is unavailable on the target build: the BMP/filename-reader
// stand-in path is host-only. ReadPicture only reaches this when a
// caller wires a SensorDriver-less Camera into an oscartarget binary,
// which is not a supported configuration.
func (c *Camera) readHost(fb *FrameBuffer) error {
	return framework.New("cam", framework.ErrUnsupportedFormat, "readHost unavailable on target build", nil)
}
