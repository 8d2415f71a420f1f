/*
DESCRIPTION
  device.go declares SensorDriver, the ioctl-shaped contract the target
  backend implements over the kernel character device fronting the
  MT9V032, grounded on mt9v032.h's struct frame_buffer, capture_window,
  capture_param, image_info and the CAM_S* and CAM_G* ioctl numbers, and on
  spec.md §6 "Sensor driver contract".

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

// SensorDriver is the capture-side device handle the pipeline drives on
// the target: a kernel character device exposing frame-buffer
// registration, capture-window get/set, trigger/abort/sync of a
// capture, and retrieval of the last completed frame. Register access
// goes through backend.Backend instead, since the I2C path backend.Target
// already owns is the same one the driver itself uses internally.
type SensorDriver interface {
	// SetFrameBuffer hands the driver a buffer it may DMA into.
	SetFrameBuffer(id uint8, data []byte, cached bool) error

	// SetCaptureWindow and GetCaptureWindow configure and read back the
	// sensor's active capture window.
	SetCaptureWindow(win AOI) error
	GetCaptureWindow() (AOI, error)

	// TriggerCapture arms buffer id to be filled under the given window
	// and trigger mode.
	TriggerCapture(id uint8, win AOI, mode TriggerMode) error

	// AbortCapture cancels an in-flight capture on id.
	AbortCapture(id uint8) error

	// Sync blocks until buffer id's capture completes, or returns
	// timeout/too-old per the supplied bounds.
	Sync(id uint8, timeoutMs, maxAgeMs int) error

	// GetLastFrame returns the pixel bytes of the most recently
	// completed capture, cropped to win.
	GetLastFrame(win AOI) ([]byte, error)
}
