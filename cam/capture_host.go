//go:build !oscartarget

package cam

import (
	"github.com/leanxcam/oscar/bmp"
	"github.com/leanxcam/oscar/framework"
	"github.com/leanxcam/oscar/pic"
)

// readHost resolves the next stand-in bitmap through the filename
// reader, crops it in place to the window recorded at setup-capture
// time, and writes the result into the frame buffer, matching
// cam_host.c's OscCamReadPicture.
func (c *Camera) readHost(fb *FrameBuffer) error {
	if c.reader == nil {
		return framework.New("cam", framework.ErrNoCaptureStarted, "no-filename-reader", nil)
	}

	tick := c.backend.Tick()
	name, err := c.reader.Next(tick)
	if err != nil {
		return err
	}

	img, err := bmp.Read(name)
	if err != nil {
		return err
	}

	cropped, err := cropToWindow(img, c.lastCaptureWindow)
	if err != nil {
		return err
	}
	if len(cropped) > len(fb.Data) {
		return framework.New("cam", framework.ErrBufferTooSmall, "", nil)
	}
	copy(fb.Data, cropped)
	return nil
}

// readTarget is unavailable on the host build: there is no kernel
// driver to sync against. ReadPicture only reaches this if a caller
// wires a SensorDriver into a non-oscartarget binary, which is not a
// supported configuration.
func (c *Camera) readTarget(fb *FrameBuffer, id uint8, maxAgeMs, timeoutMs int) error {
	return framework.New("cam", framework.ErrUnsupportedFormat, "readTarget unavailable on host build", nil)
}

// cropToWindow extracts the sub-rectangle described by win from img,
// returning packed pixel bytes in img's own pixel type.
func cropToWindow(img *pic.Picture, win AOI) ([]byte, error) {
	bpp := img.Type.BytesPerPixel()
	if bpp == 0 {
		return nil, framework.New("cam", framework.ErrUnsupportedFormat, "pixel-type", nil)
	}
	if int(win.X)+int(win.Width) > img.Width || int(win.Y)+int(win.Height) > img.Height {
		return nil, framework.New("cam", framework.ErrWrongImageFormat, "window-out-of-bounds", nil)
	}

	out := make([]byte, int(win.Width)*int(win.Height)*bpp)
	rowBytes := int(win.Width) * bpp
	for y := 0; y < int(win.Height); y++ {
		srcOff := ((int(win.Y)+y)*img.Width + int(win.X)) * bpp
		dstOff := y * rowBytes
		copy(out[dstOff:dstOff+rowBytes], img.Data[srcOff:srcOff+rowBytes])
	}
	return out, nil
}
