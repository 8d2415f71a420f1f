/*
DESCRIPTION
  target.go implements SensorDriver over the kernel character device
  fronting the MT9V032, grounded on mt9v032.h's struct frame_buffer,
  capture_window, capture_param, image_info, reg_info, sync_param and
  the CAM_S*, CAM_G* and CAM_C* ioctl family.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

//go:build oscartarget

package cam

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/leanxcam/oscar/framework"
)

// devCam is the device node exposing the sensor driver ioctl family.
const devCam = "/dev/cam0"

// ioctl request numbers, built with the MT9V032_MAGIC ('m') base the
// same way the kernel header's _IOW/_IOR macros do.
const (
	iocSFrameBuf  = 0x6d00
	iocSWindow    = 0x6d02
	iocGWindow    = 0x6d03
	iocCCapture   = 0x6d04
	iocCAbortCapt = 0x6d05
	iocCSync      = 0x6d85
	iocGLastFrame = 0x6d86
)

const (
	fbFlagCached        = 0x1
	triggerModeExternal = 1
	triggerModeManual   = 2
)

type frameBufferArg struct {
	size  int32
	id    int32
	flags int32
	data  unsafe.Pointer
}

type captureWindowArg struct {
	width, height, colOff, rowOff int32
}

type captureParamArg struct {
	window       captureWindowArg
	frameBuffer  int32
	triggerMode  int32
}

type imageInfoArg struct {
	window captureWindowArg
	fbuf   unsafe.Pointer
}

type syncParamArg struct {
	frame   int32
	timeout uint32
	maxAge  uint32
}

// Driver talks to the MT9V032 kernel driver over /dev/cam0.
type Driver struct {
	fd int
}

// OpenDriver opens the sensor driver device node.
func OpenDriver() (*Driver, error) {
	fd, err := unix.Open(devCam, unix.O_RDWR, 0)
	if err != nil {
		return nil, framework.New("cam", framework.ErrDevice, devCam, err)
	}
	return &Driver{fd: fd}, nil
}

func (d *Driver) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(arg))
	if errno != 0 {
		return framework.New("cam", framework.ErrDevice, "ioctl", errno)
	}
	return nil
}

func (d *Driver) SetFrameBuffer(id uint8, data []byte, cached bool) error {
	var flags int32
	if cached {
		flags = fbFlagCached
	}
	arg := frameBufferArg{size: int32(len(data)), id: int32(id), flags: flags}
	if len(data) > 0 {
		arg.data = unsafe.Pointer(&data[0])
	}
	return d.ioctl(iocSFrameBuf, unsafe.Pointer(&arg))
}

func (d *Driver) SetCaptureWindow(win AOI) error {
	arg := captureWindowArg{width: int32(win.Width), height: int32(win.Height), colOff: int32(win.X), rowOff: int32(win.Y)}
	return d.ioctl(iocSWindow, unsafe.Pointer(&arg))
}

func (d *Driver) GetCaptureWindow() (AOI, error) {
	var arg captureWindowArg
	if err := d.ioctl(iocGWindow, unsafe.Pointer(&arg)); err != nil {
		return AOI{}, err
	}
	return AOI{X: uint16(arg.colOff), Y: uint16(arg.rowOff), Width: uint16(arg.width), Height: uint16(arg.height)}, nil
}

func (d *Driver) TriggerCapture(id uint8, win AOI, mode TriggerMode) error {
	tm := int32(triggerModeExternal)
	if mode == TriggerManual {
		tm = triggerModeManual
	}
	arg := captureParamArg{
		window:      captureWindowArg{width: int32(win.Width), height: int32(win.Height), colOff: int32(win.X), rowOff: int32(win.Y)},
		frameBuffer: int32(id),
		triggerMode: tm,
	}
	return d.ioctl(iocCCapture, unsafe.Pointer(&arg))
}

func (d *Driver) AbortCapture(id uint8) error {
	v := int32(id)
	return d.ioctl(iocCAbortCapt, unsafe.Pointer(&v))
}

func (d *Driver) Sync(id uint8, timeoutMs, maxAgeMs int) error {
	arg := syncParamArg{frame: int32(id), timeout: uint32(timeoutMs), maxAge: uint32(maxAgeMs)}
	return d.ioctl(iocCSync, unsafe.Pointer(&arg))
}

func (d *Driver) GetLastFrame(win AOI) ([]byte, error) {
	arg := imageInfoArg{window: captureWindowArg{width: int32(win.Width), height: int32(win.Height), colOff: int32(win.X), rowOff: int32(win.Y)}}
	if err := d.ioctl(iocGLastFrame, unsafe.Pointer(&arg)); err != nil {
		return nil, err
	}
	n := int(win.Width) * int(win.Height)
	return unsafe.Slice((*byte)(arg.fbuf), n), nil
}
