/*
DESCRIPTION
  cam.go implements the capture pipeline's sensor-configuration half:
  area-of-interest, shutter width, black-level offset, perspective, and
  the frame-buffer registry, grounded on cam_host.c, cam_target.c and
  cam_shared.c of the original source.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cam implements the capture pipeline: sensor configuration,
// the frame-buffer registry, multi-buffer rotation, and the
// capture/sync state machine shared by the host and target backends.
package cam

import (
	"github.com/ausocean/utils/logging"

	"github.com/leanxcam/oscar/backend"
	"github.com/leanxcam/oscar/framework"
)

// MaxFrameBuffers bounds the frame-buffer registry.
const MaxFrameBuffers = 8

// MultiBufferID is the sentinel frame-buffer id meaning "resolve
// through the active multi-buffer".
const MultiBufferID = 254

// InvalidBufferID marks a multi-buffer cursor as having nothing ready.
const InvalidBufferID = 255

// Perspective compensates for a non-upright camera/scene relation.
type Perspective int

const (
	PerspectiveDefault Perspective = iota
	PerspectiveHorizontalMirror
	PerspectiveVerticalMirror
	Perspective180Rotate
)

// TriggerMode selects how a capture is armed.
type TriggerMode int

const (
	TriggerExternal TriggerMode = iota
	TriggerManual
)

// Corrector is the calibration callback registered by the calibration
// kernel, invoked after each completed read on the target. Passing an
// interface handle (rather than the original's raw function pointer)
// lets the calibration context travel with the callback without a
// back-pointer into the capture pipeline — design note "Callback
// registration" in spec.md §9.
type Corrector interface {
	Apply(img []byte, lowX, lowY, width, height uint16) error
}

// AOI is the capture window: a rectangle inside the sensor's maximum
// frame that will actually be read out.
type AOI struct {
	X, Y, Width, Height uint16
}

// FrameBuffer is an application-owned capture target registered with
// the pipeline by identifier.
type FrameBuffer struct {
	ID     uint8
	Size   uint32
	Data   []byte
	Cached bool
	status Status
}

// Camera owns all sensor-configuration state, the frame-buffer
// registry, and the multi-buffer, replacing the singleton struct
// OSC_CAM of the original. One Camera is constructed per Framework,
// per design note "Process-wide singletons" in spec.md §9.
type Camera struct {
	log     logging.Logger
	backend backend.Backend

	buffers [MaxFrameBuffers]*FrameBuffer
	mb      *MultiBuffer

	capWin        AOI
	curHorizBlank uint16
	curRowClks    uint16
	curExpUsecs   uint32
	flipHoriz     bool
	flipVert      bool

	lastCaptureWindow AOI
	lastValidID       uint8
	capturingID       uint8

	corrector Corrector

	// driver is non-nil on the target, where captures are driven by the
	// sensor driver ioctl; nil selects the host's BMP-backed emulation.
	driver SensorDriver

	// reader resolves the path of the bitmap standing in for a
	// captured frame, host-only.
	reader FilenameReader
}

// FilenameReader resolves the path of the image that stands in for a
// captured frame on the host, satisfied by frd.Reader.
type FilenameReader interface {
	Next(tick uint64) (string, error)
}

// New constructs a Camera over the given backend and seeds the
// register shadow with the sensor's documented power-on defaults, then
// applies the standard preset (exposure, AOI, perspective) exactly as
// LCVCamPresetRegs does.
func New(log logging.Logger, be backend.Backend) (*Camera, error) {
	c := &Camera{log: log, backend: be, lastValidID: InvalidBufferID, capturingID: InvalidBufferID}
	for addr, v := range defaultRegisters {
		if err := be.SetRegister(addr, v); err != nil {
			return nil, err
		}
	}
	if err := c.presetRegs(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Camera) presetRegs() error {
	if err := c.SetRegisterValue(regReset, 3); err != nil {
		return err
	}
	if err := c.SetRegisterValue(regChipControl, 0x398); err != nil {
		return err
	}
	if err := c.SetRegisterValue(regPixelOpMode, 0x0015); err != nil {
		return err
	}
	if err := c.SetRegisterValue(regReserved0x20, 0x3d5); err != nil {
		return err
	}
	if err := c.SetRegisterValue(regAECAGCEnable, 0x0); err != nil {
		return err
	}
	if err := c.SetBlackLevelOffset(defaultBlackLevel); err != nil {
		return err
	}
	if err := c.SetShutterWidth(defaultExposureUsecs); err != nil {
		return err
	}
	if err := c.SetAreaOfInterest(0, 0, 0, 0); err != nil {
		return err
	}
	return c.SetupPerspective(PerspectiveDefault)
}

// SetRegisterValue writes value to the sensor register addressed by
// reg, for testing and debugging; production code should prefer the
// dedicated accessors.
func (c *Camera) SetRegisterValue(reg uint32, value uint16) error {
	return c.backend.SetRegister(reg, value)
}

// GetRegisterValue reads the sensor register addressed by reg.
func (c *Camera) GetRegisterValue(reg uint32) (uint16, error) {
	return c.backend.GetRegister(reg)
}

// SetAreaOfInterest updates the capture window. width must be even and
// the window must fit in MaxImageWidth x MaxImageHeight; a zero
// width/height pair restores the default (full) frame. As a side
// effect, row-clocks are recomputed and the cached shutter width in
// microseconds is re-applied so exposure time survives the change.
func (c *Camera) SetAreaOfInterest(lowX, lowY, width, height uint16) error {
	if width%2 != 0 || uint32(lowX)+uint32(width) > MaxImageWidth || uint32(lowY)+uint32(height) > MaxImageHeight {
		return framework.New("cam", framework.ErrInvalidParameter, "area-of-interest", nil)
	}

	if width == 0 || height == 0 {
		c.capWin = AOI{X: 0, Y: 0, Width: MaxImageWidth, Height: MaxImageHeight}
	} else {
		c.capWin = AOI{X: lowX, Y: lowY, Width: width, Height: height}
	}

	if err := c.backend.SetRegister(regColStart, c.capWin.X); err != nil {
		return err
	}
	if err := c.backend.SetRegister(regRowStart, c.capWin.Y); err != nil {
		return err
	}
	if err := c.backend.SetRegister(regWinWidth, c.capWin.Width); err != nil {
		return err
	}
	if err := c.backend.SetRegister(regWinHeight, c.capWin.Height); err != nil {
		return err
	}

	if err := c.refreshRowClks(); err != nil {
		return err
	}

	if err := c.SetShutterWidth(c.curExpUsecs); err != nil {
		return err
	}
	c.log.Debug("area of interest set", "width", c.capWin.Width, "height", c.capWin.Height, "x", c.capWin.X, "y", c.capWin.Y)
	return nil
}

// GetAreaOfInterest reads back the capture window from the register
// shadow/device, refreshing the derived row-clocks and applying the
// flip transformation if a mirrored perspective is configured.
func (c *Camera) GetAreaOfInterest() (AOI, error) {
	x, err := c.backend.GetRegister(regColStart)
	if err != nil {
		return AOI{}, err
	}
	y, err := c.backend.GetRegister(regRowStart)
	if err != nil {
		return AOI{}, err
	}
	w, err := c.backend.GetRegister(regWinWidth)
	if err != nil {
		return AOI{}, err
	}
	h, err := c.backend.GetRegister(regWinHeight)
	if err != nil {
		return AOI{}, err
	}

	if c.flipHoriz {
		x = MaxImageWidth - (x + w)
	}
	if c.flipVert {
		y = MaxImageHeight - (y + h)
	}

	c.capWin = AOI{X: x, Y: y, Width: w, Height: h}
	if err := c.refreshRowClks(); err != nil {
		return AOI{}, err
	}
	return c.capWin, nil
}

// refreshRowClks reads the horizontal-blanking register and recomputes
// curRowClks from it and the current AOI width, per cam_shared.c's
// row-time formula (AOI width + horizontal blanking, floored at
// minRowClks).
func (c *Camera) refreshRowClks() error {
	hb, err := c.backend.GetRegister(regHorizBlank)
	if err != nil {
		return err
	}
	c.curHorizBlank = hb

	c.curRowClks = c.capWin.Width + c.curHorizBlank
	if c.curRowClks < minRowClks {
		c.curRowClks = minRowClks
	}
	return nil
}

// SetShutterWidth converts microseconds to an integer number of row
// times using the current row-clocks (rounding to nearest, halves up, via
// (pixelClocks + rowClks/2) / rowClks), writes the sensor shutter-width
// register, and caches the user-requested microseconds so it can be
// restored across AOI changes. A value of 0 engages the sensor's
// automatic exposure control.
func (c *Camera) SetShutterWidth(usecs uint32) error {
	aec, err := c.backend.GetRegister(regAECAGCEnable)
	if err != nil {
		return err
	}
	if usecs == 0 {
		aec |= 0x1
	} else {
		aec &^= 0x1
	}
	if err := c.backend.SetRegister(regAECAGCEnable, aec); err != nil {
		return err
	}

	pixelClocks := uint64(usecs) * (pixClockHz / 1_000_000)
	rowClks := uint64(c.curRowClks)
	if rowClks == 0 {
		rowClks = minRowClks
	}
	shutterWidth := uint16((pixelClocks + rowClks/2) / rowClks)

	if err := c.backend.SetRegister(regShutterWidth, shutterWidth); err != nil {
		return err
	}
	c.curExpUsecs = usecs
	return nil
}

// GetShutterWidth reads the sensor's shutter-width register and
// converts it back to microseconds using the current row-clocks. A
// return value of 0 indicates automatic exposure control is active.
func (c *Camera) GetShutterWidth() (uint32, error) {
	shutterWidth, err := c.backend.GetRegister(regShutterWidth)
	if err != nil {
		return 0, err
	}
	rowClks := uint64(c.curRowClks)
	if rowClks == 0 {
		rowClks = minRowClks
	}
	return uint32(uint64(shutterWidth) * rowClks / (pixClockHz / 1_000_000)), nil
}

// SetBlackLevelOffset writes the Row Noise Constant register that
// controls the sensor's black-level response. offset boosts the
// response by offset grey levels (8-bit output), clamped to the
// register's 6-bit range (maximum 63, shifted left by two bits).
func (c *Camera) SetBlackLevelOffset(offset uint16) error {
	if offset > 63 {
		offset = 63
	}
	return c.backend.SetRegister(regRowNoiseConst, offset<<2)
}

// GetBlackLevelOffset reads back the configured black-level offset.
func (c *Camera) GetBlackLevelOffset() (uint16, error) {
	reg, err := c.backend.GetRegister(regRowNoiseConst)
	if err != nil {
		return 0, err
	}
	return reg >> 2, nil
}

// SetupPerspective sets the sensor's row/column flip bits to compensate
// for a non-upright camera/scene relation.
func (c *Camera) SetupPerspective(p Perspective) error {
	var rowFlip, colFlip bool
	switch p {
	case PerspectiveDefault:
	case PerspectiveHorizontalMirror:
		colFlip = true
	case PerspectiveVerticalMirror:
		rowFlip = true
	case Perspective180Rotate:
		rowFlip, colFlip = true, true
	default:
		return framework.New("cam", framework.ErrInvalidParameter, "perspective", nil)
	}

	reg, err := c.backend.GetRegister(regReadMode)
	if err != nil {
		return err
	}
	if rowFlip {
		reg |= 1 << readModeRowFlipBit
	} else {
		reg &^= 1 << readModeRowFlipBit
	}
	if colFlip {
		reg |= 1 << readModeColFlipBit
	} else {
		reg &^= 1 << readModeColFlipBit
	}
	if err := c.backend.SetRegister(regReadMode, reg); err != nil {
		return err
	}
	c.flipHoriz = colFlip
	c.flipVert = rowFlip
	return nil
}

// RegisterCorrectionCallback installs the calibration kernel's
// correction callback, invoked by ReadPicture after each completed
// target read.
func (c *Camera) RegisterCorrectionCallback(corr Corrector) {
	c.corrector = corr
}

// SetSensorDriver wires the target's ioctl-based sensor driver into the
// capture pipeline. Calling this selects the target capture path;
// leaving it unset keeps the host's BMP-backed emulation.
func (c *Camera) SetSensorDriver(d SensorDriver) {
	c.driver = d
}

// SetFilenameReader wires the host's filename reader, used by
// read-picture to resolve which bitmap stands in for a captured frame.
func (c *Camera) SetFilenameReader(r FilenameReader) {
	c.reader = r
}

// RegisterFrameBuffer records a frame buffer at id (0..7). Passing a
// nil/empty data slice deregisters the buffer; deregistering a buffer
// that is part of a multi-buffer fails with cannot-delete.
func (c *Camera) RegisterFrameBuffer(id uint8, data []byte, cached bool) error {
	if id >= MaxFrameBuffers {
		return framework.New("cam", framework.ErrInvalidParameter, "id", nil)
	}
	if len(data) == 0 {
		if c.mb != nil && c.mb.Contains(id) {
			return framework.New("cam", framework.ErrCannotDelete, "id", nil)
		}
		if fb := c.buffers[id]; fb != nil && fb.isCapturing() {
			return framework.New("cam", framework.ErrCannotDelete, "id", nil)
		}
		c.buffers[id] = nil
		return nil
	}
	if c.buffers[id] != nil {
		return framework.New("cam", framework.ErrFrameBufferBusy, "id", nil)
	}
	c.buffers[id] = &FrameBuffer{ID: id, Size: uint32(len(data)), Data: data, Cached: cached, status: StatusReady}
	return nil
}

// CreateMultiBuffer groups existing frame buffers into a rotation of
// the given depth (2..8). Only one multi-buffer can exist at a time.
func (c *Camera) CreateMultiBuffer(depth uint8, ids []uint8) error {
	if depth < 2 || int(depth) > MaxFrameBuffers || len(ids) < int(depth) {
		return framework.New("cam", framework.ErrInvalidParameter, "depth", nil)
	}
	for _, id := range ids[:depth] {
		if int(id) >= MaxFrameBuffers || c.buffers[id] == nil {
			return framework.New("cam", framework.ErrInvalidParameter, "id", nil)
		}
	}
	c.mb = NewMultiBuffer(depth, ids)
	return nil
}

// DeleteMultiBuffer removes the active multi-buffer grouping, if any.
func (c *Camera) DeleteMultiBuffer() {
	c.mb = nil
}

// resolveBufferID resolves the multi-buffer sentinel to a concrete
// frame-buffer id using cursor, or returns id unchanged.
func (c *Camera) resolveBufferID(id uint8, cursor func(*MultiBuffer) uint8) (uint8, error) {
	if id != MultiBufferID {
		return id, nil
	}
	if c.mb == nil {
		return 0, framework.New("cam", framework.ErrInvalidParameter, "no-multi-buffer", nil)
	}
	return cursor(c.mb), nil
}
