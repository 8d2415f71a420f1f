/*
DESCRIPTION
  registers.go names the MT9V032 register addresses and derived-state
  constants the capture pipeline depends on, grounded on cam_priv.h and
  the default-register table in cam_host.c of the original source.

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

// MT9V032 register addresses used by the capture pipeline.
const (
	regColStart      = 0x01
	regRowStart      = 0x02
	regWinHeight     = 0x03
	regWinWidth      = 0x04
	regHorizBlank    = 0x05
	regVertBlank     = 0x06
	regChipControl   = 0x07
	regShutterWidth  = 0x0B
	regReset         = 0x0C
	regReadMode      = 0x0D
	regPixelOpMode   = 0x0F
	regReserved0x20  = 0x20
	regRowNoiseConst = 0x72
	regAECAGCEnable  = 0xAF
)

const (
	readModeRowFlipBit = 4
	readModeColFlipBit = 5
)

// pixClockHz is the sensor's pixel clock frequency.
const pixClockHz = 25_000_000

// minRowClks is the lower bound on row-readout time in pixel clocks.
const minRowClks = 660

// MaxImageWidth and MaxImageHeight bound the sensor's full frame.
const (
	MaxImageWidth  = 752
	MaxImageHeight = 480
)

// defaultExposureUsecs and defaultBlackLevel are applied by presetRegs.
const (
	defaultExposureUsecs = 15000
	defaultBlackLevel    = 13
)

// defaultRegisters seeds the host register shadow with the sensor's
// documented power-on values, per cam_host.c's default_reg_values.
var defaultRegisters = map[uint32]uint16{
	0x00: 0x1313,
	regColStart:      0x0001,
	regRowStart:      0x0004,
	regWinHeight:     0x01e0,
	regWinWidth:      0x02f0,
	regHorizBlank:    0x002b,
	regVertBlank:     0x002d,
	regChipControl:   0x0298,
	0x08:             0x01bb,
	0x09:             0x01d9,
	0x0A:             0x0164,
	regShutterWidth:  0x05dc,
	regReset:         0x0000,
	regReadMode:      0x0320,
	0x0E:             0x0000,
	regPixelOpMode:   0x0015,
	0x1B:             0x0000,
	0x1C:             0x0002,
	regReserved0x20:  0x03d5,
	0x2C:             0x0004,
	regRowNoiseConst: 0x002a,
	regAECAGCEnable:  0x0000,
}
