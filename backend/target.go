//go:build oscartarget

package backend

import (
	"fmt"

	"github.com/ausocean/utils/logging"
	"github.com/leanxcam/oscar/framework"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

// mt9v032Addr is the MT9V032's I2C slave address.
const mt9v032Addr = 0x48

// Target is the on-camera Backend: register access goes over I2C to the
// real MT9V032, and a GPIO pin drives the hardware watchdog, matching
// the board described in spec.md §1 (Blackfin DSP + MT9V032 sensor).
type Target struct {
	dev     *i2c.Dev
	wdt     gpio.PinOut
	cyclesF func() uint64
	tickList
	log logging.Logger
}

// NewTarget opens the I2C bus and the watchdog GPIO pin described by
// busName/wdtPin, initialising periph.io's host drivers first.
func NewTarget(log logging.Logger, busName, wdtPin string, cyclesF func() uint64) (*Target, error) {
	if _, err := host.Init(); err != nil {
		return nil, framework.New("backend", framework.ErrDevice, "host.Init", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, framework.New("backend", framework.ErrDevice, busName, err)
	}
	wdt := gpioreg.ByName(wdtPin)
	if wdt == nil {
		return nil, framework.New("backend", framework.ErrDevice, wdtPin, fmt.Errorf("gpio pin not found"))
	}
	return &Target{
		dev:     &i2c.Dev{Bus: bus, Addr: mt9v032Addr},
		wdt:     wdt,
		cyclesF: cyclesF,
		log:     log,
	}, nil
}

func (t *Target) GetRegister(addr uint32) (uint16, error) {
	write := []byte{byte(addr)}
	read := make([]byte, 2)
	if err := t.dev.Tx(write, read); err != nil {
		return 0, framework.New("backend", framework.ErrDevice, "GetRegister", err)
	}
	return uint16(read[0])<<8 | uint16(read[1]), nil
}

func (t *Target) SetRegister(addr uint32, value uint16) error {
	write := []byte{byte(addr), byte(value >> 8), byte(value)}
	if err := t.dev.Tx(write, nil); err != nil {
		return framework.New("backend", framework.ErrDevice, "SetRegister", err)
	}
	return nil
}

func (t *Target) Cycles() uint64 {
	if t.cyclesF != nil {
		return t.cyclesF()
	}
	return 0
}

// Tick pats the hardware watchdog and advances the tick counter; on the
// target there are no simulation-only per-tick callbacks to invoke, but
// RegisterTickFunc is honoured for symmetry with Host.
func (t *Target) Tick() uint64 {
	t.wdt.Out(gpio.High)
	t.wdt.Out(gpio.Low)
	return t.advance(t.log)
}

func (t *Target) RegisterTickFunc(f TickFunc) {
	t.registerTickFunc(f)
}
