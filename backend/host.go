//go:build !oscartarget

package backend

import (
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/leanxcam/oscar/framework"
)

// shadowSize matches spec.md's "Sensor model": 256 register entries.
const shadowSize = 256

// Host is the host-side Backend: an authoritative shadow of the sensor
// register file and the process clock, used in place of a real MT9V032
// and DMA controller when simulating on a development machine.
type Host struct {
	mu    sync.Mutex
	shad  [shadowSize]uint16
	set   [shadowSize]bool
	start time.Time
	log   logging.Logger
	tickList
}

// NewHost returns a Host backend with every shadow register initialised
// to zero and marked unset.
func NewHost(log logging.Logger) *Host {
	return &Host{start: time.Now(), log: log}
}

func (h *Host) GetRegister(addr uint32) (uint16, error) {
	if addr >= shadowSize {
		return 0, framework.New("backend", framework.ErrInvalidParameter, "addr", nil)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shad[addr], nil
}

func (h *Host) SetRegister(addr uint32, value uint16) error {
	if addr >= shadowSize {
		return framework.New("backend", framework.ErrInvalidParameter, "addr", nil)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shad[addr] = value
	h.set[addr] = true
	return nil
}

// Cycles returns the number of nanoseconds elapsed since the Host was
// constructed, standing in for the hardware cycle register.
func (h *Host) Cycles() uint64 {
	return uint64(time.Since(h.start))
}

func (h *Host) Tick() uint64 {
	return h.advance(h.log)
}

func (h *Host) RegisterTickFunc(f TickFunc) {
	h.registerTickFunc(f)
}
