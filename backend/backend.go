/*
DESCRIPTION
  backend.go provides Backend, the capability set that underpins every
  other Oscar component: register get/set and a cycle counter. Host and
  target are two implementations of this one interface (design note
  "Ioctl vs shadow" in spec.md §9), rather than #ifdef-guarded branches
  inside every call site.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package backend abstracts the register accessor and cycle counter that
// every other Oscar component sits on top of, plus the simulation tick
// used to drive host-only per-cycle callbacks (the external filename
// reader advancing to the next image, the stimuli writer flushing a
// row).
package backend

import "github.com/ausocean/utils/logging"

// Backend is the capability set a component needs from the underlying
// platform. On the target, register access goes over I2C directly to
// the sensor (not through the kernel driver's ioctl) and the cycle
// counter comes from a caller-supplied function; on the host it reads
// and writes a register shadow and the process clock.
type Backend interface {
	// GetRegister reads the current value of a sensor register.
	GetRegister(addr uint32) (uint16, error)

	// SetRegister writes value to a sensor register.
	SetRegister(addr uint32, value uint16) error

	// Cycles returns a monotonically increasing cycle counter: the
	// hardware cycle register on the target, the process clock
	// (nanoseconds) on the host.
	Cycles() uint64

	// Tick advances the backend's logical simulation time by one step
	// and invokes every registered TickFunc, in registration order. On
	// the target it also pats the hardware watchdog.
	Tick() uint64

	// RegisterTickFunc adds f to the list of callbacks invoked by Tick.
	RegisterTickFunc(f TickFunc)
}

// TickFunc is called once per simulation tick.
type TickFunc func(tick uint64)

// tickList is embedded by both backend implementations to share the
// callback bookkeeping.
type tickList struct {
	tick  uint64
	funcs []TickFunc
}

func (t *tickList) registerTickFunc(f TickFunc) {
	t.funcs = append(t.funcs, f)
}

func (t *tickList) advance(log logging.Logger) uint64 {
	t.tick++
	for _, f := range t.funcs {
		f(t.tick)
	}
	return t.tick
}
