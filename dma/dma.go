/*
DESCRIPTION
  dma.go provides the DMA chain engine: reusable descriptor chains for
  1-D and 2-D memory moves with synchronisation points, executed by
  hardware on the target and emulated in software on the host with
  matching semantics (spec.md §4.2).

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dma provides the DMA chain engine shared by the host
// simulation and the target. A Chain is a handle to up to
// MaxMovesPerChain memory moves plus one optional sync point; Engine
// hands out at most MaxChains of them at a time (spec.md §3 "DMA
// chain").
package dma

import (
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/leanxcam/oscar/framework"
)

const (
	// MaxMovesPerChain is the number of moves a single chain can hold.
	MaxMovesPerChain = 4
	// MaxChains is the number of chains that may be allocated at once.
	MaxChains = 2
	// SyncTimeout is the upper bound spec.md §4.2 gives for Sync on the
	// target (~20 seconds); it is immediate on the host.
	SyncTimeout = 20 * time.Second
)

// WordSize is the transfer word size of one side of a move.
type WordSize int

const (
	WordSize8  WordSize = 1
	WordSize16 WordSize = 2
	WordSize32 WordSize = 4
)

// Address is a descriptor's start address. A rewrite from the original's
// raw 32-bit/pointer-sized field models the descriptor as a sum type:
// HardwareAddr for the target's physical/DMA bus addresses, HostAddr
// for the host's virtual addresses, resolved at Start time (spec.md §9
// "Raw pointers in DMA descriptors").
type Address interface {
	isAddress()
}

// HardwareAddr is a target DMA-bus address.
type HardwareAddr uint32

func (HardwareAddr) isAddress() {}

// HostAddr is a host-virtual byte slice, positioned at the descriptor's
// start address by the caller (i.e. already sliced to the right offset).
type HostAddr []byte

func (HostAddr) isAddress() {}

// Descriptor describes one side (source or destination) of a move.
type Descriptor struct {
	Addr     Address
	WordSize WordSize
	XCount   uint32
	XModify  int32 // byte offset applied to Addr per X step
	YCount   uint32 // 1 for a 1-D move
	YModify  int32  // byte offset applied to Addr per Y step
	Write    bool   // true if this descriptor is the writing (destination) side
}

// Move is one source/destination pair within a chain.
type Move struct {
	Src, Dst Descriptor
}

// Chain is a handle to an allocated DMA chain.
type Chain struct {
	mu       sync.Mutex
	moves    []Move
	hasSync  bool
	syncFlag uint32

	srcWordSize WordSize
	dstWordSize WordSize
	wordSizeSet bool
}

// reset clears the move list back to the state right after allocation.
func (c *Chain) reset() {
	c.moves = c.moves[:0]
	c.hasSync = false
	c.syncFlag = 0
	c.wordSizeSet = false
}

// Reset clears the chain's move list (spec.md §4.2 "reset-chain").
func (c *Chain) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Chain) checkWordSizes(src, dst WordSize) error {
	if !c.wordSizeSet {
		c.srcWordSize, c.dstWordSize, c.wordSizeSet = src, dst, true
		return nil
	}
	if c.srcWordSize != src || c.dstWordSize != dst {
		return framework.New("dma", framework.ErrInvalidParameter, "word-size",
			nil)
	}
	return nil
}

func (c *Chain) addMove(mv Move) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasSync {
		return framework.New("dma", framework.ErrInvalidParameter, "chain-has-sync-point", nil)
	}
	if len(c.moves) >= MaxMovesPerChain {
		return framework.New("dma", framework.ErrInvalidParameter, "chain-full", nil)
	}
	if err := c.checkWordSizes(mv.Src.WordSize, mv.Dst.WordSize); err != nil {
		return err
	}
	mv.Src.Write = false
	mv.Dst.Write = true
	c.moves = append(c.moves, mv)
	return nil
}

// AddOneDMove appends a 1-D move (Y count = 1 on both sides).
func (c *Chain) AddOneDMove(dst Address, dstWordSize WordSize, dstCount uint32, dstModify int32,
	src Address, srcWordSize WordSize, srcCount uint32, srcModify int32) error {
	return c.addMove(Move{
		Src: Descriptor{Addr: src, WordSize: srcWordSize, XCount: srcCount, XModify: srcModify, YCount: 1, YModify: 0},
		Dst: Descriptor{Addr: dst, WordSize: dstWordSize, XCount: dstCount, XModify: dstModify, YCount: 1, YModify: 0},
	})
}

// AddTwoDMove appends a 2-D move.
func (c *Chain) AddTwoDMove(
	dst Address, dstWordSize WordSize, dstX uint32, dstXMod int32, dstY uint32, dstYMod int32,
	src Address, srcWordSize WordSize, srcX uint32, srcXMod int32, srcY uint32, srcYMod int32) error {
	return c.addMove(Move{
		Src: Descriptor{Addr: src, WordSize: srcWordSize, XCount: srcX, XModify: srcXMod, YCount: srcY, YModify: srcYMod},
		Dst: Descriptor{Addr: dst, WordSize: dstWordSize, XCount: dstX, XModify: dstXMod, YCount: dstY, YModify: dstYMod},
	})
}

// AddSyncPoint appends a final descriptor that writes a non-zero value
// into the chain's sync flag when reached.
func (c *Chain) AddSyncPoint() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasSync = true
	return nil
}

// Memcpy builds a single 1-D move with 32-bit words copying length
// bytes from src to dst and starts it, without waiting for completion.
// length must be a positive multiple of 4.
func (c *Chain) Memcpy(e *Engine, dst, src Address, length int) error {
	if length <= 0 || length%4 != 0 {
		return framework.New("dma", framework.ErrInvalidParameter, "length", nil)
	}
	c.Reset()
	n := uint32(length / 4)
	if err := c.AddOneDMove(dst, WordSize32, n, 4, src, WordSize32, n, 4); err != nil {
		return err
	}
	return e.Start(c)
}

// MemcpySync is Memcpy followed by AddSyncPoint, Start and a blocking
// Sync.
func (c *Chain) MemcpySync(e *Engine, dst, src Address, length int) error {
	if length <= 0 || length%4 != 0 {
		return framework.New("dma", framework.ErrInvalidParameter, "length", nil)
	}
	c.Reset()
	n := uint32(length / 4)
	if err := c.AddOneDMove(dst, WordSize32, n, 4, src, WordSize32, n, 4); err != nil {
		return err
	}
	if err := c.AddSyncPoint(); err != nil {
		return err
	}
	if err := e.Start(c); err != nil {
		return err
	}
	return e.Sync(c)
}

// Engine is the fixed pool of chains described by spec.md §4.2.
type Engine struct {
	mu     sync.Mutex
	chains [MaxChains]Chain
	inUse  [MaxChains]bool
	log    logging.Logger
}

// New returns an Engine with its full pool of chains available.
func New(log logging.Logger) *Engine {
	return &Engine{log: log}
}

// Allocate returns a handle to a zero-initialized chain, or
// ErrNoMoreChains if the fixed pool of MaxChains is exhausted.
func (e *Engine) Allocate() (*Chain, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.chains {
		if !e.inUse[i] {
			e.inUse[i] = true
			e.chains[i].reset()
			return &e.chains[i], nil
		}
	}
	return nil, framework.New("dma", framework.ErrNoMoreChains, "", nil)
}

// Free returns a chain to the pool. Chains are not reference-counted
// (spec.md §5): the caller must not use c after Free.
func (e *Engine) Free(c *Chain) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.chains {
		if &e.chains[i] == c {
			e.inUse[i] = false
			c.reset()
			return
		}
	}
}
