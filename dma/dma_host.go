//go:build !oscartarget

package dma

import (
	"encoding/binary"

	"github.com/leanxcam/oscar/framework"
)

// Start executes each move in the chain synchronously against a
// temporary buffer that stands in for the hardware FIFO bridging the
// source and destination DMA channels, exactly as dma_host.c's
// OscDmaStart/OscDmaChanCopy do: the source descriptor drains into the
// temporary, sized by its own word count and word size, and the
// destination descriptor fills from it. Each side's own X/Y modifiers
// are honoured independently, so mismatched source/destination word
// sizes reproduce the FIFO's repacking effect.
func (e *Engine) Start(c *Chain) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, mv := range c.moves {
		srcWd := int(mv.Src.WordSize)
		dstWd := int(mv.Dst.WordSize)

		srcElems := int(mv.Src.XCount) * int(mv.Src.YCount)
		temp := make([]byte, srcElems*srcWd)

		if err := chanCopy(mv.Src, temp, srcWd); err != nil {
			return err
		}
		if err := chanCopy(mv.Dst, temp, dstWd); err != nil {
			return err
		}
	}
	if c.hasSync {
		c.syncFlag = 1
	}
	return nil
}

// chanCopy emulates one DMA channel's half of a move: the side with
// Write set strides over its own Addr using XModify/YModify (divided
// down to an element count by wdSize) while reading temp sequentially;
// the other side strides over Addr for reads while writing temp
// sequentially. This mirrors dma_host.c's OscDmaChanCopy exactly,
// including its element-stride convention.
func chanCopy(d Descriptor, temp []byte, wdSize int) error {
	addr, ok := d.Addr.(HostAddr)
	if !ok {
		return framework.New("dma", framework.ErrInvalidParameter, "addr-not-host", nil)
	}

	var rdBuf, wrBuf []byte
	rdStrideX, rdStrideY := 1, 1
	wrStrideX, wrStrideY := 1, 1
	if d.Write {
		wrBuf = []byte(addr)
		wrStrideX = int(d.XModify) / wdSize
		wrStrideY = int(d.YModify) / wdSize
		rdBuf = temp
	} else {
		rdBuf = []byte(addr)
		rdStrideX = int(d.XModify) / wdSize
		rdStrideY = int(d.YModify) / wdSize
		wrBuf = temp
	}

	rdIdx, wrIdx := 0, 0
	for y := 0; y < int(d.YCount); y++ {
		rdRow, wrRow := rdIdx, wrIdx
		for x := 0; x < int(d.XCount); x++ {
			v, err := getWord(rdBuf, rdIdx, wdSize)
			if err != nil {
				return err
			}
			if err := putWord(wrBuf, wrIdx, wdSize, v); err != nil {
				return err
			}
			rdIdx += rdStrideX
			wrIdx += wrStrideX
		}
		rdIdx = rdRow + rdStrideY
		wrIdx = wrRow + wrStrideY
	}
	return nil
}

func getWord(buf []byte, elemIdx, wdSize int) (uint32, error) {
	off := elemIdx * wdSize
	if off < 0 || off+wdSize > len(buf) {
		return 0, framework.New("dma", framework.ErrInvalidParameter, "out-of-range", nil)
	}
	switch wdSize {
	case 1:
		return uint32(buf[off]), nil
	case 2:
		return uint32(binary.LittleEndian.Uint16(buf[off:])), nil
	case 4:
		return binary.LittleEndian.Uint32(buf[off:]), nil
	default:
		return 0, framework.New("dma", framework.ErrInvalidParameter, "word-size", nil)
	}
}

func putWord(buf []byte, elemIdx, wdSize int, v uint32) error {
	off := elemIdx * wdSize
	if off < 0 || off+wdSize > len(buf) {
		return framework.New("dma", framework.ErrInvalidParameter, "out-of-range", nil)
	}
	switch wdSize {
	case 1:
		buf[off] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf[off:], uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf[off:], v)
	default:
		return framework.New("dma", framework.ErrInvalidParameter, "word-size", nil)
	}
	return nil
}

// Sync waits until the sync flag is non-zero. On the host the "DMA"
// transfer in Start already completed synchronously, so Sync just
// checks the flag, matching dma_host.c's OscDmaSync.
func (e *Engine) Sync(c *Chain) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasSync {
		return nil
	}
	if c.syncFlag != 0 {
		return nil
	}
	return framework.New("dma", framework.ErrTimeout, "", nil)
}
