/*
DESCRIPTION
  multibuffer.go implements the multi-buffer rotation engine, a direct
  port of cam_multibuffer.c: an ordered sequence of frame-buffer ids
  with next-capture and next-sync cursors that together hide capture
  latency behind a circular rotation.

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

// MultiBuffer rotates a sequence of frame-buffer ids, letting the
// application process buffer k while the sensor fills buffer k+1.
type MultiBuffer struct {
	ids          []uint8
	idNextCapture uint8
	idNextSync    uint8
}

// NewMultiBuffer groups depth frame-buffer ids into a rotation. The
// first id is the first to be captured into; nothing is yet ready to
// sync, per LCVCamMultiBufferCreate.
func NewMultiBuffer(depth uint8, ids []uint8) *MultiBuffer {
	mb := &MultiBuffer{
		ids:           append([]uint8(nil), ids[:depth]...),
		idNextSync:    InvalidBufferID,
	}
	mb.idNextCapture = mb.ids[0]
	return mb
}

// Contains reports whether id is one of the buffers grouped by mb.
func (mb *MultiBuffer) Contains(id uint8) bool {
	for _, v := range mb.ids {
		if v == id {
			return true
		}
	}
	return false
}

// next returns the id that follows fbID in the rotation, wrapping
// around, or InvalidBufferID if fbID is not a member.
func (mb *MultiBuffer) next(fbID uint8) uint8 {
	for i, v := range mb.ids {
		if v == fbID {
			i++
			if i == len(mb.ids) {
				i = 0
			}
			return mb.ids[i]
		}
	}
	return InvalidBufferID
}

// CapBuf returns the buffer id the next capture-setup call will write.
func (mb *MultiBuffer) CapBuf() uint8 { return mb.idNextCapture }

// SyncBuf returns the buffer id the next read-picture call will read,
// or InvalidBufferID if nothing is ready.
func (mb *MultiBuffer) SyncBuf() uint8 { return mb.idNextSync }

// Capture advances the next-capture cursor and, if necessary, the
// next-sync cursor, matching LCVCamMultiBufferCapture.
func (mb *MultiBuffer) Capture() {
	cur := mb.idNextCapture
	mb.idNextCapture = mb.next(mb.idNextCapture)

	if mb.idNextSync == InvalidBufferID {
		mb.idNextSync = cur
	} else if mb.idNextSync == cur {
		mb.idNextSync = mb.next(mb.idNextSync)
	}
}

// Sync advances the next-sync cursor, matching LCVCamMultiBufferSync.
// If the advance would make next-sync equal next-capture, next-sync
// becomes InvalidBufferID: sync always lags capture, so a reader never
// observes a frame still being written.
func (mb *MultiBuffer) Sync() {
	mb.idNextSync = mb.next(mb.idNextSync)
	if mb.idNextSync == mb.idNextCapture {
		mb.idNextSync = InvalidBufferID
	}
}
