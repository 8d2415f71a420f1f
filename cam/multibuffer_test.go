package cam

import "testing"

func TestMultiBufferFIFORotation(t *testing.T) {
	mb := NewMultiBuffer(4, []uint8{0, 1, 2, 3})

	if got := mb.CapBuf(); got != 0 {
		t.Fatalf("initial cap buf = %d, want 0", got)
	}
	if got := mb.SyncBuf(); got != InvalidBufferID {
		t.Fatalf("initial sync buf = %d, want invalid", got)
	}

	var captured []uint8
	for i := 0; i < 4; i++ {
		captured = append(captured, mb.CapBuf())
		mb.Capture()
	}
	if !eqSlice(captured, []uint8{0, 1, 2, 3}) {
		t.Fatalf("capture order = %v, want 0,1,2,3", captured)
	}

	var synced []uint8
	for i := 0; i < 4; i++ {
		b := mb.SyncBuf()
		if b == InvalidBufferID {
			t.Fatalf("sync buf unexpectedly invalid at step %d", i)
		}
		synced = append(synced, b)
		mb.Sync()
	}
	if !eqSlice(synced, []uint8{0, 1, 2, 3}) {
		t.Fatalf("sync order = %v, want 0,1,2,3 (FIFO)", synced)
	}
	if got := mb.SyncBuf(); got != InvalidBufferID {
		t.Fatalf("sync buf after full drain = %d, want invalid", got)
	}
}

func TestMultiBufferSyncNeverEqualsCapture(t *testing.T) {
	mb := NewMultiBuffer(2, []uint8{5, 6})
	mb.Capture()
	mb.Capture()
	if mb.SyncBuf() == mb.CapBuf() {
		t.Fatalf("sync buf %d must not equal cap buf %d", mb.SyncBuf(), mb.CapBuf())
	}
}

func eqSlice(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
