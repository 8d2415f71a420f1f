package cam

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/ausocean/utils/logging"

	"github.com/leanxcam/oscar/backend"
	"github.com/leanxcam/oscar/bmp"
	"github.com/leanxcam/oscar/frd"
	"github.com/leanxcam/oscar/pic"
)

func nopLogger() logging.Logger {
	return logging.New(logging.Debug, io.Discard, false)
}

func newTestCamera(t *testing.T) *Camera {
	t.Helper()
	be := backend.NewHost(nopLogger())
	c, err := New(nopLogger(), be)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestAreaOfInterestRoundTrips(t *testing.T) {
	c := newTestCamera(t)
	if err := c.SetAreaOfInterest(10, 20, 100, 50); err != nil {
		t.Fatal(err)
	}
	got, err := c.GetAreaOfInterest()
	if err != nil {
		t.Fatal(err)
	}
	want := AOI{X: 10, Y: 20, Width: 100, Height: 50}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAreaOfInterestRejectsOutOfBounds(t *testing.T) {
	c := newTestCamera(t)
	if err := c.SetAreaOfInterest(700, 0, 100, 50); err == nil {
		t.Fatal("expected error for out-of-bounds area of interest")
	}
	if err := c.SetAreaOfInterest(0, 0, 3, 50); err == nil {
		t.Fatal("expected error for odd width")
	}
}

func TestShutterWidthPreservedAcrossAOIChange(t *testing.T) {
	c := newTestCamera(t)
	if err := c.SetShutterWidth(20000); err != nil {
		t.Fatal(err)
	}
	if err := c.SetAreaOfInterest(0, 0, 200, 100); err != nil {
		t.Fatal(err)
	}
	got, err := c.GetShutterWidth()
	if err != nil {
		t.Fatal(err)
	}
	// Allow 1000 usecs of error: a wide margin over one row-time
	// quantization step (660 pixel clocks, about 26 usecs, at this AOI).
	diff := int64(got) - int64(20000)
	if diff < -1000 || diff > 1000 {
		t.Fatalf("shutter width after AOI change = %d usecs, want ~20000", got)
	}
}

func TestRegisterFrameBufferBusyAndCannotDelete(t *testing.T) {
	c := newTestCamera(t)
	if err := c.RegisterFrameBuffer(0, make([]byte, 100), false); err != nil {
		t.Fatal(err)
	}
	if err := c.RegisterFrameBuffer(0, make([]byte, 100), false); err == nil {
		t.Fatal("expected frame-buffer-busy error")
	}
	if err := c.RegisterFrameBuffer(1, make([]byte, 100), false); err != nil {
		t.Fatal(err)
	}
	if err := c.CreateMultiBuffer(2, []uint8{0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := c.RegisterFrameBuffer(0, nil, false); err == nil {
		t.Fatal("expected cannot-delete error for buffer in multi-buffer")
	}
}

func TestRegisterFrameBufferRejectsDeregisterWhileCapturing(t *testing.T) {
	c := newTestCamera(t)
	if err := c.SetAreaOfInterest(0, 0, 4, 4); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "f.bmp")
	if err := bmp.Write(path, pic.New(4, 4, pic.Grey)); err != nil {
		t.Fatal(err)
	}
	c.SetFilenameReader(&frd.ConstantReader{Name: path})
	if err := c.RegisterFrameBuffer(0, make([]byte, 16), false); err != nil {
		t.Fatal(err)
	}
	if err := c.SetupCapture(0, TriggerManual); err != nil {
		t.Fatal(err)
	}
	if err := c.RegisterFrameBuffer(0, nil, false); err == nil {
		t.Fatal("expected cannot-delete error for buffer with capture in flight")
	}
	if _, err := c.ReadPicture(0, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := c.RegisterFrameBuffer(0, nil, false); err != nil {
		t.Fatalf("deregister after read completed: %v", err)
	}
}

func TestSetupCaptureRequiresAreaOfInterest(t *testing.T) {
	be := backend.NewHost(nopLogger())
	c := &Camera{log: nopLogger(), backend: be, lastValidID: InvalidBufferID, capturingID: InvalidBufferID}
	if err := c.RegisterFrameBuffer(0, make([]byte, 100), false); err != nil {
		t.Fatal(err)
	}
	if err := c.SetupCapture(0, TriggerManual); err == nil {
		t.Fatal("expected no-area-of-interest-set error")
	}
}

func TestHostCaptureReplayViaSequenceReader(t *testing.T) {
	c := newTestCamera(t)
	if err := c.SetAreaOfInterest(0, 0, 4, 4); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	img := pic.New(4, 4, pic.Grey)
	for i := range img.Data {
		img.Data[i] = byte(i + 1)
	}
	path := filepath.Join(dir, "frame0001.bmp")
	if err := bmp.Write(path, img); err != nil {
		t.Fatal(err)
	}
	c.SetFilenameReader(&frd.SequenceReader{Prefix: filepath.Join(dir, "frame"), Digits: 4, Suffix: ".bmp"})

	if err := c.RegisterFrameBuffer(0, make([]byte, 16), false); err != nil {
		t.Fatal(err)
	}
	if err := c.SetupCapture(0, TriggerManual); err != nil {
		t.Fatal(err)
	}
	data, err := c.ReadPicture(0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range data {
		if b != byte(i+1) {
			t.Fatalf("byte %d = %d, want %d", i, b, i+1)
		}
	}

	latest, err := c.ReadLatestPicture()
	if err != nil {
		t.Fatal(err)
	}
	if &latest[0] != &data[0] {
		t.Fatal("read-latest-picture did not return the same buffer as the last read")
	}
}

func TestReadPictureInvalidatesLastValidOnAOIChange(t *testing.T) {
	c := newTestCamera(t)
	if err := c.SetAreaOfInterest(0, 0, 4, 4); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	img := pic.New(4, 4, pic.Grey)
	path := filepath.Join(dir, "f.bmp")
	if err := bmp.Write(path, img); err != nil {
		t.Fatal(err)
	}
	c.SetFilenameReader(&frd.ConstantReader{Name: path})

	if err := c.RegisterFrameBuffer(0, make([]byte, 16), false); err != nil {
		t.Fatal(err)
	}
	if err := c.SetupCapture(0, TriggerManual); err != nil {
		t.Fatal(err)
	}

	if _, err := c.ReadPicture(0, 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ReadLatestPicture(); err != nil {
		t.Fatal("expected a valid last picture when the AOI has not changed since setup")
	}

	// Re-arm, then change the AOI before reading: last-valid must be
	// invalidated since the live AOI has diverged from the window the
	// capture was set up against.
	if err := c.SetupCapture(0, TriggerManual); err != nil {
		t.Fatal(err)
	}
	if err := c.SetAreaOfInterest(0, 0, 2, 2); err != nil {
		t.Fatal(err)
	}
	// The crop still targets the original 4x4 last-capture-window, which
	// still fits the 4x4 stand-in bitmap.
	if _, err := c.ReadPicture(0, 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ReadLatestPicture(); err == nil {
		t.Fatal("expected no-matching-picture after an AOI change invalidated last-valid")
	}
}

func TestCancelCaptureWithoutPendingFails(t *testing.T) {
	c := newTestCamera(t)
	if err := c.CancelCapture(); err == nil {
		t.Fatal("expected nothing-to-abort error")
	}
}

func TestReadPictureFailsWithoutCapture(t *testing.T) {
	c := newTestCamera(t)
	if err := c.RegisterFrameBuffer(0, make([]byte, 16), false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ReadPicture(0, 0, 0); err == nil {
		t.Fatal("expected no-capture-started error")
	}
}
