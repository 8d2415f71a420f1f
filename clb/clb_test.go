package clb

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"testing"

	"github.com/ausocean/utils/logging"
)

func nopLogger() logging.Logger {
	return logging.New(logging.Debug, io.Discard, false)
}

// writeCalibFile packs a trivial calibration table (uniform FPN/PRNU,
// a small hotpixel list) into the binary layout documented in
// spec.md §4.3, for Load to read back.
func writeCalibFile(t *testing.T, path string, width, height int, fpn uint8, prnu uint16, hot []Point) {
	t.Helper()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(calibMagic))
	binary.Write(&buf, binary.LittleEndian, uint16(width))
	binary.Write(&buf, binary.LittleEndian, uint16(height))
	pack := (uint16(fpn) << 11) | (prnu & 0x3ff)
	for i := 0; i < width*height; i++ {
		binary.Write(&buf, binary.LittleEndian, pack)
	}
	binary.Write(&buf, binary.LittleEndian, uint16(len(hot)))
	for _, p := range hot {
		binary.Write(&buf, binary.LittleEndian, p.X)
		binary.Write(&buf, binary.LittleEndian, p.Y)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/calib.bin"
	writeCalibFile(t, path, 4, 4, 3, 0x100, []Point{{X: 1, Y: 1}})

	table, err := Load(path, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.FPN) != 16 || len(table.PRNU) != 16 {
		t.Fatalf("got %d/%d cells, want 16/16", len(table.FPN), len(table.PRNU))
	}
	for _, v := range table.FPN {
		if v != 3 {
			t.Fatalf("fpn = %d, want 3", v)
		}
	}
	for _, v := range table.PRNU {
		if v != 0x100 {
			t.Fatalf("prnu = %#x, want 0x100", v)
		}
	}
	if len(table.Hotpixels) != 1 || table.Hotpixels[0] != (Point{X: 1, Y: 1}) {
		t.Fatalf("got hotpixels %v", table.Hotpixels)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.bin"
	if err := os.WriteFile(path, []byte{0, 0, 0, 0}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, 4, 4); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestLoadRejectsDimensionMismatch(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/calib.bin"
	writeCalibFile(t, path, 4, 4, 0, 0x100, nil)
	if _, err := Load(path, 8, 8); err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
}

// TestCorrectFPNPRNUIdentity checks that a zero offset and unity gain
// (0x100 in 8.8 fixed point) leaves the image untouched.
func TestCorrectFPNPRNUIdentity(t *testing.T) {
	c := New(nopLogger())
	c.table = &Table{
		Width: 4, Height: 4,
		FPN:  make([]uint8, 16),
		PRNU: repeat16(16, 0x100),
	}
	c.slope = SlopeFPNPRNU
	img := []byte{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120, 130, 140, 150, 160}
	want := append([]byte(nil), img...)
	c.win = Window{ColOff: 0, RowOff: 0, Width: 4, Height: 4}
	if err := c.correctFPNPRNU(img); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(img, want) {
		t.Fatalf("got %v, want %v", img, want)
	}
}

func TestCorrectHotpixelInterpolates(t *testing.T) {
	c := New(nopLogger())
	c.table = &Table{
		Width: 4, Height: 4,
		Hotpixels: []Point{{X: 2, Y: 2}},
	}
	c.hotpixel = true
	c.win = Window{ColOff: 0, RowOff: 0, Width: 4, Height: 4}
	img := make([]byte, 16)
	// Neighbours of (2,2): left=(1,2), right=(3,2), top=(2,1), bottom=(2,3).
	img[2*4+1] = 100 // left
	img[2*4+3] = 100 // right
	img[1*4+2] = 100 // top
	img[3*4+2] = 100 // bottom
	img[2*4+2] = 255 // the hot pixel itself, to be replaced
	c.correctHotpixel(img)
	if img[2*4+2] != 100 {
		t.Fatalf("got %d, want 100", img[2*4+2])
	}
}

func TestCorrectHotpixelOutsideWindowSkipped(t *testing.T) {
	c := New(nopLogger())
	c.table = &Table{
		Width: 8, Height: 8,
		Hotpixels: []Point{{X: 6, Y: 6}},
	}
	c.hotpixel = true
	c.win = Window{ColOff: 0, RowOff: 0, Width: 4, Height: 4}
	img := make([]byte, 16)
	for i := range img {
		img[i] = 42
	}
	c.correctHotpixel(img)
	for i, v := range img {
		if v != 42 {
			t.Fatalf("byte %d changed to %d, window exclusion should have skipped it", i, v)
		}
	}
}

func TestSetupRejectsUnsupportedSlopes(t *testing.T) {
	c := New(nopLogger())
	if err := c.Setup(SlopeFPN, false); err == nil {
		t.Fatal("expected error for FPN-only slope")
	}
	if err := c.Setup(SlopePRNU, false); err == nil {
		t.Fatal("expected error for PRNU-only slope")
	}
	if err := c.Setup(SlopeFPNPRNU, true); err != nil {
		t.Fatal(err)
	}
}

func repeat16(n int, v uint16) []uint16 {
	s := make([]uint16, n)
	for i := range s {
		s[i] = v
	}
	return s
}
