package vis

import "testing"

// TestDebayerUniformGrey checks testable property 5 and scenario S3:
// for a uniform grey raw input, the debayer output is (k,k,k) at every
// pixel except possibly a one-pixel border, for every Bayer order.
func TestDebayerUniformGrey(t *testing.T) {
	const w, h = 16, 16
	const k = 0x80
	raw := make([]byte, w*h)
	for i := range raw {
		raw[i] = k
	}
	for _, order := range []BayerOrder{RowBGBG, RowRGRG, RowGBGB, RowGRGR} {
		img, err := Debayer(raw, w, h, order)
		if err != nil {
			t.Fatalf("order %v: %v", order, err)
		}
		if img.Width != w || img.Height != h {
			t.Fatalf("order %v: dims %dx%d, want %dx%d", order, img.Width, img.Height, w, h)
		}
		for y := 2; y < h-2; y++ {
			for x := 2; x < w-2; x++ {
				o := (y*w + x) * 3
				b, g, r := img.Data[o], img.Data[o+1], img.Data[o+2]
				if b != k || g != k || r != k {
					t.Fatalf("order %v: pixel (%d,%d) = (%d,%d,%d), want (%d,%d,%d)", order, x, y, b, g, r, k, k, k)
				}
			}
		}
	}
}

// TestDebayerBounds checks testable property 4: output dimensions match
// the input and every byte is in range.
func TestDebayerBounds(t *testing.T) {
	w, h := 8, 6
	raw := make([]byte, w*h)
	for i := range raw {
		raw[i] = byte(i * 7)
	}
	img, err := Debayer(raw, w, h, RowGRGR)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != w || img.Height != h {
		t.Fatalf("got %dx%d, want %dx%d", img.Width, img.Height, w, h)
	}
	if len(img.Data) != w*h*3 {
		t.Fatalf("got %d bytes, want %d", len(img.Data), w*h*3)
	}
	// bytes are already constrained to [0,255] by the byte type; the
	// invariant that matters is that saturation actually clamped any
	// intermediate overflow, exercised implicitly by sat8 throughout.
}

func TestDebayerRejectsOddWidth(t *testing.T) {
	raw := make([]byte, 5*4)
	if _, err := Debayer(raw, 5, 4, RowGRGR); err == nil {
		t.Fatal("expected error for odd width")
	}
}

func TestHalfSizeGreyCellIndependence(t *testing.T) {
	raw := []byte{
		10, 20, 30, 40,
		50, 60, 70, 80,
	}
	out, ow, oh, err := HalfSizeGrey(raw, 4, 2, RowGRGR)
	if err != nil {
		t.Fatal(err)
	}
	if ow != 2 || oh != 1 {
		t.Fatalf("got %dx%d, want 2x1", ow, oh)
	}
	// Recompute independently and compare; reordering cells (here,
	// there is only one row of cells) must not change a given cell's
	// result, i.e. the result depends only on that cell's four pixels.
	order := RowGRGR
	cellLuma := func(x0, y0 int) byte {
		var r, b int
		var greens []int
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				v := int(raw[(y0+dy)*4+(x0+dx)])
				switch colorAt(order, x0+dx, y0+dy) {
				case colR:
					r = v
				case colB:
					b = v
				default:
					greens = append(greens, v)
				}
			}
		}
		return sat8(roundDiv(2*r+greens[0]+greens[1]+2*b, 6))
	}
	if out[0] != cellLuma(0, 0) || out[1] != cellLuma(2, 0) {
		t.Fatalf("half-size grey mismatch: %v", out)
	}
}

func TestSpotColor(t *testing.T) {
	raw := make([]byte, 8*8)
	for i := range raw {
		raw[i] = 0x40
	}
	c, err := SpotColor(raw, 8, 8, RowGRGR, 2, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 0x40 || c.G != 0x40 || c.B != 0x40 {
		t.Fatalf("got %+v, want all 0x40", c)
	}
}
