// Package pic provides Picture, the tagged pixel buffer shared by the
// capture pipeline and the debayer kernel, per spec.md §3 "Picture".
package pic

// PixelType identifies the layout of a Picture's pixel data.
type PixelType int

const (
	// Grey is single-byte greyscale, one byte per pixel.
	Grey PixelType = iota
	// BGR is packed 24-bit colour, byte order B, G, R.
	BGR
	// RGB is packed 24-bit colour, byte order R, G, B.
	RGB
	// YUV420 is planar YUV 4:2:0.
	YUV420
	// YUV422 is planar YUV 4:2:2.
	YUV422
)

// BytesPerPixel returns the number of bytes occupied by one pixel for
// the packed pixel types; it is not meaningful for planar YUV types.
func (t PixelType) BytesPerPixel() int {
	switch t {
	case Grey:
		return 1
	case BGR, RGB:
		return 3
	default:
		return 0
	}
}

// Picture is a tagged data buffer: a byte slice plus its declared width,
// height and pixel type. Pictures used for reading may be caller-owned
// (Data pre-allocated by the caller, whose expected width and height
// can be checked with FitsExpected) or callee-allocated by whichever
// operation produces them.
type Picture struct {
	Data   []byte
	Width  int
	Height int
	Type   PixelType
}

// New allocates a Picture of the given dimensions and type, sized
// appropriately for packed pixel types.
func New(width, height int, t PixelType) *Picture {
	bpp := t.BytesPerPixel()
	if bpp == 0 {
		bpp = 1
	}
	return &Picture{
		Data:   make([]byte, width*height*bpp),
		Width:  width,
		Height: height,
		Type:   t,
	}
}

// FitsExpected reports whether the Picture matches caller-declared
// expected dimensions, used when the caller supplies its own buffer to
// a read operation (spec.md §3 "Picture").
func (p *Picture) FitsExpected(expectWidth, expectHeight int) bool {
	return p.Width == expectWidth && p.Height == expectHeight
}
