/*
DESCRIPTION
  bayer.go implements the debayer kernel: gradient-aware bilinear
  interpolation with first-order Laplace correction, producing a full
  colour image from a raw Bayer mosaic (spec.md §4.4), grounded on the
  two-pass structure of vis/DebayerBilinearBGR.c and vis/bayer_lincorr.c
  in the original source.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vis implements the debayer kernel: green-channel interpolation
// with direction-adaptive Laplace correction, red/blue interpolation,
// half-size greyscale downscale and spot colour sampling, all operating
// directly on a raw single-channel Bayer-mosaic frame.
package vis

import (
	"github.com/leanxcam/oscar/framework"
	"github.com/leanxcam/oscar/pic"
)

// BayerOrder identifies the colour of the first row's first two pixels,
// per spec.md §4.4.
type BayerOrder int

const (
	RowBGBG BayerOrder = iota
	RowRGRG
	RowGBGB
	RowGRGR
)

// color identifies a CFA site's native colour.
type color int

const (
	colR color = iota
	colG
	colB
)

// cfa[order][y%2][x%2] gives the native colour of the raw pixel at
// (x, y) for the four supported first-row Bayer orders.
var cfa = [4][2][2]color{
	RowBGBG: {{colB, colG}, {colG, colR}},
	RowRGRG: {{colR, colG}, {colG, colB}},
	RowGBGB: {{colG, colB}, {colR, colG}},
	RowGRGR: {{colG, colR}, {colB, colG}},
}

func colorAt(order BayerOrder, x, y int) color {
	return cfa[order][y&1][x&1]
}

// BayerOrderAt returns the identifier describing the Bayer order of the
// row at (xPos, yPos) within an image whose first row has order
// "first" — the supplemented LCVCamGetBayerOrder operation of
// spec_full.md §3, accounting for AOI parity the way the original notes
// it must.
func BayerOrderAt(first BayerOrder, xPos, yPos int) BayerOrder {
	// Shifting the origin by one pixel in either axis walks the order
	// cyclically through the four variants that share a parity class.
	order := first
	if yPos&1 != 0 {
		order = rowShift(order)
	}
	if xPos&1 != 0 {
		order = colShift(order)
	}
	return order
}

func rowShift(o BayerOrder) BayerOrder {
	switch o {
	case RowBGBG:
		return RowGRGR
	case RowRGRG:
		return RowGBGB
	case RowGBGB:
		return RowRGRG
	default:
		return RowBGBG
	}
}

func colShift(o BayerOrder) BayerOrder {
	switch o {
	case RowBGBG:
		return RowGBGB
	case RowRGRG:
		return RowGRGR
	case RowGBGB:
		return RowBGBG
	default:
		return RowRGRG
	}
}

func sat8(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// roundDiv rounds num/den half away from zero, matching spec.md's
// round-half-up divisions applied to possibly-negative intermediate
// sums.
func roundDiv(num, den int) int {
	if num >= 0 {
		return (num + den/2) / den
	}
	return -((-num + den/2) / den)
}

// Debayer validates its inputs and dispatches to the two-pass bilinear
// algorithm. width must be even and >= 4; height must be >= 4. The
// output is packed 24-bit BGR, byte order B, G, R, same width and
// height as raw.
func Debayer(raw []byte, width, height int, order BayerOrder) (*pic.Picture, error) {
	if width%2 != 0 || width < 4 || height < 4 || len(raw) < width*height {
		return nil, framework.New("vis", framework.ErrInvalidParameter, "dimensions", nil)
	}

	green := make([]int, width*height)

	// Pass 1: green channel. The gradient-adaptive formula needs
	// same-colour neighbours two steps away in each direction; pixels
	// within one step of an edge fall back to a plain average of
	// whichever cardinal neighbours exist in bounds (divisor 2 at a
	// corner, 3 along an edge), per spec.md §4.4's border rule.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if colorAt(order, x, y) == colG {
				green[idx] = int(raw[idx])
				continue
			}

			hasHLap := x >= 2 && x <= width-3
			hasVLap := y >= 2 && y <= height-3
			if hasHLap && hasVLap {
				center := int(raw[idx])
				west, east := int(raw[idx-1]), int(raw[idx+1])
				north, south := int(raw[idx-width]), int(raw[idx+width])
				lapH := 2*center - int(raw[idx-2]) - int(raw[idx+2])
				lapV := 2*center - int(raw[idx-2*width]) - int(raw[idx+2*width])
				deltaH := abs(west-east) + abs(lapH)
				deltaV := abs(north-south) + abs(lapV)

				exprH := roundDiv(2*(west+east)+lapH, 4)
				exprV := roundDiv(2*(north+south)+lapV, 4)

				var g int
				switch {
				case deltaH < deltaV:
					g = exprH
				case deltaH > deltaV:
					g = exprV
				default:
					g = roundDiv(exprH+exprV, 2)
				}
				green[idx] = int(sat8(g))
				continue
			}

			sum, n := 0, 0
			if x > 0 {
				sum += int(raw[idx-1])
				n++
			}
			if x < width-1 {
				sum += int(raw[idx+1])
				n++
			}
			if y > 0 {
				sum += int(raw[idx-width])
				n++
			}
			if y < height-1 {
				sum += int(raw[idx+width])
				n++
			}
			green[idx] = int(sat8(roundDiv(sum, n)))
		}
	}

	img := pic.New(width, height, pic.BGR)

	// Pass 2: red and blue channels for the interior rows (those with
	// both vertical neighbours in bounds); first and last row are
	// handled afterwards by the copy-from-inside rule.
	for y := 1; y < height-1; y++ {
		redRow := rowColor(order, y) == colR
		for x := 0; x < width; x++ {
			idx := y*width + x
			g := green[idx]
			var r, b int
			hasH := x >= 1 && x <= width-2

			switch colorAt(order, x, y) {
			case colG:
				var hr, vr int
				if hasH {
					west, east := int(raw[idx-1]), int(raw[idx+1])
					hr = roundDiv(2*(west+east)+2*g-green[idx-1]-green[idx+1], 4)
				} else if x == 0 {
					hr = int(raw[idx+1])
				} else {
					hr = int(raw[idx-1])
				}
				north, south := int(raw[idx-width]), int(raw[idx+width])
				vr = roundDiv(2*(north+south)+2*g-green[idx-width]-green[idx+width], 4)
				if redRow {
					r, b = hr, vr
				} else {
					b, r = hr, vr
				}
			case colR, colB:
				var diag int
				if hasH {
					nw, ne := int(raw[idx-width-1]), int(raw[idx-width+1])
					sw, se := int(raw[idx+width-1]), int(raw[idx+width+1])
					gnw, gne := green[idx-width-1], green[idx-width+1]
					gsw, gse := green[idx+width-1], green[idx+width+1]
					lapN := 2*g - gnw - gse
					lapP := 2*g - gne - gsw
					deltaN := abs(nw-se) + abs(lapN)
					deltaP := abs(ne-sw) + abs(lapP)
					exprN := roundDiv(nw+se+lapN, 2)
					exprP := roundDiv(ne+sw+lapP, 2)
					switch {
					case deltaN < deltaP:
						diag = exprN
					case deltaN > deltaP:
						diag = exprP
					default:
						diag = roundDiv(exprN+exprP, 2)
					}
				} else if x == 0 {
					diag = roundDiv(int(raw[idx-width+1])+int(raw[idx+width+1]), 2)
				} else {
					diag = roundDiv(int(raw[idx-width-1])+int(raw[idx+width-1]), 2)
				}
				if colorAt(order, x, y) == colR {
					r = int(raw[idx])
					b = diag
				} else {
					b = int(raw[idx])
					r = diag
				}
			}
			o := idx * 3
			img.Data[o+0] = sat8(b)
			img.Data[o+1] = sat8(g)
			img.Data[o+2] = sat8(r)
		}
	}

	// First and last row: the non-native channel is copied from the
	// row directly inside (already written above); the native channel,
	// if this pixel has one, comes straight from the raw input,
	// per spec.md §4.4.
	fillBorderRow(img, raw, green, order, width, 0, 1)
	fillBorderRow(img, raw, green, order, width, height-1, height-2)

	return img, nil
}

// fillBorderRow fills output row y using row inside's already-computed
// red/blue values for the channel this pixel does not natively carry.
func fillBorderRow(img *pic.Picture, raw []byte, green []int, order BayerOrder, width, y, inside int) {
	for x := 0; x < width; x++ {
		idx := y*width + x
		insideIdx := inside*width + x
		insideR := int(img.Data[insideIdx*3+2])
		insideB := int(img.Data[insideIdx*3+0])
		g := green[idx]

		var r, b int
		switch colorAt(order, x, y) {
		case colG:
			r, b = insideR, insideB
		case colR:
			r = int(raw[idx])
			b = insideB
		case colB:
			b = int(raw[idx])
			r = insideR
		}
		o := idx * 3
		img.Data[o+0] = sat8(b)
		img.Data[o+1] = sat8(g)
		img.Data[o+2] = sat8(r)
	}
}

// rowColor reports the colour (R or B) carried by the row at y,
// besides green.
func rowColor(order BayerOrder, y int) color {
	c0 := colorAt(order, 0, y)
	if c0 != colG {
		return c0
	}
	return colorAt(order, 1, y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
