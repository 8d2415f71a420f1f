/*
DESCRIPTION
  bmp.go implements the uncompressed-BMP codec used by the host capture
  backend to stand in for real sensor frames, grounded on
  original_source/bmp/bmp.c. Only 24-bit BGR and 8-bit greyscale,
  uncompressed and without a colour table beyond the greyscale ramp
  every reader expects for 8bpp files, are supported; anything else is
  rejected with ErrUnsupportedFormat, matching the original.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bmp reads and writes the uncompressed Windows BMP files the
// host capture backend uses as stand-in camera frames.
package bmp

import (
	"encoding/binary"
	"os"

	"github.com/leanxcam/oscar/framework"
	"github.com/leanxcam/oscar/pic"
)

const (
	fileHeaderSize = 14
	dibHeaderSize  = 40
	rgbHeaderSize  = fileHeaderSize + dibHeaderSize
	greyPaletteLen = 256 * 4
	greyHeaderSize = fileHeaderSize + dibHeaderSize + greyPaletteLen
)

// field offsets within the combined file+DIB header, in bytes.
const (
	offFileSize   = 2
	offDataOffset = 10
	offWidth      = 18
	offHeight     = 22
	offBitCount   = 28
	offImageSize  = 34
)

// Read loads path and returns its pixel data top-to-bottom, BGR order
// for colour images, matching OscBmpRead. Only 24-bit BGR and 8-bit
// greyscale, uncompressed, are supported.
func Read(path string) (*pic.Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, framework.New("bmp", framework.ErrUnableToOpenFile, path, err)
	}
	defer f.Close()

	hdr := make([]byte, greyHeaderSize)
	n, err := f.Read(hdr)
	if err != nil && n == 0 {
		return nil, framework.New("bmp", framework.ErrFileParse, path, err)
	}
	if n < rgbHeaderSize {
		return nil, framework.New("bmp", framework.ErrFileParse, "header-too-short", nil)
	}

	dataOffset := int32(binary.LittleEndian.Uint32(hdr[offDataOffset:]))
	width := int32(binary.LittleEndian.Uint32(hdr[offWidth:]))
	height := int32(binary.LittleEndian.Uint32(hdr[offHeight:]))
	colorDepth := binary.LittleEndian.Uint16(hdr[offBitCount:])

	reversed := false
	if height > 0 {
		// Rows are stored bottom-to-top, the default BMP convention.
		reversed = true
	} else {
		height = -height
	}

	if colorDepth != 24 && colorDepth != 8 {
		return nil, framework.New("bmp", framework.ErrUnsupportedFormat, "color-depth", nil)
	}
	if binary.LittleEndian.Uint32(hdr[30:]) != 0 {
		return nil, framework.New("bmp", framework.ErrUnsupportedFormat, "compression", nil)
	}
	if dataOffset != rgbHeaderSize && dataOffset != greyHeaderSize {
		return nil, framework.New("bmp", framework.ErrUnsupportedFormat, "header-size", nil)
	}

	var typ pic.PixelType
	if colorDepth == 24 {
		typ = pic.BGR
	} else {
		typ = pic.Grey
	}

	p := pic.New(int(width), int(height), typ)
	bytesPerPixel := int(colorDepth / 8)
	rowLen := ((int(width)*bytesPerPixel + 3) / 4) * 4

	row := make([]byte, rowLen)
	if _, err := f.Seek(int64(dataOffset), 0); err != nil {
		return nil, framework.New("bmp", framework.ErrFileParse, path, err)
	}
	for y := 0; y < int(height); y++ {
		if _, err := readFull(f, row); err != nil {
			return nil, framework.New("bmp", framework.ErrFileParse, path, err)
		}
		copy(p.Data[y*int(width)*bytesPerPixel:], row[:int(width)*bytesPerPixel])
	}

	if reversed {
		reverseRowOrder(p)
	}
	return p, nil
}

func readFull(f *os.File, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := f.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// Write stores p as an uncompressed BMP file at path. p is expected in
// top-to-bottom row order, BGR for colour; the file is written with
// rows reversed (bottom-to-top), the default BMP convention, matching
// OscBmpWrite.
func Write(path string, p *pic.Picture) error {
	if p == nil || len(p.Data) == 0 || p.Width == 0 || p.Height == 0 {
		return framework.New("bmp", framework.ErrInvalidParameter, path, nil)
	}

	var colorDepth uint16
	var headerSize int
	switch p.Type {
	case pic.BGR:
		colorDepth = 24
		headerSize = rgbHeaderSize
	case pic.Grey:
		colorDepth = 8
		headerSize = greyHeaderSize
	default:
		return framework.New("bmp", framework.ErrUnsupportedFormat, "pixel-type", nil)
	}

	bytesPerPixel := int(colorDepth / 8)
	rowLen := p.Width * bytesPerPixel
	padLen := ((rowLen+3)/4)*4 - rowLen
	imageSize := (rowLen + padLen) * p.Height
	fileSize := headerSize + imageSize

	hdr := make([]byte, headerSize)
	hdr[0], hdr[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(hdr[offFileSize:], uint32(fileSize))
	binary.LittleEndian.PutUint32(hdr[offDataOffset:], uint32(headerSize))
	binary.LittleEndian.PutUint32(hdr[14:], uint32(dibHeaderSize))
	binary.LittleEndian.PutUint32(hdr[offWidth:], uint32(p.Width))
	binary.LittleEndian.PutUint32(hdr[offHeight:], uint32(p.Height))
	binary.LittleEndian.PutUint16(hdr[26:], 1)
	binary.LittleEndian.PutUint16(hdr[offBitCount:], colorDepth)
	binary.LittleEndian.PutUint32(hdr[offImageSize:], uint32(imageSize))
	if p.Type == pic.Grey {
		for i := 0; i < 256; i++ {
			off := fileHeaderSize + dibHeaderSize + i*4
			hdr[off], hdr[off+1], hdr[off+2] = byte(i), byte(i), byte(i)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return framework.New("bmp", framework.ErrUnableToOpenFile, path, err)
	}
	defer f.Close()

	if _, err := f.Write(hdr); err != nil {
		return framework.New("bmp", framework.ErrFileParse, path, err)
	}

	pad := make([]byte, padLen)
	for y := p.Height - 1; y >= 0; y-- {
		row := p.Data[y*rowLen : y*rowLen+rowLen]
		if _, err := f.Write(row); err != nil {
			return framework.New("bmp", framework.ErrFileParse, path, err)
		}
		if padLen != 0 {
			if _, err := f.Write(pad); err != nil {
				return framework.New("bmp", framework.ErrFileParse, path, err)
			}
		}
	}
	return nil
}

// reverseRowOrder flips p's rows top-for-bottom in place, matching
// OscBmpReverseRowOrder.
func reverseRowOrder(p *pic.Picture) {
	bpp := p.Type.BytesPerPixel()
	rowLen := p.Width * bpp
	tmp := make([]byte, rowLen)
	for i := 0; i < p.Height/2; i++ {
		top := i * rowLen
		bot := (p.Height - i - 1) * rowLen
		copy(tmp, p.Data[top:top+rowLen])
		copy(p.Data[top:top+rowLen], p.Data[bot:bot+rowLen])
		copy(p.Data[bot:bot+rowLen], tmp)
	}
}
