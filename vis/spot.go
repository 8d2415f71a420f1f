package vis

import "github.com/leanxcam/oscar/framework"

// BGR is a packed colour triple, as produced by SpotColor.
type BGR struct {
	B, G, R byte
}

// SpotColor integrates a size x size region of raw starting at
// (xPos, yPos) and returns one averaged BGR triple, using the Bayer
// order effective at that position (adjusted by the parity of xPos and
// yPos, per spec.md §4.4).
func SpotColor(raw []byte, width, height int, order BayerOrder, xPos, yPos, size int) (BGR, error) {
	if size <= 0 || xPos < 0 || yPos < 0 || xPos+size > width || yPos+size > height {
		return BGR{}, framework.New("vis", framework.ErrInvalidParameter, "region", nil)
	}
	effective := BayerOrderAt(order, xPos, yPos)

	var rSum, gSum, bSum, rN, gN, bN int
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			x, y := xPos+dx, yPos+dy
			v := int(raw[y*width+x])
			switch colorAt(effective, dx, dy) {
			case colR:
				rSum += v
				rN++
			case colG:
				gSum += v
				gN++
			case colB:
				bSum += v
				bN++
			}
		}
	}
	avg := func(sum, n int) byte {
		if n == 0 {
			return 0
		}
		return sat8(roundDiv(sum, n))
	}
	return BGR{B: avg(bSum, bN), G: avg(gSum, gN), R: avg(rSum, rN)}, nil
}
