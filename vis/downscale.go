package vis

import "github.com/leanxcam/oscar/framework"

// HalfSizeGrey collapses each 2x2 Bayer cell of raw to one luma byte,
// weighted 2*R + G1 + G2 + 2*B, divided by 6 (spec.md §4.4 "half-size
// greyscale"). Output dimensions are width/2 x height/2; the result for
// cell (2x, 2y) is a pure function of that cell's four raw pixels
// regardless of processing order (testable property 9).
func HalfSizeGrey(raw []byte, width, height int, order BayerOrder) ([]byte, int, int, error) {
	if width%2 != 0 || height%2 != 0 || width < 2 || height < 2 || len(raw) < width*height {
		return nil, 0, 0, framework.New("vis", framework.ErrInvalidParameter, "dimensions", nil)
	}
	ow, oh := width/2, height/2
	out := make([]byte, ow*oh)
	for cy := 0; cy < oh; cy++ {
		for cx := 0; cx < ow; cx++ {
			x0, y0 := cx*2, cy*2
			var r, b int
			var greens []int
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					v := int(raw[(y0+dy)*width+(x0+dx)])
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
			g1, g2 := greens[0], greens[1]
			out[cy*ow+cx] = sat8(roundDiv(2*r+g1+g2+2*b, 6))
		}
	}
	return out, ow, oh, nil
}
