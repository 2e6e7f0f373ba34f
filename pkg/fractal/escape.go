package fractal

// Escape is the squared magnitude at which an orbit is considered to diverge.
const Escape = 4.0

// EscapeTime iterates z = z*z + c starting from z = 0 and returns the number of
// steps taken before |z|^2 reached Escape, capped at maxIterations.
//
// A result equal to maxIterations means c did not escape within the budget and
// is treated as a member of the set.
func EscapeTime(c Point, maxIterations int) int {
	var zx, zy float64

	i := 0
	// The float64 conversions force each product to round on its own, so the
	// compiler cannot fuse them into multiply-adds on architectures with FMA.
	for float64(zx*zx)+float64(zy*zy) < Escape && i < maxIterations {
		temp := float64(zx*zx) - float64(zy*zy) + c.Re
		zy = float64(2*zx*zy) + c.Im
		zx = temp
		i++
	}

	return i
}
