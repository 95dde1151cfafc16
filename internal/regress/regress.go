// Package regress holds the small amount of line fitting the brake
// calculations need.
package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Coeffs holds the slope and intercept of a straight line y = A*x + B.
type Coeffs struct {
	A, B float64
}

// Eval evaluates the line at x.
func (c Coeffs) Eval(x float64) float64 { return c.A*x + c.B }

// EvalAll evaluates the line at every x.
func (c Coeffs) EvalAll(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = c.Eval(x)
	}
	return ys
}

// PolyFit1 fits a degree-1 least-squares polynomial to the points, solving
// the normal equations ATA x = ATb.
func PolyFit1(xs, ys []float64) (Coeffs, error) {
	if len(xs) != len(ys) {
		return Coeffs{}, fmt.Errorf("regress: mismatched lengths %d and %d", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return Coeffs{}, fmt.Errorf("regress: need at least 2 points, got %d", len(xs))
	}

	basis := mat.NewDense(len(xs), 2, nil)
	for i, x := range xs {
		basis.Set(i, 0, x)
		basis.Set(i, 1, 1)
	}
	rhs := mat.NewVecDense(len(ys), ys)

	var a mat.Dense
	a.Product(basis.T(), basis)
	if err := a.Inverse(&a); err != nil {
		return Coeffs{}, fmt.Errorf("regress: degenerate fit: %w", err)
	}
	var b mat.Dense
	b.Product(basis.T(), rhs)
	b.Product(&a, &b)
	return Coeffs{A: b.At(0, 0), B: b.At(1, 0)}, nil
}

// LineThrough returns the coefficients of the straight line through two points.
func LineThrough(x0, y0, x1, y1 float64) Coeffs {
	a := (y1 - y0) / (x1 - x0)
	return Coeffs{A: a, B: y0 - a*x0}
}

// Linspace returns n evenly spaced values from begin to end inclusive.
func Linspace(begin, end float64, n int) []float64 {
	xs := make([]float64, n)
	if n == 1 {
		xs[0] = begin
		return xs
	}
	step := (end - begin) / float64(n-1)
	for i := range xs {
		xs[i] = begin + float64(i)*step
	}
	return xs
}
