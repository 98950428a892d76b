package reactive

// Ratio is a numerator/denominator pair with lazy reduction. Any write to
// either component invalidates the reduced flag; the Ratio accessor reduces
// before returning.
type Ratio struct {
	numerator   int
	denominator int
	reduced     bool
}

// NewRatio creates a ratio. A zero denominator defaults to 1.
func NewRatio(numerator, denominator int) *Ratio {
	if denominator == 0 {
		denominator = 1
	}
	r := &Ratio{}
	r.SetNumerator(numerator)
	r.SetDenominator(denominator)
	return r
}

// Numerator returns the current numerator, unreduced.
func (r *Ratio) Numerator() int { return r.numerator }

// Denominator returns the current denominator, unreduced.
func (r *Ratio) Denominator() int { return r.denominator }

// Reduced reports whether the components are currently in lowest terms.
func (r *Ratio) Reduced() bool { return r.reduced }

// SetNumerator assigns the numerator, invalidating the reduced flag if the
// value changes.
func (r *Ratio) SetNumerator(value int) {
	if value != r.numerator {
		r.reduced = false
	}
	r.numerator = value
}

// SetDenominator assigns the denominator, invalidating the reduced flag if
// the value changes.
func (r *Ratio) SetDenominator(value int) {
	if value != r.denominator {
		r.reduced = false
	}
	r.denominator = value
}

// Reduce divides both components by their greatest common divisor and sets
// the reduced flag.
func (r *Ratio) Reduce() {
	cd := gcd(r.numerator, r.denominator)
	if cd != 0 {
		r.numerator /= cd
		r.denominator /= cd
	}
	r.reduced = true
}

// Ratio returns the components in lowest terms, reducing lazily.
func (r *Ratio) Ratio() (numerator, denominator int) {
	if !r.reduced {
		r.Reduce()
	}
	return r.numerator, r.denominator
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
