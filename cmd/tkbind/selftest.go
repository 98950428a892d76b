package main

import (
	"fmt"

	"github.com/go-tkbind/tkbind/pkg/errors"
	"github.com/go-tkbind/tkbind/pkg/reactive"
)

// runSelfTest runs the best-effort self-check suite and prints the
// verdict as a boolean. The suite is diagnostic only: it recovers every
// failure and never propagates one.
func runSelfTest() error {
	fmt.Println("tkbind: self-check returned...", selfCheck())
	return nil
}

// selfCheck sweeps a bounded variable across and beyond its interval and
// verifies each write lands or fails to match the interval.
func selfCheck() (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	number := reactive.NewVariable(5)
	bounds, err := reactive.NewBounds(number, 0, 10)
	if err != nil {
		return false
	}

	for n := 0; n < 20; n++ {
		err := number.Set(n)
		inside := bounds.Minimum().(int) <= n && n <= bounds.Maximum().(int)
		if inside != (err == nil) {
			return false
		}
		if err != nil && !errors.IsKind(err, errors.KindValue) {
			return false
		}
		if number.Value() != n {
			return false
		}
	}
	return true
}
