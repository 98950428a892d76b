package main

import (
	"fmt"
	"time"
)

// timed runs fn inside a scoped wall-clock timer, printing the elapsed
// time on the way out whether or not fn failed.
func timed(fn func() error) error {
	start := time.Now()
	defer func() {
		fmt.Printf("Execution time: %.10f seconds\n", time.Since(start).Seconds())
	}()
	return fn()
}
