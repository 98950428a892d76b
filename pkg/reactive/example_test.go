package reactive_test

import (
	"fmt"

	"github.com/go-tkbind/tkbind/pkg/reactive"
)

// This example shows how a bounds constraint reacts to every write.
func ExampleBounds() {
	number := reactive.NewVariable(5)
	if _, err := reactive.NewBounds(number, 0, 10); err != nil {
		fmt.Println("bounds:", err)
	}

	if err := number.Set(7); err == nil {
		fmt.Println("7 accepted")
	}

	// The write lands before the constraint rejects it.
	if err := number.Set(15); err != nil {
		fmt.Println("15 rejected, value is now", number.Value())
	}

	// Output:
	// 7 accepted
	// 15 rejected, value is now 15
}

// This example shows the broadcast-or-targeted observer surface.
func ExampleObservers() {
	position := reactive.NewVariable(0)

	position.Observers().Add("log", func(...any) (any, error) {
		fmt.Println("position is now", position.Value())
		return nil, nil
	})

	position.Set(3)
	position.Set(4)

	// Targeted notification with an argument.
	position.Observers().Add("scale", func(args ...any) (any, error) {
		return args[0].(int) * 2, nil
	})
	doubled, _ := position.Observers().NotifyWith("scale", 21)
	fmt.Println("doubled:", doubled)

	// Output:
	// position is now 3
	// position is now 4
	// doubled: 42
}
