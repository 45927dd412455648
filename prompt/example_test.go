package prompt_test

import (
	"fmt"

	"ragai/prompt"
)

func ExampleAssemble() {
	fmt.Println(prompt.Assemble("Answer briefly.", "User: hi\nAssistant: hello"))
	// Output:
	// Answer briefly.
	//
	// Previous conversation:
	// User: hi
	// Assistant: hello
}
