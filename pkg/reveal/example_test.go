package reveal_test

import (
	"fmt"

	"github.com/matzehuels/blindcard/pkg/reveal"
)

func ExampleMask() {
	fmt.Println(reveal.Mask("hello world"))
	// Output: ■■■l■ ■■r■■
}
