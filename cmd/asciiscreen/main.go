// Command asciiscreen renders a live frame source as ASCII art in the
// terminal.
package main

import (
	"os"

	"github.com/gogpu/asciiscreen/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
