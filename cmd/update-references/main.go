// Command update-references regenerates the golden images of the visual
// tests after an intended rendering change.
package main

import (
	"flag"
	"fmt"
	"os"

	"imhtml/pkg/visualtest"
)

func main() {
	width := flag.Int("w", 400, "image width in pixels")
	height := flag.Int("h", 200, "image height in pixels")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: update-references [flags] [dir]\n\n")
		fmt.Fprintf(os.Stderr, "Renders every HTML file in dir (default pkg/visualtest/testdata/golden)\n")
		fmt.Fprintf(os.Stderr, "into dir/reference. Or: UPDATE_REFS=1 go test ./pkg/visualtest -run TestGolden\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	dir := "pkg/visualtest/testdata/golden"
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}

	written, err := visualtest.UpdateReferences(dir, *width, *height)
	for _, path := range written {
		fmt.Printf("Generated %s\n", path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
