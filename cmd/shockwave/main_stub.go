//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The GUI build of shockwave requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/shockwave`, or try `go run ./cmd/shockwave-tui` for the terminal view.")
	os.Exit(2)
}
