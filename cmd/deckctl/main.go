// Command deckctl works on deck files offline: it inspects and converts
// .apkg archives, normalizes deck JSON and builds installable bundles.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
