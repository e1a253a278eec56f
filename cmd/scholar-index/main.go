// Command scholar-index serves the article search API and loads article
// exports into the vector index.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
