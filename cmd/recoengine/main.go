// Command recoengine is the CLI surface for the batch recommendation
// engine: triggering a single algorithm job, rolling back the
// published version, or running the supervised daemon.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
