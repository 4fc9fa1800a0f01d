// Command spaceadmin runs maintenance tasks against the spaceoverview
// database: migrations, recomputes, and backups.
package main

import (
	"fmt"
	"os"

	"github.com/Wilmersdorf/spaceoverview/internal/config"
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
