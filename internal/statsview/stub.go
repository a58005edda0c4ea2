//go:build !statsview

package statsview

import (
	"fmt"
	"io"
)

const Address = ""

// Launch explains how to get a build with the stats server.
func Launch(output io.Writer) {
	fmt.Fprintln(output, "stats server not available: rebuild with -tags statsview")
}

// Available reports whether this build can launch the stats server.
func Available() bool { return false }
