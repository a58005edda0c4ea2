//go:build !statsview

package statsview

import (
	"bytes"
	"strings"
	"testing"
)

func TestStubLaunch(t *testing.T) {
	if Available() {
		t.Fatalf("stub build should not report the server as available")
	}
	var buf bytes.Buffer
	Launch(&buf)
	if !strings.Contains(buf.String(), "-tags statsview") {
		t.Fatalf("Launch output got %q", buf.String())
	}
}
