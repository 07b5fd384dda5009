package context

import (
	"os/exec"
	"testing"
)

// requireTool skips t unless name is on $PATH. Several contract tests
// exercise real subprocess invocations (cc, ar) because that is the
// domain this package operates in; those tests are meaningless against
// mocks, so we skip rather than fake them out when the host lacks the
// toolchain.
func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available on PATH", name)
	}
}
