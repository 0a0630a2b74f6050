package testcommon

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	buildOnce sync.Once
	builtPath string
	buildErr  error
)

// BuildFakeDriver compiles cmd/fakedriver once per test binary run and
// returns the path to the resulting executable, skipping the calling test
// if the build fails (for example when the go toolchain is unavailable).
func BuildFakeDriver(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "fakedriver")
		if err != nil {
			buildErr = err
			return
		}
		out := filepath.Join(dir, "fakedriver")

		_, thisFile, _, ok := runtime.Caller(0)
		if !ok {
			buildErr = errors.New("runtime.Caller(0) unavailable")
			return
		}
		modRoot := filepath.Dir(filepath.Dir(thisFile)) // testcommon/ sits directly under the module root

		cmd := exec.Command("go", "build", "-o", out, "./cmd/fakedriver")
		cmd.Dir = modRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("%w: %s", err, output)
			return
		}

		builtPath = out
	})

	if buildErr != nil {
		t.Skipf("fakedriver unavailable in this environment: %v", buildErr)
	}

	require.NotEmpty(t, builtPath)
	return builtPath
}
