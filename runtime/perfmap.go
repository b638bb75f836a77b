package runtime

import (
	"fmt"
	"os"
	"sync"
	"unsafe"
)

// perfMapEnabled gates the /tmp/perf-<pid>.map sidecar writer. Disabled by
// default: spec.md's component table lists it as optional and not
// specified further, so it is opt-in rather than on by default.
var (
	perfMapMu      sync.Mutex
	perfMapFile    *os.File
	perfMapEnabled bool
)

// EnablePerfMap opens (creating if needed) /tmp/perf-<pid>.map for
// appending one `<addr> <size> <name>` line per subsequent AddCode call,
// in the format the Linux `perf` tool's map-file loader expects.
func EnablePerfMap() error {
	perfMapMu.Lock()
	defer perfMapMu.Unlock()
	if perfMapEnabled {
		return nil
	}
	path := fmt.Sprintf("/tmp/perf-%d.map", os.Getpid())
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("runtime: failed to open perf map %s: %w", path, err)
	}
	perfMapFile = f
	perfMapEnabled = true
	return nil
}

// writePerfMapEntry appends one symbol entry for a just-deposited code
// range, named jit_<idx> since the library has no notion of instruction
// names of its own.
func writePerfMapEntry(addr unsafe.Pointer, size int, idx int) {
	perfMapMu.Lock()
	defer perfMapMu.Unlock()
	if !perfMapEnabled || perfMapFile == nil {
		return
	}
	fmt.Fprintf(perfMapFile, "%x %x jit_%d\n", uintptr(addr), size, idx)
}
