package runtime

import (
	"bytes"
	"fmt"
	"os/exec"
)

// Disasm pipes the deposited bytes through `ndisasm -b64 -` and returns its
// output. Grounded on original_source/src/disasm.rs. If ndisasm is not on
// $PATH, it returns an error instead of panicking: disassembly is a
// developer convenience, not part of the core W^X contract, so its absence
// is not a fail-fast condition.
func (r *Runtime) Disasm() (string, error) {
	path, err := exec.LookPath("ndisasm")
	if err != nil {
		return "", fmt.Errorf("runtime: ndisasm not found on $PATH: %w", err)
	}
	cmd := exec.Command(path, "-b64", "-")
	cmd.Stdin = bytes.NewReader(r.buf[:r.idx])
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("runtime: ndisasm failed: %w", err)
	}
	return string(out), nil
}
