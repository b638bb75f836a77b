package main

import "github.com/keurnel/x64jit/cmd/jitbox/cmd"

func main() {
	cmd.Execute()
}
