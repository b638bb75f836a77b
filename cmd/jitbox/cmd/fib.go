package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keurnel/x64jit/examples/fib"
	"github.com/keurnel/x64jit/runtime"
)

var fibN uint64

var fibCmd = &cobra.Command{
	Use:     "fib",
	GroupID: "examples",
	Short:   "JIT-compile and run the Fibonacci example",
	RunE: func(c *cobra.Command, args []string) error {
		rt := runtime.New()
		defer rt.Close()

		fn := fib.Load(rt)
		fmt.Printf("fib(%d) = %d\n", fibN, fn(fibN))
		return nil
	},
}

func init() {
	fibCmd.Flags().Uint64VarP(&fibN, "n", "n", 10, "index into the Fibonacci sequence")
}
