package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keurnel/x64jit/examples/bf"
	"github.com/keurnel/x64jit/runtime"
)

var bfProgram string
var bfInterpOnly bool

var bfCmd = &cobra.Command{
	Use:     "bf",
	GroupID: "examples",
	Short:   "Interpret or JIT-compile a Brainfuck program",
	RunE: func(c *cobra.Command, args []string) error {
		if bfInterpOnly {
			output, _, status := bf.Interp(bfProgram)
			if status != bf.StatusOK {
				return fmt.Errorf("interpreter exited with status %d", status)
			}
			fmt.Print(string(output))
			return nil
		}

		rt := runtime.New()
		defer rt.Close()

		fn := bf.Load(rt, bfProgram)
		var cells [bf.NumCells]byte
		if status := fn(&cells[0]); status != bf.StatusOK {
			return fmt.Errorf("jit exited with status %d", status)
		}
		return nil
	},
}

func init() {
	bfCmd.Flags().StringVarP(&bfProgram, "program", "p", "", "brainfuck source")
	bfCmd.Flags().BoolVar(&bfInterpOnly, "interp", false, "run the plain interpreter instead of the JIT")
	bfCmd.MarkFlagRequired("program")
}
