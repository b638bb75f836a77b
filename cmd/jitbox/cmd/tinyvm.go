package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keurnel/x64jit/examples/tinyvm"
	"github.com/keurnel/x64jit/runtime"
)

var tinyvmCmd = &cobra.Command{
	Use:     "tinyvm",
	GroupID: "examples",
	Short:   "Run the built-in tinyvm demo program on both the interpreter and the JIT",
	RunE: func(c *cobra.Command, args []string) error {
		program := []tinyvm.Insn{
			{Op: tinyvm.LoadImm, Dst: tinyvm.A, Imm: 0},
			{Op: tinyvm.LoadImm, Dst: tinyvm.B, Imm: 5},
			{Op: tinyvm.BranchZero, Src: tinyvm.B, Target: 7},
			{Op: tinyvm.Add, Dst: tinyvm.A, Src: tinyvm.B},
			{Op: tinyvm.Store, Src: tinyvm.A, Addr: 0},
			{Op: tinyvm.Addi, Dst: tinyvm.B, Imm: 0xFFFF},
			{Op: tinyvm.Branch, Target: 2},
			{Op: tinyvm.Load, Dst: tinyvm.C, Addr: 0},
			{Op: tinyvm.Halt},
		}

		interp := tinyvm.Interp(program)

		rt := runtime.New()
		defer rt.Close()
		fn := tinyvm.Load(rt, program)

		var regs [3]uint16
		var dmem [tinyvm.DMemSize]byte
		ret := fn(&regs[0], &dmem[0])

		fmt.Printf("interp: regs=%v instrs=%d pc=%d\n", interp.Regs, interp.InstrCount, interp.FinalPC)
		fmt.Printf("jit:    regs=%v instrs=%d pc=%d\n", regs, ret.InstrCount, ret.FinalPC)
		return nil
	},
}
