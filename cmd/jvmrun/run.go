package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/jvm-runtime/classfile"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/runtime"
)

var (
	descriptor string
	showFrame  bool
	showStats  bool
)

var runCmd = &cobra.Command{
	Use:   "run CLASS METHOD [ARGS...]",
	Short: "Run a method on the interpreter",
	Long: `Run a method of CLASS with the given arguments and print what it returned.
Arguments are parsed according to the method descriptor: integers accept 0x,
0o and 0b prefixes, booleans take true/false, String parameters take the text
itself and other references take null. Instance methods run with a null
receiver. Use --descriptor when METHOD is overloaded.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCommand,
}

func init() {
	runCmd.Flags().StringVar(&descriptor, "descriptor", "", "method descriptor, e.g. (II)I")
	runCmd.Flags().BoolVar(&showFrame, "frame", false, "print the final operand stack and locals")
	runCmd.Flags().BoolVar(&showStats, "stats", false, "print executed steps and call depth")
}

func runCommand(cmd *cobra.Command, args []string) error {
	rt, closeRT, err := openRuntime()
	if err != nil {
		return err
	}
	defer closeRT()

	res, err := invoke(rt, args[0], args[1], descriptor, args[2:])
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res, showFrame, showStats)
	return nil
}

// invoke resolves the method, converts the textual arguments and runs it.
// Instance methods get a null receiver.
func invoke(rt *runtime.Runtime, className, methodName, desc string, values []string) (*engine.Result, error) {
	m, member, err := rt.Method(className, methodName, desc)
	if err != nil {
		return nil, err
	}
	args, err := runtime.ParseArgs(m.Descriptor, values)
	if err != nil {
		return nil, err
	}
	if !member.AccessFlags.Has(classfile.AccStatic) {
		args = append(engine.Args{}.Ref(nil), args...)
	}
	logger.Debug("invoking", zap.Stringer("method", m), zap.Int("arg_slots", len(args)))
	return rt.Invoke(className, methodName, m.Descriptor, args)
}

func printResult(w io.Writer, res *engine.Result, frame, stats bool) {
	fmt.Fprintln(w, res)
	if frame {
		fmt.Fprintf(w, "stack:  %s\n", engine.FormatSlots(res.Stack))
		fmt.Fprintf(w, "locals: %s\n", engine.FormatSlots(res.Locals))
	}
	if stats {
		fmt.Fprintf(w, "steps: %d, max depth: %d\n", res.Steps, res.MaxDepth)
	}
}
