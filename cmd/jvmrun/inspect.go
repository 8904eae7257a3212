package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/jvm-runtime/classfile"
	"github.com/wippyai/jvm-runtime/engine"
)

var (
	showPool   bool
	showDisasm bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect CLASS",
	Short: "Print the structure of a class file",
	Long: `Print the header, fields and methods of a class. CLASS is either a path
to a .class file or a class name such as demo.MathUtil looked up on the class
path.`,
	Args: cobra.ExactArgs(1),
	RunE: inspectCommand,
}

func init() {
	inspectCmd.Flags().BoolVar(&showPool, "pool", false, "list the constant pool")
	inspectCmd.Flags().BoolVarP(&showDisasm, "disasm", "d", false, "disassemble method bodies")
}

func inspectCommand(cmd *cobra.Command, args []string) error {
	class, err := readClass(args[0])
	if err != nil {
		return err
	}
	return printClass(cmd.OutOrStdout(), class, inspectOptions{pool: showPool, disasm: showDisasm})
}

// readClass decodes arg as a file when it names an existing .class file
// and otherwise loads it from the class path.
func readClass(arg string) (*classfile.Class, error) {
	if strings.HasSuffix(arg, ".class") {
		data, err := os.ReadFile(arg)
		if err == nil {
			logger.Debug("decoding class file", zap.String("path", arg), zap.Int("size", len(data)))
			return classfile.Parse(data)
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
	}
	rt, closeRT, err := openRuntime()
	if err != nil {
		return nil, err
	}
	defer closeRT()
	return rt.LoadClass(arg)
}

type inspectOptions struct {
	pool   bool
	disasm bool
}

func printClass(w io.Writer, c *classfile.Class, opts inspectOptions) error {
	pool := c.ConstantPool
	name, err := c.Name()
	if err != nil {
		return err
	}

	kind := "class"
	if c.AccessFlags.Has(classfile.AccInterface) {
		kind = "interface"
	}
	keywords := c.AccessFlags.ClassKeywords()
	if kind == "interface" {
		keywords = without(keywords, "interface", "abstract")
	}
	fmt.Fprintln(w, titleStyle.Render(modifiers(keywords)+kind+" "+name))
	fmt.Fprintf(w, "  version:    %s\n", c.Version())
	fmt.Fprintf(w, "  flags:      %s\n", c.AccessFlags)
	if super, err := c.SuperName(); err == nil && super != "" {
		fmt.Fprintf(w, "  super:      %s\n", super)
	}
	if ifaces, err := c.InterfaceNames(); err == nil && len(ifaces) > 0 {
		fmt.Fprintf(w, "  interfaces: %s\n", strings.Join(ifaces, ", "))
	}
	if src, ok := c.SourceFile(); ok {
		fmt.Fprintf(w, "  source:     %s\n", src)
	}

	if opts.pool {
		fmt.Fprintf(w, "\n%s\n", headingStyle.Render(fmt.Sprintf("Constant pool (%d)", pool.Count())))
		for i, k := range pool.All() {
			fmt.Fprintf(w, "  %5s = %-18s %s\n", fmt.Sprintf("#%d", i), k.Tag(), pool.Describe(i))
		}
	}

	fmt.Fprintf(w, "\n%s\n", headingStyle.Render(fmt.Sprintf("Fields (%d)", len(c.Fields))))
	for _, f := range c.Fields {
		fname, err := f.Name(pool)
		if err != nil {
			return err
		}
		desc, err := f.Descriptor(pool)
		if err != nil {
			return err
		}
		typ := desc
		if t, err := classfile.ParseFieldType(desc); err == nil {
			typ = javaType(t)
		}
		fmt.Fprintf(w, "  %s%s %s\n", modifiers(f.AccessFlags.FieldKeywords()), typeStyle.Render(typ), fname)
	}

	fmt.Fprintf(w, "\n%s\n", headingStyle.Render(fmt.Sprintf("Methods (%d)", len(c.Methods))))
	for _, m := range c.Methods {
		mname, err := m.Name(pool)
		if err != nil {
			return err
		}
		desc, err := m.Descriptor(pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s%s  %s\n", modifiers(m.AccessFlags.MethodKeywords()),
			funcStyle.Render(javaSignature(mname, desc)), helpStyle.Render(desc))
		if !opts.disasm {
			continue
		}
		code, ok := m.Code()
		if !ok {
			continue
		}
		printCode(w, code)
	}
	return nil
}

func printCode(w io.Writer, code *classfile.CodeAttribute) {
	fmt.Fprintf(w, "      max_stack=%d max_locals=%d code_length=%d\n",
		code.MaxStack, code.MaxLocals, len(code.Code))
	insts, err := engine.Disassemble(code.Code)
	hasLines := len(code.LineNumbers()) > 0
	for _, ins := range insts {
		line := "    " + ins.String()
		if hasLines {
			if n := code.LineAt(ins.PC); n > 0 {
				line = fmt.Sprintf("%-40s // line %d", line, n)
			}
		}
		fmt.Fprintln(w, line)
	}
	if err != nil {
		fmt.Fprintf(w, "    %s\n", errorStyle.Render(err.Error()))
	}
	for _, h := range code.ExceptionTable {
		fmt.Fprintf(w, "      handler %d..%d -> %d catch #%d\n", h.StartPC, h.EndPC, h.HandlerPC, h.CatchType)
	}
}

func without(words []string, drop ...string) []string {
	return slices.DeleteFunc(slices.Clone(words), func(w string) bool { return slices.Contains(drop, w) })
}
