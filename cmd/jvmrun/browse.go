package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/jvm-runtime/classfile"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/runtime"
)

var browseCmd = &cobra.Command{
	Use:   "browse CLASS",
	Short: "Pick and run methods of a class interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("browse needs a terminal; use run instead")
		}
		rt, closeRT, err := openRuntime()
		if err != nil {
			return err
		}
		defer closeRT()
		p := tea.NewProgram(newBrowseModel(rt, args[0]), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

type browseModel struct {
	err       error
	rt        *runtime.Runtime
	className string
	result    string
	code      []string
	methods   []methodEntry
	inputs    []textinput.Model
	selected  int
	focusIdx  int
	loaded    bool
	state     modelState
}

type methodEntry struct {
	info   runtime.MethodInfo
	ret    string
	params []paramInfo
	code   *classfile.CodeAttribute
}

type paramInfo struct {
	name    string
	typeStr string
}

type modelState int

const (
	stateSelectMethod modelState = iota
	stateInputArgs
	stateShowResult
	stateShowCode
)

func newBrowseModel(rt *runtime.Runtime, className string) *browseModel {
	return &browseModel{
		rt:        rt,
		className: className,
		state:     stateSelectMethod,
	}
}

type loadedMsg struct {
	err     error
	methods []methodEntry
}

type callResultMsg struct {
	err    error
	result string
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadClass
}

func (m *browseModel) loadClass() tea.Msg {
	class, err := m.rt.LoadClass(m.className)
	if err != nil {
		return loadedMsg{err: err}
	}
	infos, err := runtime.ListMethods(class)
	if err != nil {
		return loadedMsg{err: err}
	}

	methods := make([]methodEntry, 0, len(infos))
	for i, info := range infos {
		e := methodEntry{info: info}
		e.code, _ = class.Methods[i].Code()
		desc, err := classfile.ParseMethodDescriptor(info.Descriptor)
		if err != nil {
			return loadedMsg{err: fmt.Errorf("%s%s: %w", info.Name, info.Descriptor, err)}
		}
		e.ret = javaType(desc.Return)
		names := paramNames(class.ConstantPool, e.code, info.Static(), desc)
		for j, p := range desc.Params {
			e.params = append(e.params, paramInfo{name: names[j], typeStr: javaType(p)})
		}
		methods = append(methods, e)
	}
	return loadedMsg{methods: methods}
}

// paramNames takes parameter names from the LocalVariableTable when the
// class carries one and falls back to arg0, arg1 and so on.
func paramNames(pool *classfile.ConstantPool, code *classfile.CodeAttribute, static bool, desc classfile.MethodDescriptor) []string {
	byIndex := map[uint16]string{}
	if code != nil {
		for _, v := range code.LocalVariables() {
			if v.StartPC != 0 {
				continue
			}
			if name, err := pool.UTF8(int(v.NameIndex)); err == nil {
				byIndex[v.Index] = name
			}
		}
	}

	names := make([]string, len(desc.Params))
	slot := 0
	if !static {
		slot = 1
	}
	for i, p := range desc.Params {
		names[i] = fmt.Sprintf("arg%d", i)
		if name, ok := byIndex[uint16(slot)]; ok {
			names[i] = name
		}
		slot += p.Slots()
	}
	return names
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectMethod && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectMethod && m.selected < len(m.methods)-1 {
				m.selected++
			}

		case "d":
			if m.state == stateSelectMethod && len(m.methods) > 0 {
				m.code = disassembly(m.methods[m.selected].code)
				m.state = stateShowCode
			}

		case "enter":
			switch m.state {
			case stateSelectMethod:
				if len(m.methods) == 0 {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callMethod
				}
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				return m, m.callMethod

			case stateShowResult, stateShowCode:
				m.reset()
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectMethod
				m.inputs = nil
			case stateShowResult, stateShowCode:
				m.reset()
			}
		}

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.methods = msg.methods

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *browseModel) reset() {
	m.state = stateSelectMethod
	m.result = ""
	m.code = nil
	m.err = nil
}

func (m *browseModel) prepareInputs() {
	e := m.methods[m.selected]
	m.inputs = make([]textinput.Model, len(e.params))
	for i, p := range e.params {
		ti := textinput.New()
		ti.Placeholder = p.typeStr
		ti.Prompt = p.name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *browseModel) callMethod() tea.Msg {
	e := m.methods[m.selected]
	values := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		values[i] = strings.TrimSpace(input.Value())
	}
	res, err := invoke(m.rt, m.className, e.info.Name, e.info.Descriptor, values)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: fmt.Sprintf("%s\n\nsteps: %d, max depth: %d", res, res.Steps, res.MaxDepth)}
}

func disassembly(code *classfile.CodeAttribute) []string {
	if code == nil {
		return []string{"no Code attribute"}
	}
	insts, err := engine.Disassemble(code.Code)
	out := make([]string, 0, len(insts)+1)
	for _, ins := range insts {
		out = append(out, ins.String())
	}
	if err != nil {
		out = append(out, errorStyle.Render(err.Error()))
	}
	return out
}

func (m *browseModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if !m.loaded {
		return "Loading class..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("JVM Runner"))
	b.WriteString(" ")
	b.WriteString(m.className)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectMethod:
		if len(m.methods) == 0 {
			b.WriteString("The class declares no methods.\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			break
		}
		b.WriteString("Select a method to call:\n\n")
		for i, e := range m.methods {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.formatMethod(e)))
			} else {
				b.WriteString("  " + m.formatMethod(e))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • d disassemble • q quit"))

	case stateInputArgs:
		e := m.methods[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(e.info.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(e.params[i].typeStr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		e := m.methods[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(e.info.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))

	case stateShowCode:
		e := m.methods[m.selected]
		b.WriteString(fmt.Sprintf("Code of %s%s:\n\n", funcStyle.Render(e.info.Name), e.info.Descriptor))
		for _, line := range m.code {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))
	}

	return b.String()
}

func (m *browseModel) formatMethod(e methodEntry) string {
	params := make([]string, len(e.params))
	for i, p := range e.params {
		params[i] = typeStyle.Render(p.typeStr) + " " + p.name
	}
	s := modifiers(e.info.Flags.MethodKeywords()) + typeStyle.Render(e.ret) + " " +
		funcStyle.Render(e.info.Name) + "(" + strings.Join(params, ", ") + ")"
	if !e.info.HasCode {
		s += helpStyle.Render("  no code")
	}
	return s
}
