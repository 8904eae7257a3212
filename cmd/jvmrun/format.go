package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/jvm-runtime/classfile"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var primitiveNames = map[byte]string{
	'B': "byte", 'C': "char", 'D': "double", 'F': "float",
	'I': "int", 'J': "long", 'S': "short", 'Z': "boolean", 'V': "void",
}

// javaType renders a field type the way it is written in source, e.g.
// "java.lang.String[]".
func javaType(t classfile.FieldType) string {
	name := primitiveNames[t.Base]
	if t.Base == 'L' {
		name = strings.ReplaceAll(t.Class, "/", ".")
	}
	return name + strings.Repeat("[]", t.Dims)
}

// javaSignature renders a method as "int add(int, int)". Descriptors that
// do not parse are shown raw after the name.
func javaSignature(name, descriptor string) string {
	d, err := classfile.ParseMethodDescriptor(descriptor)
	if err != nil {
		return name + descriptor
	}
	params := make([]string, len(d.Params))
	for i, p := range d.Params {
		params[i] = javaType(p)
	}
	return javaType(d.Return) + " " + name + "(" + strings.Join(params, ", ") + ")"
}

func modifiers(words []string) string {
	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, " ") + " "
}
