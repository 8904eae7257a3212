// Package jvmruntime is a Go implementation of the JVM class file format
// and a small bytecode interpreter.
//
// The library decodes .class files into an inspectable descriptor, encodes
// them back bit-exactly, and executes method bodies on a stack interpreter
// with bounded operand and call stacks.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	jvmruntime/          Root package with the ClassLoader interface
//	├── runtime/         High-level API for loading classes and invoking methods
//	├── engine/          Frames, operand stack, instruction table, interpreter
//	├── classfile/       Class file decoding, encoding and descriptors
//	├── loader/          Directory, jar/zip and in-memory class loaders
//	├── config/          TOML configuration and logger construction
//	├── errors/          Structured error types for debugging
//	└── cmd/jvmrun/      Command line inspector, runner and browser
//
// # Quick Start
//
// Load a class from a class path and call a static method:
//
//	rt, err := runtime.New(loader.NewDirLoader("build/classes"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := rt.Invoke("com/example/Math", "add", "(II)I", engine.Args{}.I32(2).I32(3))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res) // "5 (int)"
//
// Decode a class without running anything:
//
//	class, err := classfile.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(class.Name())
//
// # Execution Model
//
// Values are 32-bit slots. long and double occupy two slots, high half
// first. Each invocation gets a frame sized from its Code attribute, and
// the call stack depth is bounded. Static calls between methods are
// resolved through the runtime; instructions needing an object model
// (fields, arrays, new, virtual dispatch, exceptions) decode but fail with
// an unsupported error when executed.
//
// # Thread Safety
//
// Runtime is safe for concurrent use: decoded classes are immutable once
// cached and every invocation runs on its own call stack. Frames, stacks
// and Results are not shared between invocations.
package jvmruntime
