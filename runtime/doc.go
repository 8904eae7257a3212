// Package runtime provides the high-level API for running JVM classes.
//
// # Quick Start
//
//	rt, err := runtime.New(loader.NewDirLoader("build/classes"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Arguments can be built directly...
//	res, err := rt.Invoke("Calc", "add", "(II)I", engine.Args{}.I32(2).I32(3))
//
//	// ...or parsed from text.
//	args, err := runtime.ParseArgs("(JD)D", []string{"10", "0.5"})
//	res, err = rt.Invoke("Calc", "scale", "(JD)D", args)
//
// # Class Loading
//
// Classes are read through the runtime's jvmruntime.ClassLoader, decoded
// once and kept in an LRU cache. Cached classes are shared read-only
// between invocations, so a Runtime may be used from many goroutines.
// A class whose this_class does not match the requested name is rejected.
//
// # Static Calls
//
// The runtime implements engine.MethodResolver. invokestatic inside a
// running method loads the target class on demand and runs the callee in
// a new frame on the same call stack, so recursion depth is bounded by
// WithMaxCallDepth.
//
// # Descriptors
//
// Method descriptors select overloads. An empty descriptor is accepted
// when the method name is unique within its class.
package runtime
