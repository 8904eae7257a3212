// Package errors provides structured error types for the jvm-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes a structural path into the class file, a detail
// message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindLengthMismatch).
//		Path("methods[2]", "Code").
//		Detail("declared %d bytes, consumed %d", 12, 10).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(offset, 4, 1)
//	err := errors.LocalIndexOutOfRange(7, 4)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind, so callers can test a category without
// caring about detail text:
//
//	if stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindTruncatedInput}) {
//		...
//	}
package errors
