package engine

// Args builds the initial local variables of a method invocation in
// parameter order:
//
//	locals := engine.Args{}.I32(1).I64(2)
//
// Each method returns a new slice, so several builders may branch from a
// shared prefix.
type Args []Slot

// I32 appends an int (also boolean, byte, char and short).
func (a Args) I32(v int32) Args { return append(a.clip(), I32Slot(v)) }

// I64 appends a long as two slots.
func (a Args) I64(v int64) Args { return append(a.clip(), I64Slots(v)...) }

// F32 appends a float.
func (a Args) F32(v float32) Args { return append(a.clip(), F32Slot(v)) }

// F64 appends a double as two slots.
func (a Args) F64(v float64) Args { return append(a.clip(), F64Slots(v)...) }

// Ref appends a reference.
func (a Args) Ref(r Reference) Args { return append(a.clip(), RefSlot{Ref: r}) }

// clip caps a at its length so the next append copies.
func (a Args) clip() Args { return a[:len(a):len(a)] }

// Slots returns the built slots.
func (a Args) Slots() []Slot { return []Slot(a) }
