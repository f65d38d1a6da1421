package trace

import (
	"slices"
	"unicode/utf16"
)

// Value is the closed set of types the canonical encoder accepts: String,
// Int, Bool, Array and Object. There is no float and no null.
type Value interface {
	canonical()
}

type (
	String string
	Int    int64
	Bool   bool
	Array  []Value
	Object map[string]Value
)

func (String) canonical() {}
func (Int) canonical()    {}
func (Bool) canonical()   {}
func (Array) canonical()  {}
func (Object) canonical() {}

// Ints converts a slice of ints to an Array.
func Ints(ns []int) Array {
	arr := make(Array, len(ns))
	for i, n := range ns {
		arr[i] = Int(n)
	}
	return arr
}

// SortedKeys returns the keys ordered by UTF-16 code units, which differs
// from Go's byte-wise string order outside the BMP.
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
