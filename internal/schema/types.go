package schema

import (
	"fmt"
	"strings"
)

// Unlimited is the Max value for strings and sequences without an upper bound.
const Unlimited = -1

// Kind identifies the shape a Type describes.
type Kind int

const (
	KindInt Kind = iota
	KindUint
	KindBool
	KindFloat
	KindString
	KindMapping
	KindSequence
	KindSequenceFixed
)

var kindNames = map[Kind]string{
	KindInt:           "int",
	KindUint:          "uint",
	KindBool:          "bool",
	KindFloat:         "float",
	KindString:        "string",
	KindMapping:       "mapping",
	KindSequence:      "sequence",
	KindSequenceFixed: "sequence_fixed",
}

// String returns the lower-case kind name used in diagnostics and CUE files.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// IsScalar reports whether the kind is bound from a single scalar node.
func (k Kind) IsScalar() bool {
	switch k {
	case KindInt, KindUint, KindBool, KindFloat, KindString:
		return true
	}
	return false
}

// Flags modify how a Type is bound.
type Flags uint

const (
	FlagDefault Flags = 0

	// FlagOptional lets a mapping field be absent from the document.
	FlagOptional Flags = 1 << (iota - 1)

	// FlagPointer makes the target a pointer to a separately allocated value.
	// Sequences bind to slices, which are always allocated, so the flag has
	// no effect on KindSequence.
	FlagPointer
)

func (f Flags) String() string {
	if f == FlagDefault {
		return "default"
	}
	var parts []string
	if f&FlagOptional != 0 {
		parts = append(parts, "optional")
	}
	if f&FlagPointer != 0 {
		parts = append(parts, "pointer")
	}
	return strings.Join(parts, "|")
}

// Type describes one node of a target shape.
type Type struct {
	Kind  Kind
	Flags Flags

	// Min and Max bound string length (in bytes) or sequence entry count.
	// Max == Unlimited means no upper bound. Fixed sequences use Min == Max.
	Min int
	Max int

	// Fields lists mapping members in declaration order.
	Fields []Field

	// Entry describes the elements of a sequence.
	Entry *Type
}

// Field maps one document key onto a struct member.
type Field struct {
	Key string

	// Member is the Go struct field name. Empty means GoName(Key).
	Member string

	Type *Type
}

// NewField returns a field whose member name is derived from the key.
func NewField(key string, t *Type) Field {
	return Field{Key: key, Type: t}
}

// As returns a copy of f bound to an explicit struct member.
func (f Field) As(member string) Field {
	f.Member = member
	return f
}

// MemberName returns the struct field the binder reads and writes.
func (f Field) MemberName() string {
	if f.Member != "" {
		return f.Member
	}
	return GoName(f.Key)
}

// Has reports whether all bits of flags are set.
func (t *Type) Has(flags Flags) bool {
	return t.Flags&flags == flags
}

// IsPointer reports whether the target is a separately allocated pointer.
func (t *Type) IsPointer() bool {
	return t.Kind != KindSequence && t.Has(FlagPointer)
}

// IsOptional reports whether the value may be missing from a mapping.
func (t *Type) IsOptional() bool {
	return t.Has(FlagOptional)
}

// Lookup finds a mapping field by document key.
func (t *Type) Lookup(key string, foldCase bool) (Field, int, bool) {
	for i, f := range t.Fields {
		if f.Key == key || (foldCase && strings.EqualFold(f.Key, key)) {
			return f, i, true
		}
	}
	return Field{}, -1, false
}

// Int describes a signed integer.
func Int(flags Flags) *Type {
	return &Type{Kind: KindInt, Flags: flags}
}

// Uint describes an unsigned integer.
func Uint(flags Flags) *Type {
	return &Type{Kind: KindUint, Flags: flags}
}

// Bool describes a boolean.
func Bool(flags Flags) *Type {
	return &Type{Kind: KindBool, Flags: flags}
}

// Float describes a floating point number.
func Float(flags Flags) *Type {
	return &Type{Kind: KindFloat, Flags: flags}
}

// String describes a string of min..max bytes.
func String(flags Flags, min, max int) *Type {
	return &Type{Kind: KindString, Flags: flags, Min: min, Max: max}
}

// Mapping describes a struct bound from a document mapping.
func Mapping(flags Flags, fields ...Field) *Type {
	return &Type{Kind: KindMapping, Flags: flags, Fields: fields}
}

// Sequence describes a slice of min..max entries.
func Sequence(flags Flags, entry *Type, min, max int) *Type {
	return &Type{Kind: KindSequence, Flags: flags, Entry: entry, Min: min, Max: max}
}

// SequenceFixed describes an array of exactly count entries.
func SequenceFixed(flags Flags, entry *Type, count int) *Type {
	return &Type{Kind: KindSequenceFixed, Flags: flags, Entry: entry, Min: count, Max: count}
}
