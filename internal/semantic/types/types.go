// Package types implements the type system for the compiler.
//
// DESIGN PHILOSOPHY:
// A strong, static type system catches errors at compile time and enables optimizations.
// Our type system supports:
// 1. Primitive types (int, float, bool, string, etc.)
// 2. Composite types (arrays, structs)
// 3. Function types
// 4. Type checking and inference
// 5. Type compatibility and conversion rules
//
// KEY DESIGN CHOICES:
// - Nominal typing for structs (struct Point != struct{x int; y int})
// - Structural typing for function types (func(int) int == func(int) int)
// - Explicit conversions required (no implicit int->float)
// - Type inference from initializers (var x = 5 infers int)
package types

import (
	"fmt"
	"strings"
)

// Type is the interface that all types implement.
//
// DESIGN CHOICE: Use an interface rather than a struct with a "kind" field because:
// - Type-safe (each type has its own struct)
// - Easy to extend (add new methods to specific types)
// - Pattern matching via type switches
// - Follows Go conventions (ast.Node, etc.)
type Type interface {
	// String returns a human-readable representation of the type
	String() string

	// Equals checks if this type is identical to another type
	//
	// IDENTITY RULES:
	// - Primitive types: equal if same kind (int == int)
	// - Arrays: equal if element type and size are equal
	// - Structs: equal if same struct (nominal typing)
	// - Functions: equal if parameters and return type are equal (structural)
	Equals(other Type) bool

	// AssignableTo checks if a value of this type can be assigned to another type
	//
	// ASSIGNABILITY RULES:
	// - Identical types are assignable
	// - nil is assignable to any pointer/array/struct type (in some languages)
	// - Specific rules for each type (see individual types)
	//
	// This is more lenient than Equals (e.g., named type vs underlying type)
	AssignableTo(other Type) bool

	// kind returns the kind of type (for internal use)
	// We don't export this because external code should use type switches
	kind() TypeKind
}

// TypeKind represents the kind of type.
// This is used internally for quick type checks.
type TypeKind int

const (
	KindInvalid TypeKind = iota
	KindVoid
	KindInt
	KindFloat
	KindBool
	KindString
	KindChar
	KindArray
	KindStruct
	KindFunction
	KindNil
	KindNever
	KindReference
	KindTuple
	KindSlice
	KindOption
	KindResult
	KindGenericParam
	KindEnum
)

// Base type implementations

// InvalidType represents an invalid or error type.
// This is used when type checking fails, to allow checking to continue.
//
// DESIGN CHOICE: Use a special type for errors rather than nil because:
// - Prevents nil pointer panics
// - Can continue type checking after errors
// - Errors are caught, but we can still analyze rest of code
type InvalidType struct{}

func (i *InvalidType) String() string           { return "<invalid>" }
func (i *InvalidType) Equals(other Type) bool   { return false }
func (i *InvalidType) AssignableTo(Type) bool   { return false }
func (i *InvalidType) kind() TypeKind            { return KindInvalid }

// VoidType represents the absence of a type (void functions)
type VoidType struct{}

func (v *VoidType) String() string           { return "void" }
func (v *VoidType) Equals(other Type) bool   { _, ok := other.(*VoidType); return ok }
func (v *VoidType) AssignableTo(Type) bool   { return false }
func (v *VoidType) kind() TypeKind            { return KindVoid }

// IntType represents an integer type of a specific bit width and
// signedness: Int8..Int128, UInt8..UInt128. Width/Signed distinguish one
// instance from another; two IntTypes are equal only if both match.
type IntType struct {
	Width  int // 8, 16, 32, 64, or 128
	Signed bool
}

func (i *IntType) String() string {
	prefix := "Int"
	if !i.Signed {
		prefix = "UInt"
	}
	return fmt.Sprintf("%s%d", prefix, i.Width)
}
func (i *IntType) Equals(other Type) bool {
	o, ok := other.(*IntType)
	return ok && o.Width == i.Width && o.Signed == i.Signed
}
func (i *IntType) AssignableTo(other Type) bool { return i.Equals(other) }
func (i *IntType) kind() TypeKind                { return KindInt }

// MinValue returns the smallest representable value for this int type.
func (i *IntType) MinValue() int64 {
	if !i.Signed {
		return 0
	}
	return -(int64(1) << (uint(i.Width) - 1))
}

// MaxValue returns the largest representable value for this int type
// (for UInt128/Int128 this overflows int64 and callers should use
// big.Int instead; MaxValue is provided for the common <=64-bit cases).
func (i *IntType) MaxValue() int64 {
	if i.Width >= 64 {
		return int64(^uint64(0) >> 1)
	}
	if i.Signed {
		return (int64(1) << (uint(i.Width) - 1)) - 1
	}
	return (int64(1) << uint(i.Width)) - 1
}

// FloatType represents an IEEE-754-ish floating point type of a specific
// bit width: Float32, Float64, Float128.
type FloatType struct {
	Width int // 32, 64, or 128
}

func (f *FloatType) String() string         { return fmt.Sprintf("Float%d", f.Width) }
func (f *FloatType) Equals(other Type) bool {
	o, ok := other.(*FloatType)
	return ok && o.Width == f.Width
}
func (f *FloatType) AssignableTo(other Type) bool { return f.Equals(other) }
func (f *FloatType) kind() TypeKind                { return KindFloat }

// NeverType represents the bottom type of a diverging expression (a
// function call that never returns, or the arm of a match that panics).
// Never is assignable to every type, since control flow never actually
// reaches the use site — this is what lets the semantic analyzer suppress
// downstream diagnostics once a Never value has been produced.
type NeverType struct{}

func (n *NeverType) String() string             { return "Never" }
func (n *NeverType) Equals(other Type) bool     { _, ok := other.(*NeverType); return ok }
func (n *NeverType) AssignableTo(other Type) bool { return true }
func (n *NeverType) kind() TypeKind               { return KindNever }

// ReferenceType represents a borrowed place: &T (shared) or &mut T
// (exclusive). Equality and assignability require matching mutability as
// well as a matching referent type.
type ReferenceType struct {
	Referent  Type
	IsMutable bool
}

func (r *ReferenceType) String() string {
	if r.IsMutable {
		return "&mut " + r.Referent.String()
	}
	return "&" + r.Referent.String()
}
func (r *ReferenceType) Equals(other Type) bool {
	o, ok := other.(*ReferenceType)
	return ok && o.IsMutable == r.IsMutable && o.Referent.Equals(r.Referent)
}
func (r *ReferenceType) AssignableTo(other Type) bool { return r.Equals(other) }
func (r *ReferenceType) kind() TypeKind                { return KindReference }

// TupleType represents a fixed-arity heterogeneous product type: (T1, T2, ...).
type TupleType struct {
	Elements []Type
}

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		parts[i] = el.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *TupleType) Equals(other Type) bool {
	o, ok := other.(*TupleType)
	if !ok || len(o.Elements) != len(t.Elements) {
		return false
	}
	for i, el := range t.Elements {
		if !el.Equals(o.Elements[i]) {
			return false
		}
	}
	return true
}
func (t *TupleType) AssignableTo(other Type) bool { return t.Equals(other) }
func (t *TupleType) kind() TypeKind                { return KindTuple }

// SliceType represents a dynamically-sized, owning contiguous sequence: []T.
// Kept distinct from ArrayType (fixed-size, spec §3) since they have
// different ownership and layout implications downstream in the IR.
type SliceType struct {
	ElementType Type
}

func (s *SliceType) String() string           { return "[]" + s.ElementType.String() }
func (s *SliceType) Equals(other Type) bool {
	o, ok := other.(*SliceType)
	return ok && o.ElementType.Equals(s.ElementType)
}
func (s *SliceType) AssignableTo(other Type) bool { return s.Equals(other) }
func (s *SliceType) kind() TypeKind                { return KindSlice }

// OptionType represents Option<T>: either Some(T) or None.
type OptionType struct {
	Inner Type
}

func (o *OptionType) String() string { return "Option<" + o.Inner.String() + ">" }
func (o *OptionType) Equals(other Type) bool {
	c, ok := other.(*OptionType)
	return ok && c.Inner.Equals(o.Inner)
}
func (o *OptionType) AssignableTo(other Type) bool { return o.Equals(other) }
func (o *OptionType) kind() TypeKind                 { return KindOption }

// ResultType represents Result<T, E>: either Ok(T) or Err(E).
type ResultType struct {
	OkType  Type
	ErrType Type
}

func (r *ResultType) String() string {
	return "Result<" + r.OkType.String() + ", " + r.ErrType.String() + ">"
}
func (r *ResultType) Equals(other Type) bool {
	o, ok := other.(*ResultType)
	return ok && o.OkType.Equals(r.OkType) && o.ErrType.Equals(r.ErrType)
}
func (r *ResultType) AssignableTo(other Type) bool { return r.Equals(other) }
func (r *ResultType) kind() TypeKind                 { return KindResult }

// GenericParamType stands in for an unresolved generic type parameter
// inside a generic function or struct body, before monomorphization
// substitutes it with a concrete type. Two generic params are equal only
// if they're the same declared parameter (compared by name, since each
// generic scope declares its own).
type GenericParamType struct {
	Name   string
	Bounds []string // trait names this parameter is bound by
}

func (g *GenericParamType) String() string           { return g.Name }
func (g *GenericParamType) Equals(other Type) bool {
	o, ok := other.(*GenericParamType)
	return ok && o.Name == g.Name
}
func (g *GenericParamType) AssignableTo(other Type) bool { return g.Equals(other) }
func (g *GenericParamType) kind() TypeKind                 { return KindGenericParam }

// EnumType represents an algebraic data type: a closed set of named
// variants, each optionally carrying a tuple of fields.
type EnumType struct {
	Name     string
	Variants []EnumVariant
}

// EnumVariant is one tag of an EnumType.
type EnumVariant struct {
	Name   string
	Fields []Type // empty for a unit variant
}

func (e *EnumType) String() string { return e.Name }
func (e *EnumType) Equals(other Type) bool {
	o, ok := other.(*EnumType)
	return ok && o.Name == e.Name
}
func (e *EnumType) AssignableTo(other Type) bool { return e.Equals(other) }
func (e *EnumType) kind() TypeKind                 { return KindEnum }

// LookupVariant finds a variant by name, or returns nil.
func (e *EnumType) LookupVariant(name string) *EnumVariant {
	for i := range e.Variants {
		if e.Variants[i].Name == name {
			return &e.Variants[i]
		}
	}
	return nil
}

// BoolType represents boolean type
type BoolType struct{}

func (b *BoolType) String() string           { return "bool" }
func (b *BoolType) Equals(other Type) bool   { _, ok := other.(*BoolType); return ok }
func (b *BoolType) AssignableTo(other Type) bool { return b.Equals(other) }
func (b *BoolType) kind() TypeKind            { return KindBool }

// StringType represents string type
type StringType struct{}

func (s *StringType) String() string           { return "string" }
func (s *StringType) Equals(other Type) bool   { _, ok := other.(*StringType); return ok }
func (s *StringType) AssignableTo(other Type) bool { return s.Equals(other) }
func (s *StringType) kind() TypeKind            { return KindString }

// CharType represents character type
type CharType struct{}

func (c *CharType) String() string           { return "char" }
func (c *CharType) Equals(other Type) bool   { _, ok := other.(*CharType); return ok }
func (c *CharType) AssignableTo(other Type) bool { return c.Equals(other) }
func (c *CharType) kind() TypeKind            { return KindChar }

// NilType represents the type of the nil literal
//
// DESIGN CHOICE: Separate type for nil because:
// - nil is assignable to many types (pointers, arrays, etc.)
// - Makes type checking clearer
// - Matches languages like Go, Java
type NilType struct{}

func (n *NilType) String() string           { return "nil" }
func (n *NilType) Equals(other Type) bool   { _, ok := other.(*NilType); return ok }
func (n *NilType) AssignableTo(other Type) bool {
	// nil is assignable to arrays and structs (nullable types)
	switch other.(type) {
	case *ArrayType, *StructType:
		return true
	default:
		return false
	}
}
func (n *NilType) kind() TypeKind { return KindNil }

// Composite types

// ArrayType represents a fixed-size array type: [N]T
//
// Size -1 renders as []T, but the analyzer types []T as SliceType and
// only builds ArrayType with a known size.
type ArrayType struct {
	ElementType Type
	Size        int // -1 for dynamic arrays (slices)
}

func (a *ArrayType) String() string {
	if a.Size < 0 {
		return "[]" + a.ElementType.String()
	}
	return fmt.Sprintf("[%d]%s", a.Size, a.ElementType.String())
}

func (a *ArrayType) Equals(other Type) bool {
	if otherArray, ok := other.(*ArrayType); ok {
		return a.Size == otherArray.Size &&
			a.ElementType.Equals(otherArray.ElementType)
	}
	return false
}

func (a *ArrayType) AssignableTo(other Type) bool {
	return a.Equals(other)
}

func (a *ArrayType) kind() TypeKind {
	return KindArray
}

// StructType represents a struct type
//
// DESIGN CHOICE: Store fields as a slice rather than a map because:
// - Preserves field order (important for memory layout)
// - Simpler to iterate over
// - Field lookup is done via symbol table, not here
//
// NOMINAL TYPING: Structs are equal only if they're the same struct.
// struct Point {x int; y int} != struct {x int; y int}
// This is because:
// - Clearer semantics (explicit type names required)
// - Better error messages ("expected Point, got Position")
// - Matches Go, Java, C++
type StructType struct {
	Name   string
	Fields []StructField
}

// StructField represents a field in a struct
type StructField struct {
	Name string
	Type Type
}

func (s *StructType) String() string {
	if s.Name != "" {
		return "struct " + s.Name
	}
	// Anonymous struct
	parts := make([]string, len(s.Fields))
	for i, field := range s.Fields {
		parts[i] = field.Name + " " + field.Type.String()
	}
	return "struct {" + strings.Join(parts, "; ") + "}"
}

func (s *StructType) Equals(other Type) bool {
	if otherStruct, ok := other.(*StructType); ok {
		// Named structs: compare by name (nominal typing)
		if s.Name != "" && otherStruct.Name != "" {
			return s.Name == otherStruct.Name
		}
		// Anonymous structs: compare structurally
		if len(s.Fields) != len(otherStruct.Fields) {
			return false
		}
		for i, field := range s.Fields {
			otherField := otherStruct.Fields[i]
			if field.Name != otherField.Name || !field.Type.Equals(otherField.Type) {
				return false
			}
		}
		return true
	}
	return false
}

func (s *StructType) AssignableTo(other Type) bool {
	return s.Equals(other)
}

func (s *StructType) kind() TypeKind {
	return KindStruct
}

// LookupField finds a field by name
// Returns nil if not found
func (s *StructType) LookupField(name string) *StructField {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// FunctionType represents a function type
//
// STRUCTURAL TYPING: Functions are equal if they have the same signature.
// func(int, int) int == func(int, int) int
// This is because:
// - Functions are values (can be passed around)
// - Names don't matter (func foo(a int) vs func bar(x int))
// - Matches how most languages handle function types
type FunctionType struct {
	Parameters []Type
	ReturnType Type
}

func (f *FunctionType) String() string {
	params := make([]string, len(f.Parameters))
	for i, param := range f.Parameters {
		params[i] = param.String()
	}
	returnStr := f.ReturnType.String()
	return fmt.Sprintf("func(%s) %s", strings.Join(params, ", "), returnStr)
}

func (f *FunctionType) Equals(other Type) bool {
	if otherFunc, ok := other.(*FunctionType); ok {
		// Check return type
		if !f.ReturnType.Equals(otherFunc.ReturnType) {
			return false
		}
		// Check parameters
		if len(f.Parameters) != len(otherFunc.Parameters) {
			return false
		}
		for i, param := range f.Parameters {
			if !param.Equals(otherFunc.Parameters[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (f *FunctionType) AssignableTo(other Type) bool {
	return f.Equals(other)
}

func (f *FunctionType) kind() TypeKind {
	return KindFunction
}

// Predefined type instances (singletons)
// These are used throughout the compiler to avoid allocating new type instances
var (
	Invalid = &InvalidType{}
	Void    = &VoidType{}
	Bool    = &BoolType{}
	String  = &StringType{}
	Char    = &CharType{}
	Nil     = &NilType{}
	Never   = &NeverType{}

	Int8    = &IntType{Width: 8, Signed: true}
	Int16   = &IntType{Width: 16, Signed: true}
	Int32   = &IntType{Width: 32, Signed: true}
	Int64   = &IntType{Width: 64, Signed: true}
	Int128  = &IntType{Width: 128, Signed: true}
	UInt8   = &IntType{Width: 8, Signed: false}
	UInt16  = &IntType{Width: 16, Signed: false}
	UInt32  = &IntType{Width: 32, Signed: false}
	UInt64  = &IntType{Width: 64, Signed: false}
	UInt128 = &IntType{Width: 128, Signed: false}

	Float32  = &FloatType{Width: 32}
	Float64  = &FloatType{Width: 64}
	Float128 = &FloatType{Width: 128}

	// Int and Float are the default widths the resolver assigns to an
	// un-annotated integer/float literal, matching the teacher's
	// single-width original behavior.
	Int   = Int64
	Float = Float64
)

// Helper functions

// IsNumeric returns true if the type is numeric (int or float)
func IsNumeric(t Type) bool {
	switch t.(type) {
	case *IntType, *FloatType:
		return true
	default:
		return false
	}
}

// IsComparable returns true if values of this type can be compared with ==, !=
func IsComparable(t Type) bool {
	switch t.(type) {
	case *IntType, *FloatType, *BoolType, *StringType, *CharType:
		return true
	default:
		return false
	}
}

// IsOrdered returns true if values of this type can be compared with <, <=, >, >=
func IsOrdered(t Type) bool {
	switch t.(type) {
	case *IntType, *FloatType, *StringType, *CharType:
		return true
	default:
		return false
	}
}

// IsBooleanType returns true if the type is boolean
func IsBooleanType(t Type) bool {
	_, ok := t.(*BoolType)
	return ok
}

// IsIntegerType returns true if the type is integer
func IsIntegerType(t Type) bool {
	_, ok := t.(*IntType)
	return ok
}

// NewArray creates a new array type
func NewArray(elementType Type, size int) *ArrayType {
	return &ArrayType{
		ElementType: elementType,
		Size:        size,
	}
}

// NewStruct creates a new struct type
func NewStruct(name string, fields []StructField) *StructType {
	return &StructType{
		Name:   name,
		Fields: fields,
	}
}

// NewFunction creates a new function type
func NewFunction(parameters []Type, returnType Type) *FunctionType {
	return &FunctionType{
		Parameters: parameters,
		ReturnType: returnType,
	}
}

// NewReference creates a new reference type.
func NewReference(referent Type, isMutable bool) *ReferenceType {
	return &ReferenceType{Referent: referent, IsMutable: isMutable}
}

// NewTuple creates a new tuple type.
func NewTuple(elements []Type) *TupleType {
	return &TupleType{Elements: elements}
}

// NewSlice creates a new slice type.
func NewSlice(elementType Type) *SliceType {
	return &SliceType{ElementType: elementType}
}

// NewOption creates a new Option<T> type.
func NewOption(inner Type) *OptionType {
	return &OptionType{Inner: inner}
}

// NewResult creates a new Result<T, E> type.
func NewResult(ok, err Type) *ResultType {
	return &ResultType{OkType: ok, ErrType: err}
}

// NewEnum creates a new enum type.
func NewEnum(name string, variants []EnumVariant) *EnumType {
	return &EnumType{Name: name, Variants: variants}
}

// IsNeverType reports whether t is the bottom/diverging type.
func IsNeverType(t Type) bool {
	_, ok := t.(*NeverType)
	return ok
}

// Interner deduplicates structurally-equal composite types (references,
// tuples, slices, options, results) so that repeated uses of the same
// shape — e.g. two parameters both typed `&mut Int32` — share a single
// *Type instance. The analyzer and monomorphizer do not use it; they
// compare types with Equals.
//
// DESIGN CHOICE: keyed by String() rather than a structural hash. Types
// whose String() forms coincide share one entry: a dynamic ArrayType and
// a SliceType of the same element, or an EnumType and a GenericParamType
// of the same name.
type Interner struct {
	cache map[string]Type
}

// NewInterner creates an empty type interner.
func NewInterner() *Interner {
	return &Interner{cache: make(map[string]Type)}
}

// Intern returns a canonical instance for t: the first-seen instance with
// this String() representation.
func (in *Interner) Intern(t Type) Type {
	key := t.String()
	if existing, ok := in.cache[key]; ok {
		return existing
	}
	in.cache[key] = t
	return t
}
