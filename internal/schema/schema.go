// Package schema describes the typed, named, scaled dimensions that a GHT
// tree's points carry. A Schema is built once by the caller (typically from
// a point-cloud schema document the core does not parse) and shared by
// reference among every Tree, Node, and Attribute that uses it.
package schema

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ScalarType is the packed wire type of a dimension's value.
type ScalarType uint8

// Scalar types supported for packed attribute values, in ascending size.
const (
	Int8 ScalarType = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
)

// sameEpsilon is the tolerance used when comparing scale/offset for
// dimension equality.
const sameEpsilon = 1e-8

// Size returns the number of bytes a value of this type occupies on the
// wire and in an Attribute's packed representation.
func (t ScalarType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// String renders the scalar type name, matching the dimension interpretation
// names a schema document would use (uint16_t, double, ...).
func (t ScalarType) String() string {
	switch t {
	case Int8:
		return "int8_t"
	case Uint8:
		return "uint8_t"
	case Int16:
		return "int16_t"
	case Uint16:
		return "uint16_t"
	case Int32:
		return "int32_t"
	case Uint32:
		return "uint32_t"
	case Int64:
		return "int64_t"
	case Uint64:
		return "uint64_t"
	case Float32:
		return "float"
	case Float64:
		return "double"
	default:
		return "unknown"
	}
}

// Dimension is a single typed, named, scaled/offset-packed field that a
// point may carry. Two dimensions owned by different schemas can still
// refer to "the same" dimension per Equal; in practice, only the pointer
// identity of a Dimension owned by a single Schema is used for attribute
// chain lookups, since an attribute chain always references the
// Dimension it was built against rather than copying it.
type Dimension struct {
	Position    uint8      `validate:"gte=0"`
	Name        string     `validate:"required"`
	Description string
	Type        ScalarType
	Scale       float64 `validate:"required"`
	Offset      float64
}

// Equal reports whether d and other describe "the same" dimension: matching
// position, name, and type, with scale/offset equal within ε.
func (d Dimension) Equal(other Dimension) bool {
	if d.Position != other.Position || d.Type != other.Type {
		return false
	}
	if !strings.EqualFold(d.Name, other.Name) {
		return false
	}
	return absF(d.Scale-other.Scale) < sameEpsilon && absF(d.Offset-other.Offset) < sameEpsilon
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ErrDimensionNotFound indicates a schema lookup by name or index failed.
type ErrDimensionNotFound struct {
	Query string
}

func (e *ErrDimensionNotFound) Error() string {
	return fmt.Sprintf("schema: dimension not found: %s", e.Query)
}

// ErrDuplicateDimension indicates a schema was built with two dimensions
// sharing a name.
type ErrDuplicateDimension struct {
	Name string
}

func (e *ErrDuplicateDimension) Error() string {
	return fmt.Sprintf("schema: duplicate dimension name: %s", e.Name)
}

// Schema is an ordered, name-unique list of Dimensions. The first two
// dimensions are conventionally X and Y (encoded in the hash, not packed as
// attributes); Z is conventionally index 2, though nothing in this package
// enforces that convention.
type Schema struct {
	dims   []Dimension
	byName map[string]int
}

// New builds a Schema from an ordered dimension list. Dimension.Position
// must equal its 0-based index, and names must be unique
// (case-insensitively) — both invariants are validated here.
func New(dims []Dimension) (*Schema, error) {
	s := &Schema{
		dims:   make([]Dimension, len(dims)),
		byName: make(map[string]int, len(dims)),
	}
	for i, d := range dims {
		if err := validate.Struct(d); err != nil {
			return nil, fmt.Errorf("schema: dimension %d invalid: %w", i, err)
		}
		if int(d.Position) != i {
			return nil, fmt.Errorf("schema: dimension %q has position %d, expected %d", d.Name, d.Position, i)
		}
		key := strings.ToLower(d.Name)
		if _, exists := s.byName[key]; exists {
			return nil, &ErrDuplicateDimension{Name: d.Name}
		}
		s.dims[i] = d
		s.byName[key] = i
	}
	return s, nil
}

// NumDims returns the number of dimensions in the schema.
func (s *Schema) NumDims() int {
	return len(s.dims)
}

// Dimension returns the dimension at the given 0-based index.
func (s *Schema) Dimension(index int) (*Dimension, error) {
	if index < 0 || index >= len(s.dims) {
		return nil, &ErrDimensionNotFound{Query: fmt.Sprintf("index %d out of range [0,%d)", index, len(s.dims))}
	}
	return &s.dims[index], nil
}

// DimensionByName looks up a dimension by case-insensitive name.
func (s *Schema) DimensionByName(name string) (*Dimension, error) {
	idx, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return nil, &ErrDimensionNotFound{Query: name}
	}
	return &s.dims[idx], nil
}

// Dimensions returns the full ordered dimension list. The returned slice
// shares storage with the schema and must not be mutated by callers.
func (s *Schema) Dimensions() []Dimension {
	return s.dims
}

// Equal reports whether two schemas describe the same ordered dimension
// list per Dimension.Equal.
func (s *Schema) Equal(other *Schema) bool {
	if other == nil || len(s.dims) != len(other.dims) {
		return false
	}
	for i := range s.dims {
		if !s.dims[i].Equal(other.dims[i]) {
			return false
		}
	}
	return true
}
