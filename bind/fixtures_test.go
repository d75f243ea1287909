package bind

import (
	"fmt"
	"math"
	"testing"
)

type vec struct {
	X, Y float64
	Tag  string
}

func newVec(x, y float64) vec { return vec{X: x, Y: y} }

func newVecChecked(x, y float64) (*vec, error) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return nil, fmt.Errorf("NaN component")
	}
	return &vec{X: x, Y: y}, nil
}

func (v vec) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v *vec) Scale(f float64)     { v.X *= f; v.Y *= f }
func (v vec) Add(o vec) vec        { return vec{X: v.X + o.X, Y: v.Y + o.Y} }
func (v *vec) Plus(o vec) vec      { return v.Add(o) }
func (v vec) Equal(o vec) bool     { return v.X == o.X && v.Y == o.Y }
func (v vec) Neg() vec             { return vec{X: -v.X, Y: -v.Y} }
func (v vec) String() string       { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }
func addVec(v *vec, o vec) vec     { return v.Add(o) }
func dot(v *vec, o vec) float64    { return v.X*o.X + v.Y*o.Y }
func vecToArray(v *vec) [2]float64 { return [2]float64{v.X, v.Y} }

var unitLength = 1.0

type counter struct {
	N int32
}

func (c *counter) Inc() *counter { c.N++; return c }
func (c *counter) Dec() *counter { c.N--; return c }

func (c *counter) PostInc() counter {
	old := *c
	c.N++
	return old
}

func (c *counter) PostDec(int32) counter {
	old := *c
	c.N--
	return old
}

var closedCount int

func (c *counter) Close() error {
	closedCount++
	return nil
}

type inner struct {
	A int
	B float64
}

type outer struct {
	Name string
	inner
	P *inner
}

type unregistered struct{ V int }

type holder struct {
	U unregistered
}

func newTestBuilder[C any](t *testing.T, r *Registry, name string) *ObjectTypeBuilder[C] {
	t.Helper()
	b, err := NewObjectTypeBuilder[C](r, name, r.Root().Child("Test"))
	if err != nil {
		t.Fatalf("NewObjectTypeBuilder(%s): %v", name, err)
	}
	return b
}

type viaPtr struct {
	*inner
}
