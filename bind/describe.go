package bind

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// TypeDescriptor is a serializable snapshot of a DataType, for dispatchers
// and tools living outside the process that did the binding.
type TypeDescriptor struct {
	Name       string               `cbor:"name"`
	ID         uint64               `cbor:"id"`
	Size       uint64               `cbor:"size"`
	Primitive  bool                 `cbor:"primitive,omitempty"`
	Destructor bool                 `cbor:"dtor,omitempty"`
	Properties []PropertyDescriptor `cbor:"props,omitempty"`
}

// PropertyDescriptor is the serializable form of a Property.
type PropertyDescriptor struct {
	Name      string   `cbor:"name"`
	Flags     uint16   `cbor:"flags"`
	Kind      string   `cbor:"kind"`
	Doc       string   `cbor:"doc,omitempty"`
	Type      uint64   `cbor:"type,omitempty"`
	Offset    uint64   `cbor:"offset,omitempty"`
	Signature []uint64 `cbor:"sig,omitempty"`
	This      uint64   `cbor:"this,omitempty"`
	Fallible  bool     `cbor:"fallible,omitempty"`
	Policy    string   `cbor:"policy,omitempty"`
}

var descEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bind: failed to create CBOR enc mode: %v", err))
	}
	descEncMode = em
}

// Describe snapshots every registered type, sorted by qualified name.
// Static addresses are process-local and are not included.
func (r *Registry) Describe() []TypeDescriptor {
	types := r.Types()
	out := make([]TypeDescriptor, 0, len(types))
	for _, dt := range types {
		out = append(out, describeType(dt))
	}
	return out
}

func describeType(dt *DataType) TypeDescriptor {
	td := TypeDescriptor{
		Name:       dt.FullName(),
		ID:         uint64(dt.ID()),
		Size:       uint64(dt.Size()),
		Primitive:  dt.IsPrimitive(),
		Destructor: dt.HasDestructor(),
	}
	for _, name := range dt.order {
		for _, p := range dt.props[name] {
			td.Properties = append(td.Properties, describeProperty(p))
		}
	}
	return td
}

func describeProperty(p *Property) PropertyDescriptor {
	pd := PropertyDescriptor{
		Name:  p.Name,
		Flags: uint16(p.Flags),
		Kind:  p.kind.String(),
		Doc:   p.Doc,
	}
	if p.Type != nil {
		pd.Type = uint64(p.Type.ID())
	}
	switch p.kind {
	case KindOffset:
		pd.Offset = uint64(p.Offset)
	case KindFunction:
		for _, id := range p.Signature.IDs() {
			pd.Signature = append(pd.Signature, uint64(id))
		}
		pd.This = uint64(TypeIDOf(p.Signature.This))
		pd.Fallible = p.Signature.Fallible
		pd.Policy = p.Func.CallHandler().Policy().String()
	}
	return pd
}

// MarshalDescriptors encodes descriptors as canonical CBOR.
func MarshalDescriptors(ds []TypeDescriptor) ([]byte, error) {
	return descEncMode.Marshal(ds)
}

// UnmarshalDescriptors decodes descriptors produced by MarshalDescriptors.
func UnmarshalDescriptors(data []byte) ([]TypeDescriptor, error) {
	var ds []TypeDescriptor
	if err := cbor.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("bind: unmarshal descriptors: %w", err)
	}
	return ds, nil
}
