package bind

import (
	"errors"
	"reflect"
	"testing"
)

func TestSignatureOf(t *testing.T) {
	tests := []struct {
		name     string
		fn       any
		skip     int
		params   int
		ret      reflect.Type
		fallible bool
		wantErr  bool
	}{
		{name: "void", fn: func(int) {}, params: 1},
		{name: "single result", fn: func(a, b int) string { return "" }, params: 2, ret: reflect.TypeFor[string]()},
		{name: "error only", fn: func() error { return nil }, fallible: true},
		{name: "value and error", fn: func() (int, error) { return 0, nil }, ret: reflect.TypeFor[int](), fallible: true},
		{name: "receiver skipped", fn: (*vec).Scale, skip: 1, params: 1},
		{name: "two values", fn: func() (int, int) { return 0, 0 }, wantErr: true},
		{name: "variadic", fn: func(...int) {}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := signatureOf(reflect.TypeOf(tt.fn), tt.skip)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBinding) {
					t.Fatalf("err = %v, want ErrInvalidBinding", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("signatureOf: %v", err)
			}
			if sig.Arity() != tt.params || sig.Return != tt.ret || sig.Fallible != tt.fallible {
				t.Errorf("got %s", sig)
			}
			if sig.IsMember() != (tt.skip == 1) {
				t.Errorf("IsMember = %v", sig.IsMember())
			}
		})
	}
}

func TestSignatureIDs(t *testing.T) {
	sig := NewSignature(nil, vecPtrType, f64Type)
	ids := sig.IDs()
	want := []TypeID{VoidID, TypeIDOf(vecPtrType), TypeIDOf(f64Type)}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("IDs = %v, want %v", ids, want)
	}
	if sig.String() != "(*bind.vec, float64) void" {
		t.Errorf("String = %q", sig.String())
	}
	if !sig.Equal(NewSignature(nil, vecPtrType, f64Type)) {
		t.Error("identical signatures should be equal")
	}
	if sig.Equal(MethodSignature(vecPtrType, nil, f64Type)) {
		t.Error("member and free signatures should differ")
	}
}

func TestTypeIDOf(t *testing.T) {
	if TypeIDOf(nil) != VoidID {
		t.Error("nil type should be void")
	}
	if TypeIDOf(vecType) == TypeIDOf(vecPtrType) {
		t.Error("T and *T should differ")
	}
	if TypeIDOf(vecType) != TypeIDOf(reflect.TypeOf(vec{})) {
		t.Error("identity should be stable")
	}
	if got := qualifiedTypeName(reflect.TypeFor[map[string][]*vec]()); got != "map[string][]*github.com/chazu/gobind/bind.vec" {
		t.Errorf("qualified name = %q", got)
	}
}
