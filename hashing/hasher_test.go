package hashing_test

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tailored-agentic-units/multikey/hashing"
)

type record struct {
	ID   int
	Name string
}

func sha1Hex(data string) string {
	sum := sha1.Sum([]byte(data))
	return hex.EncodeToString(sum[:])
}

func TestDigest_KnownValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
		alg   hashing.Algorithm
		want  string
	}{
		{name: "sha1 string", value: "hello", alg: hashing.SHA1, want: "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"},
		{name: "sha1 bytes", value: []byte("hello"), alg: hashing.SHA1, want: "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"},
		{name: "sha256 string", value: "hello", alg: hashing.SHA256, want: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{name: "xxhash64 string", value: "hello", alg: hashing.XXHash64, want: fmt.Sprintf("%016x", xxhash.Sum64String("hello"))},
		{name: "integer", value: 42, alg: hashing.SHA1, want: sha1Hex("int(42)")},
		{name: "nil", value: nil, alg: hashing.SHA1, want: sha1Hex("null")},
		{name: "map with sorted keys", value: map[string]int{"b": 2, "a": 1}, alg: hashing.SHA1, want: sha1Hex(`map[string]int{string("a"):int(1),string("b"):int(2)}`)},
		{name: "slice", value: []any{1, "x", true}, alg: hashing.SHA1, want: sha1Hex(`[]interface {}[int(1),string("x"),bool(true)]`)},
	}

	h := hashing.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.DigestWith(tt.value, tt.alg)
			if err != nil {
				t.Fatalf("DigestWith() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DigestWith(%v, %s) = %q, want %q", tt.value, tt.alg, got, tt.want)
			}
		})
	}
}

type point struct {
	x, y int
}

type label string

type tagged struct {
	Name   string
	secret []byte
	meta   map[string]any
	Skip   int `json:"-"`
}

func TestDigest_DistinctContent(t *testing.T) {
	tests := []struct {
		name string
		a, b any
	}{
		{name: "unexported fields", a: point{1, 2}, b: point{3, 4}},
		{name: "swapped fields", a: point{1, 2}, b: point{2, 1}},
		{name: "unexported bytes", a: tagged{Name: "n", secret: []byte("a")}, b: tagged{Name: "n", secret: []byte("b")}},
		{name: "unexported map", a: tagged{meta: map[string]any{"k": 1}}, b: tagged{meta: map[string]any{"k": 2}}},
		{name: "json ignored field", a: tagged{Skip: 1}, b: tagged{Skip: 2}},
		{name: "same shape different types", a: point{1, 2}, b: struct{ x, y int }{1, 2}},
		{name: "integer widths", a: int32(1), b: int64(1)},
		{name: "named string", a: []any{"x"}, b: []any{label("x")}},
		{name: "integer and float", a: []any{1}, b: []any{1.0}},
		{name: "nil and empty slice", a: []int(nil), b: []int{}},
		{name: "string boundaries", a: []string{"ab", "c"}, b: []string{"a", "bc"}},
		{name: "array and slice", a: [2]int{1, 2}, b: []int{1, 2}},
	}

	h := hashing.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			da, err := h.Digest(tt.a)
			if err != nil {
				t.Fatalf("Digest(%#v) error = %v", tt.a, err)
			}
			db, err := h.Digest(tt.b)
			if err != nil {
				t.Fatalf("Digest(%#v) error = %v", tt.b, err)
			}
			if da == db {
				t.Errorf("Digest(%#v) == Digest(%#v) = %q, want distinct", tt.a, tt.b, da)
			}
		})
	}
}

func TestDigest_EqualContent(t *testing.T) {
	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b any
	}{
		{name: "unexported fields", a: point{1, 2}, b: point{1, 2}},
		{name: "map insertion order", a: map[int]string{1: "a", 2: "b", 3: "c"}, b: map[int]string{3: "c", 1: "a", 2: "b"}},
		{name: "nested unexported map", a: tagged{meta: map[string]any{"a": 1, "b": []int{2}}}, b: tagged{meta: map[string]any{"b": []int{2}, "a": 1}}},
		{name: "json marshaler", a: when, b: when.In(time.FixedZone("UTC+0", 0))},
	}

	h := hashing.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			da, err := h.Digest(tt.a)
			if err != nil {
				t.Fatalf("Digest(%#v) error = %v", tt.a, err)
			}
			db, err := h.Digest(tt.b)
			if err != nil {
				t.Fatalf("Digest(%#v) error = %v", tt.b, err)
			}
			if da != db {
				t.Errorf("Digest(%#v) = %q, Digest(%#v) = %q, want equal", tt.a, da, tt.b, db)
			}
		})
	}
}

func TestDigest_NestedReferences(t *testing.T) {
	h := hashing.New()
	shared := &record{ID: 1}

	type holder struct{ ref *record }

	d1, err := h.Digest(holder{ref: shared})
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	d2, err := h.Digest(holder{ref: shared})
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	d3, err := h.Digest(holder{ref: &record{ID: 1}})
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}

	if d1 != d2 {
		t.Errorf("same nested reference produced %q then %q", d1, d2)
	}
	if d1 == d3 {
		t.Error("distinct nested references produced the same digest")
	}

	m1, err := h.Digest([]any{wrapperspb.String("a")})
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	m2, err := h.Digest([]any{wrapperspb.String("a")})
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	if m1 != m2 {
		t.Errorf("nested equal messages produced %q and %q, want equal", m1, m2)
	}
}

func TestDigest_SelfReferenceIsUnhashable(t *testing.T) {
	loop := []any{nil}
	loop[0] = loop

	_, err := hashing.New().Digest(loop)
	if !errors.Is(err, hashing.ErrUnhashable) {
		t.Errorf("Digest() error = %v, want %v", err, hashing.ErrUnhashable)
	}
}

func TestDigest_DefaultAlgorithm(t *testing.T) {
	h := hashing.New()

	if h.Algorithm() != hashing.SHA1 {
		t.Errorf("Algorithm() = %q, want %q", h.Algorithm(), hashing.SHA1)
	}

	got, err := h.Digest("hello")
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	if len(got) != 40 {
		t.Errorf("Digest() length = %d, want 40", len(got))
	}
}

func TestDigest_WithAlgorithm(t *testing.T) {
	h := hashing.New(hashing.WithAlgorithm(hashing.SHA256))

	got, err := h.Digest("hello")
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("Digest() = %q, want %q", got, want)
	}
}

func TestDigest_UnsupportedAlgorithm(t *testing.T) {
	h := hashing.New(hashing.WithAlgorithm("md4"))

	_, err := h.Digest("hello")
	if !errors.Is(err, hashing.ErrUnsupportedAlgorithm) {
		t.Errorf("Digest() error = %v, want %v", err, hashing.ErrUnsupportedAlgorithm)
	}
	if !errors.Is(err, hashing.ErrInvalidArgument) {
		t.Errorf("Digest() error = %v, want wrapped %v", err, hashing.ErrInvalidArgument)
	}
}

func TestDigest_RegisteredAlgorithm(t *testing.T) {
	h := hashing.New(
		hashing.WithRegisteredAlgorithm("md5", md5.New),
		hashing.WithAlgorithm("md5"),
	)

	if !h.Supports("md5") {
		t.Fatal("Supports(md5) = false, want true")
	}

	got, err := h.Digest("hello")
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	if got != "5d41402abc4b2a76b9719d911017c592" {
		t.Errorf("Digest() = %q, want md5 of hello", got)
	}

	if hashing.New().Supports("md5") {
		t.Error("registration leaked into another Hasher")
	}
}

func TestDigest_Unhashable(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "function field", value: struct{ F func() }{F: func() {}}},
		{name: "unexported function field", value: struct{ f func() }{}},
		{name: "NaN", value: math.NaN()},
		{name: "nested NaN", value: map[string]float64{"x": math.NaN()}},
		{name: "bare function", value: func() {}},
	}

	h := hashing.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Digest(tt.value)
			if !errors.Is(err, hashing.ErrUnhashable) {
				t.Errorf("Digest() error = %v, want %v", err, hashing.ErrUnhashable)
			}
		})
	}
}

func TestDigest_ProtoMessages(t *testing.T) {
	h := hashing.New()

	first, err := structpb.NewStruct(map[string]any{"name": "a", "size": 3, "tags": []any{"x", "y"}})
	if err != nil {
		t.Fatalf("NewStruct() error = %v", err)
	}
	second, err := structpb.NewStruct(map[string]any{"tags": []any{"x", "y"}, "size": 3, "name": "a"})
	if err != nil {
		t.Fatalf("NewStruct() error = %v", err)
	}

	d1, err := h.Digest(first)
	if err != nil {
		t.Fatalf("Digest(first) error = %v", err)
	}
	d2, err := h.Digest(second)
	if err != nil {
		t.Fatalf("Digest(second) error = %v", err)
	}
	if d1 != d2 {
		t.Errorf("equal messages produced different digests: %q vs %q", d1, d2)
	}

	d3, err := h.Digest(wrapperspb.String("a"))
	if err != nil {
		t.Fatalf("Digest(wrapper) error = %v", err)
	}
	d4, err := h.Digest(wrapperspb.String("b"))
	if err != nil {
		t.Fatalf("Digest(wrapper) error = %v", err)
	}
	if d3 == d4 {
		t.Error("different messages produced the same digest")
	}
}

func TestDigest_PointerIdentity(t *testing.T) {
	h := hashing.New()

	a := &record{ID: 1}
	b := &record{ID: 1}

	da1, err := h.Digest(a)
	if err != nil {
		t.Fatalf("Digest(a) error = %v", err)
	}
	da2, err := h.Digest(a)
	if err != nil {
		t.Fatalf("Digest(a) error = %v", err)
	}
	db, err := h.Digest(b)
	if err != nil {
		t.Fatalf("Digest(b) error = %v", err)
	}

	if da1 != da2 {
		t.Errorf("same identity produced %q then %q", da1, da2)
	}
	if da1 == db {
		t.Error("distinct identities with equal content produced the same digest")
	}

	a.Name = "mutated"
	da3, err := h.Digest(a)
	if err != nil {
		t.Fatalf("Digest(a) error = %v", err)
	}
	if da3 != da1 {
		t.Error("identity digest changed after mutating the referenced value")
	}

	other, err := hashing.New().Digest(a)
	if err != nil {
		t.Fatalf("Digest(a) error = %v", err)
	}
	if other == da1 {
		t.Error("identity digest shared across Hasher sessions")
	}
}

func TestDigestObject(t *testing.T) {
	h := hashing.New()
	ch := make(chan int)
	var nilRecord *record

	tests := []struct {
		name    string
		value   any
		wantErr error
	}{
		{name: "pointer", value: &record{ID: 1}},
		{name: "channel", value: ch},
		{name: "integer", value: 5, wantErr: hashing.ErrNotObject},
		{name: "struct value", value: record{}, wantErr: hashing.ErrNotObject},
		{name: "nil pointer", value: nilRecord, wantErr: hashing.ErrNotObject},
		{name: "untyped nil", value: nil, wantErr: hashing.ErrNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.DigestObject(tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("DigestObject() error = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, hashing.ErrInvalidArgument) {
					t.Errorf("DigestObject() error = %v, want wrapped %v", err, hashing.ErrInvalidArgument)
				}
				return
			}
			if err != nil {
				t.Fatalf("DigestObject() unexpected error: %v", err)
			}
			if want, _ := h.Digest(tt.value); got != want {
				t.Errorf("DigestObject() = %q, want %q (same as Digest)", got, want)
			}
		})
	}
}

func TestDigestObject_UnsupportedAlgorithm(t *testing.T) {
	h := hashing.New()

	_, err := h.DigestObjectWith(&record{}, "crc0")
	if !errors.Is(err, hashing.ErrUnsupportedAlgorithm) {
		t.Errorf("DigestObjectWith() error = %v, want %v", err, hashing.ErrUnsupportedAlgorithm)
	}
}

func TestNew_SessionIsUnique(t *testing.T) {
	a, b := hashing.New(), hashing.New()

	if a.Session() == "" {
		t.Fatal("Session() is empty")
	}
	if a.Session() == b.Session() {
		t.Errorf("two Hashers share session %q", a.Session())
	}
}
