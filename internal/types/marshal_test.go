package types

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestMarshalRoundTrip encodes a representative record shape and decodes
// it back, comparing structurally. The shape mirrors what modcache
// persists: a header tuple of strings around a nested payload.
func TestMarshalRoundTrip(t *testing.T) {
	in := MTuple{Elems: []MarshalValue{
		MString{V: "demo"},
		MString{V: "0.1.0"},
		MInt{V: 42},
		MFloat{V: 1.5},
		MBool{V: true},
		MNone{},
		MTuple{Elems: []MarshalValue{MString{V: "demo"}, MInt{V: -7}}},
	}}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(in))

	out, err := NewDecoder(buf.Bytes()).Decode()
	require.NoError(t, err)

	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestMarshalCodeObject round-trips the 'c' code-object record with its
// standard field sequence.
func TestMarshalCodeObject(t *testing.T) {
	in := &MCode{
		ArgCount:  2,
		StackSize: 4,
		Flags:     0x40,
		Consts:    MTuple{Elems: []MarshalValue{MNone{}, MInt{V: 1}}},
		Names:     MTuple{Elems: []MarshalValue{MString{V: "print"}}},
		VarNames:  MTuple{Elems: []MarshalValue{MString{V: "x"}, MString{V: "y"}}},
		FileName:  "demo.vt",
		Name:      "widen",
		FirstLine: 3,
	}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(in))

	out, err := NewDecoder(buf.Bytes()).Decode()
	require.NoError(t, err)

	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestDecoderInternsShortStrings: repeated short-ASCII payloads decode to
// the same interned value within one pass, preserving the source format's
// reference-equality invariant.
func TestDecoderInternsShortStrings(t *testing.T) {
	in := MTuple{Elems: []MarshalValue{MString{V: "shared"}, MString{V: "shared"}}}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(in))

	d := NewDecoder(buf.Bytes())
	out, err := d.Decode()
	require.NoError(t, err)

	tuple, ok := out.(MTuple)
	require.True(t, ok)
	require.Len(t, tuple.Elems, 2)
	a := tuple.Elems[0].(MString)
	b := tuple.Elems[1].(MString)
	require.Equal(t, a.V, b.V)
	require.Len(t, d.interns, 1, "one distinct short-ASCII payload must produce one interned entry")
}
