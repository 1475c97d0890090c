package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Persisted cache format: a sequence of tagged records matching the Python
// marshal layout spec.md §6 requires byte-for-byte. No library in the pack
// or broader ecosystem implements this exact bespoke wire format (it is a
// deliberate clone of CPython's own marshal module), so this is
// implemented directly over encoding/binary (see DESIGN.md's per-part
// stdlib justification).

// MarshalTag is the one-byte type-prefix preceding every record's payload.
type MarshalTag byte

const (
	TagInt              MarshalTag = 'i' // 4-byte little-endian int32
	TagFloat            MarshalTag = 'g' // 8-byte little-endian float64
	TagShortASCII       MarshalTag = 'z' // 1-byte length, ASCII bytes
	TagShortASCIIIntern MarshalTag = 'Z' // as 'z', additionally interned
	TagString           MarshalTag = 's' // 4-byte length, raw bytes
	TagUnicode          MarshalTag = 'u' // 4-byte length, UTF-8 bytes
	TagTrue             MarshalTag = 'T'
	TagFalse            MarshalTag = 'F'
	TagSmallTuple       MarshalTag = ')' // 1-byte length, N values
	TagTuple            MarshalTag = '(' // 4-byte length, N values
	TagCode             MarshalTag = 'c' // code object, standard field sequence
	TagNone             MarshalTag = 'N'
)

// MarshalValue is the decoded shape of one persisted record.
type MarshalValue interface {
	marshalNode()
}

type MInt struct{ V int32 }
type MFloat struct{ V float64 }
type MString struct{ V string } // backs 'z'/'Z'/'s'/'u'
type MBool struct{ V bool }
type MTuple struct{ Elems []MarshalValue }
type MNone struct{}

// MCode is a persisted code object. Fields mirror the "standard field
// sequence appropriate to the Python version" spec.md §6 names; this
// checker only round-trips the payload, it does not execute it, so the
// fields are kept as opaque marshalled values rather than typed further.
type MCode struct {
	ArgCount   int32
	StackSize  int32
	Flags      int32
	Consts     MarshalValue
	Names      MarshalValue
	VarNames   MarshalValue
	FileName   string
	Name       string
	FirstLine  int32
}

func (MInt) marshalNode()    {}
func (MFloat) marshalNode()  {}
func (MString) marshalNode() {}
func (MBool) marshalNode()   {}
func (MTuple) marshalNode()  {}
func (MNone) marshalNode()   {}
func (*MCode) marshalNode()  {}

// Encoder writes MarshalValues in the tagged-record format.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder { return &Encoder{w: w} }

func (e *Encoder) Encode(v MarshalValue) error {
	switch t := v.(type) {
	case MInt:
		return e.writeTagged(TagInt, func(buf *bytes.Buffer) error {
			return binary.Write(buf, binary.LittleEndian, t.V)
		})
	case MFloat:
		return e.writeTagged(TagFloat, func(buf *bytes.Buffer) error {
			return binary.Write(buf, binary.LittleEndian, t.V)
		})
	case MString:
		return e.encodeString(t.V)
	case MBool:
		tag := TagFalse
		if t.V {
			tag = TagTrue
		}
		_, err := e.w.Write([]byte{byte(tag)})
		return err
	case MNone:
		_, err := e.w.Write([]byte{byte(TagNone)})
		return err
	case MTuple:
		return e.encodeTuple(t)
	case *MCode:
		return e.encodeCode(t)
	default:
		return fmt.Errorf("marshal: unsupported value %T", v)
	}
}

func (e *Encoder) writeTagged(tag MarshalTag, write func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	buf.WriteByte(byte(tag))
	if err := write(&buf); err != nil {
		return err
	}
	_, err := e.w.Write(buf.Bytes())
	return err
}

// encodeString picks 'z' for short (<256 byte) ASCII strings, else 'u' for
// everything else. It never writes 'Z' or 's'; the Decoder still reads
// both.
func (e *Encoder) encodeString(s string) error {
	if len(s) < 256 && isASCII(s) {
		var buf bytes.Buffer
		buf.WriteByte(byte(TagShortASCII))
		buf.WriteByte(byte(len(s)))
		buf.WriteString(s)
		_, err := e.w.Write(buf.Bytes())
		return err
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(TagUnicode))
	if err := binary.Write(&buf, binary.LittleEndian, int32(len(s))); err != nil {
		return err
	}
	buf.WriteString(s)
	_, err := e.w.Write(buf.Bytes())
	return err
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}

func (e *Encoder) encodeTuple(t MTuple) error {
	var buf bytes.Buffer
	if len(t.Elems) < 256 {
		buf.WriteByte(byte(TagSmallTuple))
		buf.WriteByte(byte(len(t.Elems)))
	} else {
		buf.WriteByte(byte(TagTuple))
		if err := binary.Write(&buf, binary.LittleEndian, int32(len(t.Elems))); err != nil {
			return err
		}
	}
	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return err
	}
	for _, el := range t.Elems {
		if err := e.Encode(el); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeCode(c *MCode) error {
	if _, err := e.w.Write([]byte{byte(TagCode)}); err != nil {
		return err
	}
	for _, v := range []int32{c.ArgCount, c.StackSize, c.Flags} {
		if err := e.Encode(MInt{v}); err != nil {
			return err
		}
	}
	for _, v := range []MarshalValue{c.Consts, c.Names, c.VarNames} {
		if err := e.Encode(v); err != nil {
			return err
		}
	}
	if err := e.Encode(MString{c.FileName}); err != nil {
		return err
	}
	if err := e.Encode(MString{c.Name}); err != nil {
		return err
	}
	return e.Encode(MInt{c.FirstLine})
}

// Decoder reads tagged records back into MarshalValues. It interns
// repeated short-ASCII ('z'/'Z') payloads into a single Go string value
// per distinct payload within one decode pass, preserving the
// reference-equality invariant the source format's own interner
// documents (DESIGN.md / SPEC_FULL.md "Supplemented features" #4).
type Decoder struct {
	r       *bytes.Reader
	interns map[string]string
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{r: bytes.NewReader(data), interns: make(map[string]string)}
}

func (d *Decoder) Decode() (MarshalValue, error) {
	tagByte, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch MarshalTag(tagByte) {
	case TagInt:
		var v int32
		if err := binary.Read(d.r, binary.LittleEndian, &v); err != nil {
			return nil, err
		}
		return MInt{v}, nil
	case TagFloat:
		var v float64
		if err := binary.Read(d.r, binary.LittleEndian, &v); err != nil {
			return nil, err
		}
		return MFloat{v}, nil
	case TagShortASCII, TagShortASCIIIntern:
		n, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return nil, err
		}
		return MString{d.intern(string(buf))}, nil
	case TagString, TagUnicode:
		var n int32
		if err := binary.Read(d.r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return nil, err
		}
		return MString{string(buf)}, nil
	case TagTrue:
		return MBool{true}, nil
	case TagFalse:
		return MBool{false}, nil
	case TagNone:
		return MNone{}, nil
	case TagSmallTuple:
		n, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		return d.decodeTupleElems(int(n))
	case TagTuple:
		var n int32
		if err := binary.Read(d.r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		return d.decodeTupleElems(int(n))
	case TagCode:
		return d.decodeCode()
	default:
		return nil, fmt.Errorf("marshal: unknown tag %q", tagByte)
	}
}

func (d *Decoder) decodeTupleElems(n int) (MarshalValue, error) {
	elems := make([]MarshalValue, n)
	for i := range elems {
		v, err := d.Decode()
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return MTuple{elems}, nil
}

func (d *Decoder) decodeCode() (MarshalValue, error) {
	ints := make([]int32, 3)
	for i := range ints {
		v, err := d.Decode()
		if err != nil {
			return nil, err
		}
		mi, ok := v.(MInt)
		if !ok {
			return nil, fmt.Errorf("marshal: code field %d is not an int", i)
		}
		ints[i] = mi.V
	}
	consts, err := d.Decode()
	if err != nil {
		return nil, err
	}
	names, err := d.Decode()
	if err != nil {
		return nil, err
	}
	varNames, err := d.Decode()
	if err != nil {
		return nil, err
	}
	fileName, err := d.decodeStringField()
	if err != nil {
		return nil, err
	}
	name, err := d.decodeStringField()
	if err != nil {
		return nil, err
	}
	firstLine, err := d.Decode()
	if err != nil {
		return nil, err
	}
	fl, ok := firstLine.(MInt)
	if !ok {
		return nil, fmt.Errorf("marshal: code.FirstLine is not an int")
	}
	return &MCode{
		ArgCount: ints[0], StackSize: ints[1], Flags: ints[2],
		Consts: consts, Names: names, VarNames: varNames,
		FileName: fileName, Name: name, FirstLine: fl.V,
	}, nil
}

func (d *Decoder) decodeStringField() (string, error) {
	v, err := d.Decode()
	if err != nil {
		return "", err
	}
	s, ok := v.(MString)
	if !ok {
		return "", fmt.Errorf("marshal: expected string field, got %T", v)
	}
	return s.V, nil
}

// intern returns the single shared Go string value for s within this
// decode pass, allocating it on first sight.
func (d *Decoder) intern(s string) string {
	if existing, ok := d.interns[s]; ok {
		return existing
	}
	d.interns[s] = s
	return s
}
