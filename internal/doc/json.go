package doc

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// jsonStyle selects the separators used between members.
type jsonStyle struct {
	colon string
	comma string
}

var (
	relaxedStyle = jsonStyle{colon: ": ", comma: ", "}
	compactStyle = jsonStyle{colon: ":", comma: ","}
)

// MarshalRelaxed renders v as human-readable JSON with a space after each
// colon and comma, e.g. {"age": {"$gte": 18}, "tags": ["a", "b"]}.
// Keys are written in insertion order.
func MarshalRelaxed(v Value) []byte {
	var buf bytes.Buffer
	writeValue(&buf, v, relaxedStyle)
	return buf.Bytes()
}

// MarshalCompact renders v as JSON without insignificant whitespace.
// This is the form hashed by Fingerprint.
func MarshalCompact(v Value) []byte {
	var buf bytes.Buffer
	writeValue(&buf, v, compactStyle)
	return buf.Bytes()
}

// MarshalJSON implements json.Marshaler. Keys keep insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	return MarshalCompact(d), nil
}

func writeValue(buf *bytes.Buffer, v Value, style jsonStyle) {
	switch val := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case String:
		writeString(buf, string(val))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		writeFloat(buf, float64(val), style)
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteString(style.comma)
			}
			writeValue(buf, elem, style)
		}
		buf.WriteByte(']')
	case *Document:
		buf.WriteByte('{')
		for i, f := range val.Fields() {
			if i > 0 {
				buf.WriteString(style.comma)
			}
			writeString(buf, f.Key)
			buf.WriteString(style.colon)
			writeValue(buf, f.Value, style)
		}
		buf.WriteByte('}')
	}
}

// writeFloat always keeps a fractional part so 10.0 stays distinguishable
// from the integer 10. Non-finite values use the extended JSON wrapper.
func writeFloat(buf *bytes.Buffer, f float64, style jsonStyle) {
	switch {
	case math.IsNaN(f):
		buf.WriteString(`{"$numberDouble"` + style.colon + `"NaN"}`)
		return
	case math.IsInf(f, 1):
		buf.WriteString(`{"$numberDouble"` + style.colon + `"Infinity"}`)
		return
	case math.IsInf(f, -1):
		buf.WriteString(`{"$numberDouble"` + style.colon + `"-Infinity"}`)
		return
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	buf.WriteString(s)
}

// writeString writes a JSON string, NFC normalized, without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false) // <, >, & are kept literal
	// Encoding a string cannot fail.
	_ = enc.Encode(norm.NFC.String(s))

	// json.Encoder adds trailing newline, remove it
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}
