package doc

// Value is a sealed interface representing the document value types.
// Only Null, String, Int, Float, Bool, Array and *Document implement it.
type Value interface {
	docValue() // Sealed - only these types implement it
}

// Null represents an explicit null value.
// Using an explicit type ensures all Values satisfy the sealed interface.
type Null struct{}

func (Null) docValue() {}

// String represents a string value.
type String string

func (String) docValue() {}

// Int represents an integer value.
type Int int64

func (Int) docValue() {}

// Float represents a floating-point value.
type Float float64

func (Float) docValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) docValue() {}

// Array represents an ordered sequence of values.
type Array []Value

func (Array) docValue() {}

// Field is a key-value pair for ordered Document construction.
type Field struct {
	Key   string
	Value Value
}

// F is a shorthand for Field for ergonomic construction.
// Example: NewDocument(F("name", String("cart")), F("count", Int(5)))
func F(key string, value Value) Field {
	return Field{Key: key, Value: value}
}

// Document is an ordered mapping from string keys to values.
//
// The zero value is not usable; construct with NewDocument.
// A nil *Document behaves as an empty document for all read methods.
type Document struct {
	keys []string
	vals map[string]Value
}

func (*Document) docValue() {}

// NewDocument creates a Document from fields in order.
// A repeated key replaces the earlier value but keeps the earlier position.
func NewDocument(fields ...Field) *Document {
	d := &Document{
		keys: make([]string, 0, len(fields)),
		vals: make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		d.Set(f.Key, f.Value)
	}
	return d
}

// Set stores value under key and returns the document for chaining.
// Existing keys keep their position; new keys are appended.
// A nil value is stored as Null.
func (d *Document) Set(key string, value Value) *Document {
	if value == nil {
		value = Null{}
	}
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = value
	return d
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.vals[key]
	return v, ok
}

// Len returns the number of keys.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// IsEmpty reports whether the document has no keys.
func (d *Document) IsEmpty() bool {
	return d.Len() == 0
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

// Fields returns the key-value pairs in insertion order.
func (d *Document) Fields() []Field {
	if d == nil {
		return nil
	}
	fields := make([]Field, len(d.keys))
	for i, k := range d.keys {
		fields[i] = Field{Key: k, Value: d.vals[k]}
	}
	return fields
}

// Clone returns a deep copy. Cloning nil yields an empty document.
func (d *Document) Clone() *Document {
	out := NewDocument()
	if d == nil {
		return out
	}
	for _, k := range d.keys {
		out.Set(k, CloneValue(d.vals[k]))
	}
	return out
}

// String returns the relaxed JSON text of the document.
func (d *Document) String() string {
	return string(MarshalRelaxed(d))
}

// CloneValue returns a deep copy of v.
func CloneValue(v Value) Value {
	switch val := v.(type) {
	case *Document:
		return val.Clone()
	case Array:
		arr := make(Array, len(val))
		for i, elem := range val {
			arr[i] = CloneValue(elem)
		}
		return arr
	case nil:
		return Null{}
	default:
		return val
	}
}
