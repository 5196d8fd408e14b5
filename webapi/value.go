package webapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type (
	Kind int

	// Member is one name/value pair of a JSON object, kept in document order.
	Member struct {
		Name  string
		Value *Value
	}

	// Value is a parsed JSON document node. Object members keep the order
	// in which the server sent them.
	Value struct {
		kind    Kind
		boolean bool
		text    string
		items   []*Value
		members []Member
	}
)

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var ErrTrailingData = errors.New("unexpected data after JSON value")

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "null"
	}
}

// ParseValue decodes a single JSON document.
func ParseValue(data []byte) (v *Value, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if v, err = decodeValue(dec); err != nil {
		return nil, err
	}

	if _, err = dec.Token(); err != io.EOF {
		if err == nil {
			err = ErrTrailingData
		}
		return nil, err
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (v *Value, err error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return
	}

	switch t := tok.(type) {
	case nil:
		v = &Value{kind: KindNull}
	case bool:
		v = &Value{kind: KindBool, boolean: t}
	case json.Number:
		v = &Value{kind: KindNumber, text: t.String()}
	case string:
		v = &Value{kind: KindString, text: t}
	case json.Delim:
		switch t {
		case '[':
			v = &Value{kind: KindArray, items: []*Value{}}
			for dec.More() {
				var item *Value
				if item, err = decodeValue(dec); err != nil {
					return nil, err
				}
				v.items = append(v.items, item)
			}
		case '{':
			v = &Value{kind: KindObject, members: []Member{}}
			for dec.More() {
				var name *Value
				if name, err = decodeValue(dec); err != nil {
					return nil, err
				}
				var member *Value
				if member, err = decodeValue(dec); err != nil {
					return nil, err
				}
				v.setMember(name.text, member)
			}
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
		// closing delimiter
		if _, err = dec.Token(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
	return
}

// a repeated key replaces the earlier value but keeps its position
func (v *Value) setMember(name string, member *Value) {
	for i := range v.members {
		if v.members[i].Name == name {
			v.members[i].Value = member
			return
		}
	}
	v.members = append(v.members, Member{Name: name, Value: member})
}

// NewArray makes an array value from the given items.
func NewArray(items []*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: KindArray, items: items}
}

// NewString makes a string value.
func NewString(s string) *Value {
	return &Value{kind: KindString, text: s}
}

// Kind reports the value's JSON kind; a nil value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) IsNull() bool {
	return v.Kind() == KindNull
}

// Len is the number of array items or object members.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	}
	return 0
}

func (v *Value) Items() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	return v.items
}

func (v *Value) Members() []Member {
	if v.Kind() != KindObject {
		return nil
	}
	return v.members
}

// Get returns the named object member, or nil if v is not an object or
// has no such member.
func (v *Value) Get(name string) *Value {
	for _, m := range v.Members() {
		if m.Name == name {
			return m.Value
		}
	}
	return nil
}

// Has reports whether the object has the named member.
func (v *Value) Has(name string) bool {
	for _, m := range v.Members() {
		if m.Name == name {
			return true
		}
	}
	return false
}

// Str returns the raw text of a string or number, and the JSON literal of
// anything else.
func (v *Value) Str() string {
	switch v.Kind() {
	case KindString, KindNumber:
		return v.text
	}
	return v.Literal()
}

// Literal renders the value as compact JSON.
func (v *Value) Literal() string {
	var sb strings.Builder
	v.writeLiteral(&sb)
	return sb.String()
}

func (v *Value) writeLiteral(sb *strings.Builder) {
	switch v.Kind() {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.boolean {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(v.text)
	case KindString:
		sb.WriteString(quote(v.text))
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.writeLiteral(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quote(m.Name))
			sb.WriteByte(':')
			m.Value.writeLiteral(sb)
		}
		sb.WriteByte('}')
	}
}

func (v *Value) MarshalJSON() ([]byte, error) {
	return []byte(v.Literal()), nil
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
