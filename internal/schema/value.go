package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Value is a decoded JSON value: *Object, []Value, string, json.Number,
// bool or nil.
type Value any

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object that keeps its members in document order.
type Object struct {
	Members []Member
	index   map[string]int // key to position in Members, built on first use
}

func (o *Object) lookup(key string) (int, bool) {
	if o.index == nil || len(o.index) != len(o.Members) {
		o.index = make(map[string]int, len(o.Members))
		for i, m := range o.Members {
			if _, dup := o.index[m.Key]; !dup {
				o.index[m.Key] = i
			}
		}
	}
	i, ok := o.index[key]
	return i, ok
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if i, ok := o.lookup(key); ok {
		return o.Members[i].Value, true
	}
	return nil, false
}

// set stores v under key. A repeated key keeps its first position and takes
// the last value, as most JSON decoders do.
func (o *Object) set(key string, v Value) {
	if i, ok := o.lookup(key); ok {
		o.Members[i].Value = v
		return
	}
	o.index[key] = len(o.Members)
	o.Members = append(o.Members, Member{Key: key, Value: v})
}

// Parse decodes data into an order-preserving Value tree.
// sourceName is only used in error messages.
func Parse(data []byte, sourceName string) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("document is empty")
		}
		return nil, syntaxError(sourceName, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, syntaxError(sourceName, errors.New("unexpected data after top-level value"))
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &Object{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key must be a string, got %v", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []Value{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}
