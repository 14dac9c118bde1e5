package remote

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Value kinds. Every field travels as a single-entry struct keyed by its kind,
// so a string and a timestamp never look alike on the wire.
const (
	kindString    = "stringValue"
	kindInteger   = "integerValue"
	kindDouble    = "doubleValue"
	kindBoolean   = "booleanValue"
	kindNull      = "nullValue"
	kindArray     = "arrayValue"
	kindTimestamp = "timestampValue"
)

func typed(kind string, v *structpb.Value) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{kind: v}})
}

func encodeValue(name string, v any) (*structpb.Value, error) {
	switch x := v.(type) {
	case nil:
		return typed(kindNull, structpb.NewNullValue()), nil
	case string:
		return typed(kindString, structpb.NewStringValue(x)), nil
	case int64:
		// int64 does not survive a double, so it is carried as decimal text
		return typed(kindInteger, structpb.NewStringValue(strconv.FormatInt(x, 10))), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: field %q is not a finite number", ErrInvalidArgument, name)
		}
		return typed(kindDouble, structpb.NewNumberValue(x)), nil
	case bool:
		return typed(kindBoolean, structpb.NewBoolValue(x)), nil
	case []string:
		list := make([]*structpb.Value, len(x))
		for i, s := range x {
			list[i] = structpb.NewStringValue(s)
		}
		return typed(kindArray, structpb.NewListValue(&structpb.ListValue{Values: list})), nil
	case *timestamppb.Timestamp:
		if x == nil {
			return typed(kindNull, structpb.NewNullValue()), nil
		}
		if err := x.CheckValid(); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidArgument, name, err)
		}
		return typed(kindTimestamp, structpb.NewStringValue(x.AsTime().UTC().Format(time.RFC3339Nano))), nil
	}
	return nil, fmt.Errorf("%w: field %q has unsupported type %T", ErrInvalidArgument, name, v)
}

func decodeValue(name string, v *structpb.Value) (any, error) {
	s := v.GetStructValue()
	if s == nil || len(s.GetFields()) != 1 {
		return nil, fmt.Errorf("%w: field %q must carry exactly one value", ErrInvalidArgument, name)
	}
	for kind, inner := range s.GetFields() {
		if out, ok := decodeKind(kind, inner); ok {
			return out, nil
		}
		return nil, fmt.Errorf("%w: field %q has a malformed %s", ErrInvalidArgument, name, kind)
	}
	return nil, nil
}

func decodeKind(kind string, v *structpb.Value) (any, bool) {
	switch kind {
	case kindNull:
		_, ok := v.GetKind().(*structpb.Value_NullValue)
		return nil, ok
	case kindString:
		x, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, false
		}
		return x.StringValue, true
	case kindInteger:
		switch x := v.GetKind().(type) {
		case *structpb.Value_StringValue:
			n, err := strconv.ParseInt(x.StringValue, 10, 64)
			return n, err == nil
		case *structpb.Value_NumberValue:
			if x.NumberValue != math.Trunc(x.NumberValue) {
				return nil, false
			}
			return int64(x.NumberValue), true
		}
	case kindDouble:
		x, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, false
		}
		return x.NumberValue, true
	case kindBoolean:
		x, ok := v.GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return nil, false
		}
		return x.BoolValue, true
	case kindArray:
		x, ok := v.GetKind().(*structpb.Value_ListValue)
		if !ok {
			return nil, false
		}
		out := make([]string, 0, len(x.ListValue.GetValues()))
		for _, item := range x.ListValue.GetValues() {
			s, ok := item.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return nil, false
			}
			out = append(out, s.StringValue)
		}
		return out, true
	case kindTimestamp:
		x, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, false
		}
		t, err := time.Parse(time.RFC3339Nano, x.StringValue)
		if err != nil {
			return nil, false
		}
		return timestamppb.New(t), true
	}
	return nil, false
}

// ToStruct encodes the document with typed field values.
func (d Document) ToStruct() (*structpb.Struct, error) {
	fields := make(map[string]*structpb.Value, len(d.Fields))
	for k, v := range d.Fields {
		wv, err := encodeValue(k, v)
		if err != nil {
			return nil, err
		}
		fields[k] = wv
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":     structpb.NewStringValue(d.ID),
		"fields": structpb.NewStructValue(&structpb.Struct{Fields: fields}),
	}}, nil
}

// DocumentFromStruct decodes a struct produced by ToStruct.
func DocumentFromStruct(s *structpb.Struct) (Document, error) {
	doc := NewDocument(s.GetFields()["id"].GetStringValue())
	for k, wv := range s.GetFields()["fields"].GetStructValue().GetFields() {
		v, err := decodeValue(k, wv)
		if err != nil {
			return Document{}, err
		}
		doc.Fields[k] = v
	}
	return doc, nil
}

// MarshalJSON renders ToStruct as protobuf JSON. This is the form the
// server persists.
func (d Document) MarshalJSON() ([]byte, error) {
	s, err := d.ToStruct()
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(s)
}

// UnmarshalJSON decodes a document produced by MarshalJSON.
func (d *Document) UnmarshalJSON(data []byte) error {
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return err
	}
	doc, err := DocumentFromStruct(s)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}
