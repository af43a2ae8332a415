// Package normalize turns the loosely shaped LIGA admin API responses into
// domain values. Responses are first classified into an Envelope, then the
// payload is decoded field by field with lenient scalar handling.
package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/devpureza/liga-expo/internal/model"
)

// Kind identifies which response shape an envelope matched.
type Kind int

const (
	KindUnknown Kind = iota
	KindFailure
	KindNamed
	KindDados
	KindData
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindFailure:
		return "failure"
	case KindNamed:
		return "named"
	case KindDados:
		return "dados"
	case KindData:
		return "data"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Envelope is a classified response body.
type Envelope struct {
	Kind    Kind
	Message string
	Payload json.RawMessage
}

// Shape reports whether a bare object looks like the expected entity.
type Shape func(fields map[string]json.RawMessage) bool

// HasFields builds a Shape requiring every key to be present and non-null.
func HasFields(keys ...string) Shape {
	return func(fields map[string]json.RawMessage) bool {
		for _, k := range keys {
			if isNull(fields[k]) {
				return false
			}
		}
		return true
	}
}

// HasAnyField builds a Shape requiring at least one key to be present and non-null.
func HasAnyField(keys ...string) Shape {
	return func(fields map[string]json.RawMessage) bool {
		for _, k := range keys {
			if !isNull(fields[k]) {
				return true
			}
		}
		return false
	}
}

// Decode classifies raw against the known envelopes. name is the domain key
// (for example "cupons") checked before the generic wrappers.
func Decode(raw json.RawMessage, name string) Envelope {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Envelope{Kind: KindUnknown}
	}

	switch trimmed[0] {
	case '[':
		return Envelope{Kind: KindArray, Payload: trimmed}
	case '{':
	default:
		return Envelope{Kind: KindUnknown, Payload: trimmed}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Envelope{Kind: KindUnknown, Payload: trimmed}
	}

	if isTrue(fields["erro"]) {
		return Envelope{Kind: KindFailure, Message: stringField(fields, "mensagem")}
	}
	if name != "" && !isNull(fields[name]) {
		return Envelope{Kind: KindNamed, Payload: fields[name]}
	}
	if !isNull(fields["dados"]) {
		return Envelope{Kind: KindDados, Payload: fields["dados"]}
	}
	if !isNull(fields["data"]) {
		return Envelope{Kind: KindData, Payload: fields["data"]}
	}
	return Envelope{Kind: KindObject, Payload: trimmed}
}

// List extracts a list payload. A failure envelope becomes an application
// error using fallback when the backend sent no message.
func List(raw json.RawMessage, name string, shape Shape, fallback string) ([]json.RawMessage, error) {
	env := Decode(raw, name)
	switch env.Kind {
	case KindFailure:
		return nil, model.NewApplicationError(env.Message, fallback)
	case KindNamed, KindDados, KindData, KindArray:
		return elements(env.Payload), nil
	case KindObject:
		fields, ok := objectFields(env.Payload)
		if ok && shape != nil && shape(fields) {
			return []json.RawMessage{env.Payload}, nil
		}
		return nil, nil
	default:
		return nil, nil
	}
}

// One extracts a single resource. Wrappers yield their object or the first
// array element; a bare object must satisfy shape. model.ErrNotFound is
// returned when a wrapper is empty.
func One(raw json.RawMessage, name string, shape Shape, fallback string) (json.RawMessage, error) {
	env := Decode(raw, name)
	switch env.Kind {
	case KindFailure:
		return nil, model.NewApplicationError(env.Message, fallback)
	case KindNamed, KindDados, KindData:
		payload := bytes.TrimSpace(env.Payload)
		if len(payload) > 0 && payload[0] == '[' {
			items := elements(payload)
			if len(items) == 0 {
				return nil, model.ErrNotFound
			}
			return items[0], nil
		}
		if _, ok := objectFields(payload); ok {
			return payload, nil
		}
		return nil, model.ErrNotFound
	case KindObject:
		fields, ok := objectFields(env.Payload)
		if ok && shape != nil && shape(fields) {
			return env.Payload, nil
		}
		return nil, model.NewShapeError(model.MsgInvalidShape)
	default:
		return nil, model.NewShapeError(model.MsgInvalidShape)
	}
}

// CheckFailure returns an application error when raw is a failure envelope.
func CheckFailure(raw json.RawMessage, fallback string) error {
	env := Decode(raw, "")
	if env.Kind == KindFailure {
		return model.NewApplicationError(env.Message, fallback)
	}
	return nil
}

// Message returns the mensagem field of an object body, if any.
func Message(raw json.RawMessage) string {
	fields, ok := objectFields(raw)
	if !ok {
		return ""
	}
	if msg := stringField(fields, "mensagem"); msg != "" {
		return msg
	}
	return stringField(fields, "message")
}

func elements(payload json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil
	}
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		if !isNull(item) {
			out = append(out, item)
		}
	}
	return out
}

func objectFields(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isTrue(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("true"))
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var s string
	if err := json.Unmarshal(fields[key], &s); err != nil {
		return ""
	}
	return s
}
