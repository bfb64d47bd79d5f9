// Package envelope decodes `{code, message, data}` response envelopes into
// outcomes and raises the session signals carried by their codes.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/joy-dx/rxnet/config"
	"github.com/joy-dx/rxnet/dto"
)

// Decode classifies body as success, service error or transport error and
// decodes the payload at the data key into T.
func Decode[T any](body []byte, keys config.EnvelopeConfig, sink dto.SignalSink) dto.Outcome[T] {
	doc, outcome, ok := classify[T](body, keys, sink)
	if !ok {
		return outcome
	}

	raw, found := Lookup(doc, keys.DataKey)
	if !found || raw == nil {
		var zero T
		if nilable(reflect.TypeOf(&zero).Elem()) {
			return dto.Success(zero)
		}
		return dto.TransportFailure[T](dto.ErrEmptyData)
	}

	buf, err := json.Marshal(raw)
	if err != nil {
		return dto.TransportFailure[T](fmt.Errorf("%w: %v", dto.ErrDataParse, err))
	}
	var value T
	if err := json.Unmarshal(buf, &value); err != nil {
		return dto.TransportFailure[T](fmt.Errorf("%w: %v", dto.ErrDataParse, err))
	}
	return dto.Success(value)
}

// DecodeVoid checks the envelope code only; the payload is ignored.
func DecodeVoid(body []byte, keys config.EnvelopeConfig, sink dto.SignalSink) dto.Outcome[struct{}] {
	_, outcome, ok := classify[struct{}](body, keys, sink)
	if !ok {
		return outcome
	}
	return dto.Success(struct{}{})
}

// classify parses the document, raises signals and resolves non-success codes.
// ok is true only when the code equals the success code.
func classify[T any](body []byte, keys config.EnvelopeConfig, sink dto.SignalSink) (any, dto.Outcome[T], bool) {
	doc, err := parse(body)
	if err != nil {
		return nil, dto.TransportFailure[T](err), false
	}
	code, err := codeAt(doc, keys.CodeKey)
	if err != nil {
		return nil, dto.TransportFailure[T](err), false
	}

	signal(code, keys, sink)

	if code != keys.SuccessCode {
		message := fmt.Sprintf("code is not %d", keys.SuccessCode)
		if raw, found := Lookup(doc, keys.MessageKey); found {
			if s, isString := raw.(string); isString {
				message = s
			}
		}
		return doc, dto.ServiceFailure[T](code, message), false
	}
	return doc, dto.Outcome[T]{}, true
}

func parse(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrInvalidFormat, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", dto.ErrInvalidFormat)
	}
	if _, isObject := doc.(map[string]any); !isObject {
		return nil, fmt.Errorf("%w: envelope is not an object", dto.ErrInvalidFormat)
	}
	return doc, nil
}

func codeAt(doc any, codeKey string) (int, error) {
	raw, found := Lookup(doc, codeKey)
	if !found {
		return 0, fmt.Errorf("%w: %q missing", dto.ErrCodeParse, codeKey)
	}
	num, isNumber := raw.(json.Number)
	if !isNumber {
		return 0, fmt.Errorf("%w: %q is %T", dto.ErrCodeParse, codeKey, raw)
	}
	code, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %q=%s is not an integer", dto.ErrCodeParse, codeKey, num)
	}
	return int(code), nil
}

func signal(code int, keys config.EnvelopeConfig, sink dto.SignalSink) {
	if sink == nil {
		return
	}
	if code == keys.SessionExpiredCode {
		sink.SessionExpired(code)
		return
	}
	if code >= keys.ClientErrorMin && code <= keys.ClientErrorMax {
		sink.ServiceClientError(code)
	}
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return false
}
