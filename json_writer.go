package wallet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// jsonObjectWriter builds a JSON object whose keys keep their insertion
// order, so that stored documents read like the domain model.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	buf bytes.Buffer
	err error
}

// Append adds key with value encoded by json.Marshal. The first encoding
// error is kept and reported by MarshalJSON.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal %q: %w", key, err)
		return w
	}
	if w.buf.Len() > 0 {
		w.buf.WriteByte(',')
	}
	w.buf.WriteString(strconv.Quote(key))
	w.buf.WriteByte(':')
	w.buf.Write(v)
	return w
}

// Optional appends a string only when it is not empty.
func (w *jsonObjectWriter) Optional(key, value string) *jsonObjectWriter {
	if value == "" {
		return w
	}
	return w.Append(key, value)
}

// If appends the fields written by f only when cond holds.
func (w *jsonObjectWriter) If(cond bool, f func(w *jsonObjectWriter)) *jsonObjectWriter {
	if cond {
		f(w)
	}
	return w
}

// MarshalJSON returns the object built so far.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	res := make([]byte, 0, w.buf.Len()+2)
	res = append(res, '{')
	res = append(res, w.buf.Bytes()...)
	return append(res, '}'), nil
}
