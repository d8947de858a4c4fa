package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Envelope is the backend's response wrapper:
// {"code":200,"status":"success","message":...,"data":...}.
// Some endpoints add top-level fields (e.g. totalSedekah); Raw keeps the
// full body for those.
type Envelope struct {
	Code       *int            `json:"code"`
	Status     string          `json:"status"`
	Message    json.RawMessage `json:"message"`
	Data       json.RawMessage `json:"data"`
	Err        string          `json:"Error"`
	Raw        json.RawMessage `json:"-"`
	HTTPStatus int             `json:"-"`
}

func decodeEnvelope(raw []byte) (*Envelope, error) {
	env := &Envelope{Raw: raw}
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, err
	}
	return env, nil
}

// HasData reports whether data is present and not null.
func (e *Envelope) HasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// DecodeData unmarshals data into dest. A single object is accepted where a
// list is expected and becomes a one-element list.
func (e *Envelope) DecodeData(dest any) error {
	if dest == nil || !e.HasData() {
		return nil
	}
	data := bytes.TrimSpace(e.Data)
	if err := json.Unmarshal(data, dest); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && data[0] == '{' {
			wrapped := append(append([]byte{'['}, data...), ']')
			if err2 := json.Unmarshal(wrapped, dest); err2 == nil {
				return nil
			}
		}
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// Decode unmarshals the full body into dest.
func (e *Envelope) Decode(dest any) error {
	if len(bytes.TrimSpace(e.Raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// CodeValue returns code, or 0 when absent.
func (e *Envelope) CodeValue() int {
	if e.Code == nil {
		return 0
	}
	return *e.Code
}

// WriteOK reports whether a write was accepted: no Error field and either
// no code, a 2xx code, or status "success".
func (e *Envelope) WriteOK() bool {
	if strings.TrimSpace(e.Err) != "" {
		return false
	}
	if strings.EqualFold(e.Status, "success") {
		return true
	}
	if e.Code == nil {
		return true
	}
	return *e.Code >= 200 && *e.Code < 300
}

// MessageText returns message when it is a plain string.
func (e *Envelope) MessageText() string {
	var s string
	if len(e.Message) > 0 && json.Unmarshal(e.Message, &s) == nil {
		return strings.TrimSpace(s)
	}
	return ""
}

// ErrorText returns the most specific backend failure text available.
func (e *Envelope) ErrorText() string {
	if msg := strings.TrimSpace(e.Err); msg != "" {
		return msg
	}
	return e.MessageText()
}

func (e *Envelope) asError(method, path, fallback string) *Error {
	msg := e.ErrorText()
	if msg == "" {
		msg = fallback
	}
	return &Error{Method: method, Path: path, Status: e.HTTPStatus, Code: e.CodeValue(), Message: msg}
}

// Error is a non-success backend response.
type Error struct {
	Method  string
	Path    string
	Status  int // HTTP status
	Code    int // envelope code, 0 when absent
	Message string
}

func (e *Error) Error() string {
	if e.Status >= 400 {
		return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

// Message returns the backend-provided text of err when it carries one,
// otherwise err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// IsUnauthorized reports whether err is a 401/403 backend response.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == 401 || apiErr.Status == 403
}
