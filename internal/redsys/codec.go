package redsys

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LavaJover/shvark-redsys-service/internal/domain"
)

const orderRefLength = 12

// Parameters is the merchant parameter set. Keys keep insertion order so that an
// encoded blob is reproducible.
type Parameters struct {
	keys   []string
	values map[string]string
}

func NewParameters() *Parameters {
	return &Parameters{values: make(map[string]string)}
}

func (p *Parameters) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Parameters) Get(key string) string {
	return p.values[key]
}

func (p *Parameters) Lookup(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *Parameters) Keys() []string {
	return append([]string(nil), p.keys...)
}

func (p *Parameters) Len() int {
	return len(p.keys)
}

// Map returns an unordered copy of the parameters.
func (p *Parameters) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

func (p *Parameters) MarshalJSON() ([]byte, error) {
	out := bytes.NewBufferString("{")
	for i, key := range p.keys {
		if i > 0 {
			out.WriteByte(',')
		}
		k, err := marshalString(key)
		if err != nil {
			return nil, err
		}
		v, err := marshalString(p.values[key])
		if err != nil {
			return nil, err
		}
		out.Write(k)
		out.WriteByte(':')
		out.Write(v)
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

// EncodeParameters serialises the parameters as base64(JSON).
func EncodeParameters(p *Parameters) (string, error) {
	raw, err := p.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encode merchant parameters: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeParameters parses a base64(JSON object) blob. Both the standard and the URL-safe
// alphabets are accepted, with or without padding.
func DecodeParameters(blob string) (*Parameters, error) {
	raw, err := decodeBase64(strings.TrimSpace(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", domain.ErrDecode, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected JSON object", domain.ErrDecode)
	}

	params := NewParameters()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string key", domain.ErrDecode)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: value of %q: %v", domain.ErrDecode, key, err)
		}
		s, err := stringify(value)
		if err != nil {
			return nil, fmt.Errorf("%w: value of %q: %v", domain.ErrDecode, key, err)
		}
		params.Set(key, s)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", domain.ErrDecode)
	}
	return params, nil
}

// PadOrderRef keeps the last 12 characters of id and left-pads with zeros.
// Longer identifiers lose their leading characters.
func PadOrderRef(id string) string {
	if len(id) > orderRefLength {
		id = id[len(id)-orderRefLength:]
	}
	return strings.Repeat("0", orderRefLength-len(id)) + id
}

// marshalString encodes s as a JSON string without HTML escaping, so URLs keep their '&'.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func stringify(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func decodeBase64(s string) ([]byte, error) {
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		raw, err := enc.DecodeString(s)
		if err == nil {
			return raw, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
