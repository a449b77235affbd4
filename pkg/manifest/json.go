package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

const jsonIndent = "  "

type jsonField struct {
	key   string
	value json.RawMessage
}

// jsonDocument keeps top-level fields in source order.
type jsonDocument struct {
	fields []jsonField
}

var _ Document = (*jsonDocument)(nil)

func parseJSON(data []byte) (*jsonDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, validation(errMalformed, "%v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, validation(errMalformed, "top-level value must be an object")
	}

	doc := &jsonDocument{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, validation(errMalformed, "%v", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, validation(errMalformed, "unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, validation(errMalformed, "field %q: %v", key, err)
		}
		doc.fields = append(doc.fields, jsonField{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, validation(errMalformed, "%v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, validation(errMalformed, "trailing data after top-level object")
	}
	return doc, nil
}

func (d *jsonDocument) lookup(key string) int {
	for i, f := range d.fields {
		if f.key == key {
			return i
		}
	}
	return -1
}

func (d *jsonDocument) Version() (string, error) {
	i := d.lookup(VersionKey)
	if i < 0 {
		return "", validation(errMissingVersion, "json")
	}
	raw := bytes.TrimSpace(d.fields[i].value)
	var v string
	if len(raw) == 0 || raw[0] != '"' {
		return "", validation(errVersionNotString, "%s", raw)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", validation(errVersionNotString, "%s", d.fields[i].value)
	}
	return v, nil
}

func (d *jsonDocument) SetVersion(v string) error {
	i := d.lookup(VersionKey)
	if i < 0 {
		return validation(errMissingVersion, "json")
	}
	raw, err := marshalString(v)
	if err != nil {
		return err
	}
	d.fields[i].value = raw
	return nil
}

// Encode writes the object with two-space indentation and a trailing newline.
func (d *jsonDocument) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if len(d.fields) == 0 {
		buf.WriteString("{}\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("{\n")
	for i, f := range d.fields {
		key, err := marshalString(f.key)
		if err != nil {
			return nil, err
		}
		buf.WriteString(jsonIndent)
		buf.Write(key)
		buf.WriteString(": ")
		if err := json.Indent(&buf, f.value, jsonIndent, jsonIndent); err != nil {
			return nil, validation(errMalformed, "field %q: %v", f.key, err)
		}
		if i < len(d.fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, validation(errMalformed, "%v", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
