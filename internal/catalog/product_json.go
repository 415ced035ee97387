package catalog

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

var productKeys = []string{"id", "name", "category", "description", "price", "imageUrl"}

// productFields has Product's layout without its JSON methods.
type productFields Product

func isProductKey(k string) bool {
	for _, known := range productKeys {
		// encoding/json matches field names case-insensitively
		if strings.EqualFold(k, known) {
			return true
		}
	}
	return false
}

func (p *Product) UnmarshalJSON(b []byte) error {
	var f productFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*p = Product(f)
	p.Extra = nil
	for k, v := range raw {
		if isProductKey(k) {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage, len(raw))
		}
		p.Extra[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

// MarshalJSON writes the known fields first, then Extra in key order. Extra
// entries that collide with a known field are skipped.
func (p Product) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(productFields(p))
	if err != nil || len(p.Extra) == 0 {
		return known, err
	}

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		if !isProductKey(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(known[:len(known)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		if v := p.Extra[k]; len(v) > 0 {
			buf.Write(v)
		} else {
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Clone returns a copy of p whose Extra shares nothing with p.
func (p Product) Clone() Product {
	if p.Extra == nil {
		return p
	}
	extra := make(map[string]json.RawMessage, len(p.Extra))
	for k, v := range p.Extra {
		extra[k] = append(json.RawMessage(nil), v...)
	}
	p.Extra = extra
	return p
}
