package configs

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Canonicalize rewrites a JSON document into its canonical form: object keys
// sorted, numbers kept as their literal tokens, no insignificant whitespace.
// Two documents with the same structure always canonicalize to the same
// bytes, which is what makes the derived hash usable for change detection.
func Canonicalize(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	err := dec.Decode(&v)
	if err != nil {
		return nil, fmt.Errorf("not a valid json document: %w", err)
	}

	var buf bytes.Buffer
	err = writeCanonical(&buf, v)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch value := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			err = writeCanonical(buf, value[k])
			if err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range value {
			if i > 0 {
				buf.WriteByte(',')
			}
			err := writeCanonical(buf, item)
			if err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case json.Number:
		buf.WriteString(value.String())
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(b)
	}

	return nil
}

// Hash returns the content hash of a JSON payload: sha256 over the canonical
// form, truncated to 16 hex characters for transport. Payloads that fail to
// parse as JSON are hashed over their raw bytes, with surrounding whitespace
// trimmed, so the result is still stable.
func Hash(data []byte) string {
	canonical, err := Canonicalize(data)
	if err != nil {
		canonical = bytes.TrimSpace(data)
	}

	sum := sha256.Sum256(canonical)
	return strings.ToLower(hex.EncodeToString(sum[:]))[:16]
}
