// Package cardsign implements §4.5's agent card signing: canonical
// serialization (recursive lexicographic key sort, signature field
// omitted) plus HMAC-SHA-256 over that serialization.
package cardsign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
)

// algorithmPrefix tags the signature's format, "hmac-sha256:<base64>".
const algorithmPrefix = "hmac-sha256"

// Sign computes the card's signature and returns it in the
// "hmac-sha256:<base64>" form; it does not mutate card.
func Sign(card any, secret string) (string, error) {
	canonical, err := canonicalize(card)
	if err != nil {
		return "", fmt.Errorf("canonicalize card: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(canonical)
	sum := mac.Sum(nil)

	return algorithmPrefix + ":" + base64.StdEncoding.EncodeToString(sum), nil
}

// Verify recomputes the signature over card (ignoring any existing
// signature field) and constant-time-compares it against signature. Any
// missing field, unknown algorithm prefix, or mismatch yields false.
func Verify(card any, secret, signature string) bool {
	if len(signature) <= len(algorithmPrefix)+1 || signature[:len(algorithmPrefix)] != algorithmPrefix {
		return false
	}
	encoded := signature[len(algorithmPrefix)+1:]

	given, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}

	canonical, err := canonicalize(card)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(canonical)
	expected := mac.Sum(nil)

	return hmac.Equal(expected, given)
}

// canonicalize marshals v to JSON, decodes it into a generic tree, strips
// any top-level "signature" field, and re-serializes with every object's
// keys sorted lexicographically, recursively.
func canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}

	stripSignature(generic)

	var buf []byte
	buf, err = encodeCanonical(generic)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func stripSignature(v any) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}
	delete(m, "signature")
}

// encodeCanonical serializes v as compact JSON with object keys sorted
// lexicographically at every level.
func encodeCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := []byte{'{'}
		for i, k := range keys {
			if i > 0 {
				out = append(out, ',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			out = append(out, keyJSON...)
			out = append(out, ':')

			valueJSON, err := encodeCanonical(val[k])
			if err != nil {
				return nil, err
			}
			out = append(out, valueJSON...)
		}
		out = append(out, '}')
		return out, nil

	case []any:
		out := []byte{'['}
		for i, item := range val {
			if i > 0 {
				out = append(out, ',')
			}
			itemJSON, err := encodeCanonical(item)
			if err != nil {
				return nil, err
			}
			out = append(out, itemJSON...)
		}
		out = append(out, ']')
		return out, nil

	default:
		return json.Marshal(val)
	}
}
