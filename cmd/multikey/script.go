package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tailscale/hujson"

	"github.com/tailored-agentic-units/multikey/multikey"
)

const absent = "absent"

var errUnknownOperation = errors.New("unknown operation")

// operation is one step of a script. Which fields are read depends on Op.
type operation struct {
	Op        string          `json:"op"`
	Keys      []string        `json:"keys,omitempty"`
	Key       string          `json:"key,omitempty"`
	Item      json.RawMessage `json:"item,omitempty"`
	Overwrite bool            `json:"overwrite,omitempty"`
	Digest    string          `json:"digest,omitempty"`
}

type handler func(m *multikey.Map[string, any], op operation) (string, error)

var handlers = map[string]handler{
	"add":     handleAdd,
	"set":     handleSet,
	"set_one": handleSetOne,
	"get":     handleGet,
	"exists":  handleExists,
	"index":   handleIndex,
	"hash":    handleHash,
	"digest":  handleDigest,
	"lookup":  handleLookup,
}

func parseScript(data []byte) ([]operation, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var ops []operation
	if err := json.Unmarshal(standardized, &ops); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return ops, nil
}

// runScript applies ops in order, writing one line per operation and a final
// length line. Failed operations are reported and skipped. Returns the number
// of failures.
func runScript(w io.Writer, m *multikey.Map[string, any], ops []operation) int {
	failed := 0
	for i, op := range ops {
		out, err := dispatch(m, op)
		if err != nil {
			fmt.Fprintf(w, "[%d] %s: error: %v\n", i+1, op.Op, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "[%d] %s: %s\n", i+1, op.Op, out)
	}
	fmt.Fprintf(w, "length: %d\n", m.Len())
	return failed
}

func dispatch(m *multikey.Map[string, any], op operation) (string, error) {
	h, ok := handlers[op.Op]
	if !ok {
		return "", fmt.Errorf("%w: %q", errUnknownOperation, op.Op)
	}
	return h(m, op)
}

func decodeItem(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var item any
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("invalid item: %w", err)
	}
	return item, nil
}

func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func index(i int, ok bool) string {
	if !ok {
		return absent
	}
	return strconv.Itoa(i)
}

func handleAdd(m *multikey.Map[string, any], op operation) (string, error) {
	item, err := decodeItem(op.Item)
	if err != nil {
		return "", err
	}
	if err := m.Add(op.Keys, item, op.Overwrite); err != nil {
		return "", err
	}
	return "ok", nil
}

func handleSet(m *multikey.Map[string, any], op operation) (string, error) {
	item, err := decodeItem(op.Item)
	if err != nil {
		return "", err
	}
	if err := m.Set(op.Keys, item); err != nil {
		return "", err
	}
	return "ok", nil
}

func handleSetOne(m *multikey.Map[string, any], op operation) (string, error) {
	item, err := decodeItem(op.Item)
	if err != nil {
		return "", err
	}
	if err := m.SetOne(op.Key, item); err != nil {
		return "", err
	}
	return "ok", nil
}

func handleGet(m *multikey.Map[string, any], op operation) (string, error) {
	item, ok := m.Get(op.Key)
	if !ok {
		return absent, nil
	}
	return encode(item), nil
}

func handleExists(m *multikey.Map[string, any], op operation) (string, error) {
	return encode(m.KeysExists(op.Keys)), nil
}

func handleIndex(m *multikey.Map[string, any], op operation) (string, error) {
	return index(m.IndexOfKey(op.Key)), nil
}

func handleHash(m *multikey.Map[string, any], op operation) (string, error) {
	return index(m.IndexOfHash(op.Digest)), nil
}

func handleDigest(m *multikey.Map[string, any], op operation) (string, error) {
	i, ok := m.IndexOfKey(op.Key)
	if !ok {
		return absent, nil
	}
	digest, ok := m.DigestAt(i)
	if !ok {
		return absent, nil
	}
	return digest, nil
}

func handleLookup(m *multikey.Map[string, any], op operation) (string, error) {
	item, err := decodeItem(op.Item)
	if err != nil {
		return "", err
	}
	i, ok, err := m.Lookup(item)
	if err != nil {
		return "", err
	}
	return index(i, ok), nil
}
