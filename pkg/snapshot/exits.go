package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Exit is one entry of the directions object. Destination holds the string
// value, or the raw JSON text for non-string values.
type Exit struct {
	Direction   string
	Destination string
	Open        bool

	raw json.RawMessage
}

// NewExit builds an exit to a named destination. An empty destination is
// a closed exit.
func NewExit(direction, destination string) Exit {
	return Exit{Direction: direction, Destination: destination, Open: destination != ""}
}

// Exits keeps the directions object in the order the server sent its keys.
type Exits []Exit

// Open returns only the exits that lead somewhere, in server order.
func (e Exits) Open() Exits {
	out := make(Exits, 0, len(e))
	for _, exit := range e {
		if exit.Open {
			out = append(out, exit)
		}
	}
	return out
}

func (e *Exits) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*e = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("directions: expected object, got %v", tok)
	}

	out := Exits{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("directions: expected key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("directions: %s: %w", key, err)
		}
		exit, err := newExit(key, raw)
		if err != nil {
			return err
		}
		// duplicate keys: last one wins, as with a JS object
		if i := out.index(key); i >= 0 {
			out[i] = exit
			continue
		}
		out = append(out, exit)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*e = out
	return nil
}

func (e Exits) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, exit := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(exit.Direction)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		switch {
		case len(exit.raw) > 0:
			buf.Write(exit.raw)
		case exit.Open:
			dest, err := json.Marshal(exit.Destination)
			if err != nil {
				return nil, err
			}
			buf.Write(dest)
		default:
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e Exits) index(direction string) int {
	for i, exit := range e {
		if exit.Direction == direction {
			return i
		}
	}
	return -1
}

// newExit applies JavaScript truthiness to the raw destination: null, false,
// 0 and "" are closed, everything else is open.
func newExit(direction string, raw json.RawMessage) (Exit, error) {
	exit := Exit{Direction: direction, raw: append(json.RawMessage{}, raw...)}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return Exit{}, fmt.Errorf("directions: %s: %w", direction, err)
	}

	switch val := v.(type) {
	case nil:
	case string:
		exit.Destination = val
		exit.Open = val != ""
	case bool:
		exit.Destination = strconv.FormatBool(val)
		exit.Open = val
	case json.Number:
		exit.Destination = val.String()
		f, err := val.Float64()
		exit.Open = err != nil || f != 0
	default:
		exit.Destination = string(raw)
		exit.Open = true
	}
	return exit, nil
}
