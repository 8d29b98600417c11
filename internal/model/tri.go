package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Tri is an inheritable boolean setting. The zero value is Inherit.
type Tri int8

const (
	Inherit Tri = iota
	On
	Off
)

func TriOf(b bool) Tri {
	if b {
		return On
	}
	return Off
}

// Explicit reports the stored value and whether it is explicit.
func (t Tri) Explicit() (bool, bool) {
	switch t {
	case On:
		return true, true
	case Off:
		return false, true
	default:
		return false, false
	}
}

// Bool resolves Inherit to false. Use only where no inheritance applies.
func (t Tri) Bool() bool {
	v, _ := t.Explicit()
	return v
}

func (t Tri) Valid() bool { return t == Inherit || t == On || t == Off }

func (t Tri) String() string {
	switch t {
	case On:
		return "true"
	case Off:
		return "false"
	case Inherit:
		return "inherit"
	default:
		return fmt.Sprintf("Tri(%d)", int8(t))
	}
}

func ParseTri(s string) (Tri, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inherit", "null", "none", "":
		return Inherit, nil
	case "true", "on", "yes", "1", "enabled":
		return On, nil
	case "false", "off", "no", "0", "disabled":
		return Off, nil
	default:
		return Inherit, fmt.Errorf("invalid setting: %q (expected true|false|inherit)", s)
	}
}

func (t Tri) MarshalJSON() ([]byte, error) {
	switch t {
	case On:
		return []byte("true"), nil
	case Off:
		return []byte("false"), nil
	case Inherit:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("invalid tri-state value %d", int8(t))
	}
}

func (t *Tri) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "null":
		*t = Inherit
	case "true":
		*t = On
	case "false":
		*t = Off
	default:
		return fmt.Errorf("invalid tri-state value %s (expected true|false|null)", b)
	}
	return nil
}

var _ json.Marshaler = Tri(0)
