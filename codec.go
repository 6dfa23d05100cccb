package flagset

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"
	"strings"
)

// Encode renders the persisted wire form of a value: the compact string by
// default, the decimal bitmask when the type was built with WireInts.
func Encode(f Flags) string {
	if f.t != nil && f.t.wireInts {
		return strconv.FormatUint(f.bits, 10)
	}
	return f.SimpleString()
}

// Decode is the inverse of Encode for a known flag type.
func Decode(t *Type, s string) (Flags, error) {
	if t.wireInts {
		bits, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return Flags{}, newParseError(t.name, "", s, "%s: invalid integer wire form: %q", t.name, s)
		}
		return t.FromBits(bits), nil
	}
	return t.FromString(s)
}

// MarshalJSON emits the canonical string form, which embeds the type name
// and survives re-declarations with different bit assignments. Types built
// with WireInts emit the raw bitmask instead; that form can only be decoded
// through the type-directed paths (Decode, Scan).
func (f Flags) MarshalJSON() ([]byte, error) {
	if f.t != nil && f.t.wireInts {
		return json.Marshal(f.bits)
	}
	return json.Marshal(f.String())
}

// UnmarshalJSON decodes the canonical string form, resolving the embedded
// type name against the process-global registry.
func (f *Flags) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return newConstructionError("", string(data),
			"flag value %s isn't a string; integer wire forms need a type-directed decode", string(data))
	}
	decoded, err := decodeSelfDescribing(s)
	if err != nil {
		return err
	}
	*f = decoded
	return nil
}

// MarshalText emits the canonical string form regardless of WireInts; text
// encodings (map keys, flag files) stay readable.
func (f Flags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes the canonical string form through the registry.
func (f *Flags) UnmarshalText(text []byte) error {
	decoded, err := decodeSelfDescribing(string(text))
	if err != nil {
		return err
	}
	*f = decoded
	return nil
}

// decodeSelfDescribing splits "Type.member" / "Type(m1|m2)" input into the
// type-name prefix and the member part, then parses through that type. The
// compact form carries no type name and can't be decoded here.
func decodeSelfDescribing(s string) (Flags, error) {
	end := strings.IndexAny(s, "(.")
	if end <= 0 {
		return Flags{}, newParseError("", "", s,
			"flag string %q carries no type name; use a type-directed decode", s)
	}
	t, err := Resolve(s[:end])
	if err != nil {
		return Flags{}, err
	}
	return t.FromString(s)
}

// Value implements driver.Valuer using the Encode wire form.
func (f Flags) Value() (driver.Value, error) {
	if f.t != nil && f.t.wireInts {
		return int64(f.bits), nil
	}
	return f.SimpleString(), nil
}

// Scan is the type-directed SQL decode: NULL maps to the no-flags member,
// integers to the masked bitmask, strings and []byte to either grammar form.
func Scan(t *Type, src interface{}) (Flags, error) {
	switch v := src.(type) {
	case nil:
		return t.NoFlags(), nil
	case int64:
		if v < 0 {
			return Flags{}, newConstructionError(t.name, src,
				"can't scan negative value %d into flag type '%s'", v, t.name)
		}
		return t.FromBits(uint64(v)), nil
	case []byte:
		return Decode(t, string(v))
	case string:
		return Decode(t, v)
	default:
		return Flags{}, newConstructionError(t.name, src,
			"can't scan value %v (%T) into flag type '%s'", src, src, t.name)
	}
}
