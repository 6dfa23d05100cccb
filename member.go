package flagset

import "fmt"

// RawData wraps a payload that travels through the raw extraction rule
// untouched: the wrapped member keeps auto-assigned bits and carries V as
// its attached data.
type RawData struct {
	V interface{}
}

type memberKind int

const (
	kindAuto memberKind = iota
	kindBits
)

// MemberValue is the normalized form of one member declaration: bits are
// either auto-assigned or explicit, with an optional attached payload.
// The zero value means auto-assign without payload.
type MemberValue struct {
	kind    memberKind
	bits    uint64
	data    interface{}
	hasData bool
}

// AutoValue declares auto-assigned bits.
func AutoValue() MemberValue {
	return MemberValue{kind: kindAuto}
}

// BitsValue declares explicit bits.
func BitsValue(bits uint64) MemberValue {
	return MemberValue{kind: kindBits, bits: bits}
}

// WithData attaches a payload to the declaration. nil is a legal payload and
// is distinct from no payload at all.
func (v MemberValue) WithData(data interface{}) MemberValue {
	v.data = data
	v.hasData = true
	return v
}

// Member is a single (name, value) declaration consumed by Build.
type Member struct {
	name  string
	value MemberValue
	raw   interface{}
	isRaw bool
}

// Auto declares a member whose bit is picked by the builder.
func Auto(name string) Member {
	return Member{name: name, value: AutoValue()}
}

// Bits declares a member with an explicit bit pattern.
func Bits(name string, bits uint64) Member {
	return Member{name: name, value: BitsValue(bits)}
}

// Data declares an auto-assigned member carrying a payload.
func Data(name string, data interface{}) Member {
	return Member{name: name, value: AutoValue().WithData(data)}
}

// BitsData declares a member with an explicit bit pattern and a payload.
func BitsData(name string, bits uint64, data interface{}) Member {
	return Member{name: name, value: BitsValue(bits).WithData(data)}
}

// RawMember declares a member whose value is classified by the type's
// extraction rule at build time. The default rule is ExtractMemberValue.
func RawMember(name string, v interface{}) Member {
	return Member{name: name, raw: v, isRaw: true}
}

// Extractor turns the raw payload of one member declaration into its
// normalized value. Build installs ExtractMemberValue unless the type
// overrides it with WithExtractor.
type Extractor func(typeName, flagName string, raw interface{}) (MemberValue, error)

// ExtractMemberValue is the default extraction rule:
//   - nil: auto-assigned bits, no payload
//   - RawData: auto-assigned bits, wrapped payload
//   - MemberValue: taken as is
//   - a non-boolean integer: explicit bits, no payload
//   - a []interface{} of at most 2 items: (bits-or-nil, payload)
//
// Booleans and every other value are rejected with a DeclarationError
// naming the flag.
func ExtractMemberValue(typeName, flagName string, raw interface{}) (MemberValue, error) {
	switch v := raw.(type) {
	case nil:
		return AutoValue(), nil
	case RawData:
		return AutoValue().WithData(v.V), nil
	case MemberValue:
		return v, nil
	case []interface{}:
		switch len(v) {
		case 0:
			return AutoValue(), nil
		case 1:
			return AutoValue().WithData(v[0]), nil
		case 2:
			bits, auto, err := bitsFromValue(typeName, flagName, v[0])
			if err != nil {
				return MemberValue{}, err
			}
			if auto {
				return AutoValue().WithData(v[1]), nil
			}
			return BitsValue(bits).WithData(v[1]), nil
		default:
			return MemberValue{}, newDeclarationError(typeName, flagName,
				"expected at most 2 items (bits, data) for flag '%s', received %v", flagName, v)
		}
	default:
		bits, auto, err := bitsFromValue(typeName, flagName, raw)
		if err != nil {
			return MemberValue{}, err
		}
		if auto {
			return AutoValue(), nil
		}
		return BitsValue(bits), nil
	}
}

// bitsFromValue classifies one bits-position value: nil means auto-assign,
// non-boolean integers are explicit bits. bool is integer-like in some
// languages and is rejected on purpose.
func bitsFromValue(typeName, flagName string, v interface{}) (uint64, bool, error) {
	switch b := v.(type) {
	case nil:
		return 0, true, nil
	case bool:
		return 0, false, newDeclarationError(typeName, flagName,
			"bits for flag '%s' should be an int but it is %v (bool)", flagName, b)
	case int:
		return checkedBits(typeName, flagName, int64(b))
	case int8:
		return checkedBits(typeName, flagName, int64(b))
	case int16:
		return checkedBits(typeName, flagName, int64(b))
	case int32:
		return checkedBits(typeName, flagName, int64(b))
	case int64:
		return checkedBits(typeName, flagName, b)
	case uint:
		return uint64(b), false, nil
	case uint8:
		return uint64(b), false, nil
	case uint16:
		return uint64(b), false, nil
	case uint32:
		return uint64(b), false, nil
	case uint64:
		return b, false, nil
	default:
		return 0, false, newDeclarationError(typeName, flagName,
			"bits for flag '%s' should be an int but it is %v (%T)", flagName, v, v)
	}
}

func checkedBits(typeName, flagName string, b int64) (uint64, bool, error) {
	if b < 0 {
		return 0, false, newDeclarationError(typeName, flagName,
			"bits for flag '%s' must be non-negative, received %d", flagName, b)
	}
	return uint64(b), false, nil
}

func (m Member) String() string {
	return fmt.Sprintf("<member %s>", m.name)
}
