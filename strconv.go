package flagset

import "strings"

// String renders the canonical form: "Type.member" when the value contains
// exactly one canonical member, "Type(m1|m2)" otherwise, empty parens for
// the zero flag. The output is re-parsable by FromString.
func (f Flags) String() string {
	if f.t == nil {
		return ""
	}
	contained := f.Members()
	if len(contained) == 1 {
		return f.t.name + "." + contained[0].Name()
	}
	return f.t.name + "(" + f.SimpleString() + ")"
}

// SimpleString renders the compact member-list form: member names joined by
// '|' without the type name, empty for the zero flag.
func (f Flags) SimpleString() string {
	contained := f.Members()
	names := make([]string, 0, len(contained))
	for _, member := range contained {
		names = append(names, member.Name())
	}
	return strings.Join(names, "|")
}

// FromString builds a value from either grammar form accepted by
// BitsFromString.
func (t *Type) FromString(s string) (Flags, error) {
	bits, err := t.BitsFromString(s)
	if err != nil {
		return Flags{}, err
	}
	return t.FromBits(bits), nil
}

// FromSimpleString builds a value from the compact member-list form only.
func (t *Type) FromSimpleString(s string) (Flags, error) {
	bits, err := t.BitsFromSimpleString(s)
	if err != nil {
		return Flags{}, err
	}
	return t.FromBits(bits), nil
}

// MustFromString is FromString for declaration sites; it panics on error.
func (t *Type) MustFromString(s string) Flags {
	f, err := t.FromString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// BitsFromString parses the canonical grammar. Input that doesn't start with
// the type name followed by '(' or '.' falls back to the compact form. A
// dotted name resolves against every registered name, synthetic ones
// included. An unmatched '(' or any other follow-up character is a
// ParseError describing the input.
func (t *Type) BitsFromString(s string) (uint64, error) {
	if len(s) <= len(t.name) || !strings.HasPrefix(s, t.name) {
		return t.BitsFromSimpleString(s)
	}
	switch s[len(t.name)] {
	case '(':
		if !strings.HasSuffix(s, ")") {
			return 0, newParseError(t.name, "", s, "%s: invalid input: %q (unmatched parenthesis)", t.name, s)
		}
		return t.BitsFromSimpleString(s[len(t.name)+1 : len(s)-1])
	case '.':
		name := s[len(t.name)+1:]
		member, ok := t.allMembers[name]
		if !ok {
			return 0, newParseError(t.name, name, s, "invalid flag '%s.%s' in string %q", t.name, name, s)
		}
		return member.bits, nil
	default:
		return 0, newParseError(t.name, "", s, "%s: invalid input: %q", t.name, s)
	}
}

// BitsFromSimpleString parses the compact form: tokens split on '|', each
// trimmed, empty tokens dropped, every remaining token resolved against the
// registered names. An unknown token is a ParseError naming it.
func (t *Type) BitsFromSimpleString(s string) (uint64, error) {
	bits := uint64(0)
	for _, token := range strings.Split(s, "|") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		member, ok := t.allMembers[token]
		if !ok {
			return 0, newParseError(t.name, token, s, "invalid flag '%s.%s' in string %q", t.name, token, s)
		}
		bits |= member.bits
	}
	return bits, nil
}
