package flagset

import (
	"hash/fnv"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Properties is the per-member record of a flag type. Instances become
// immutable once the owning type is built; all fields are reachable through
// accessors only.
type Properties struct {
	name                string
	bits                uint64
	data                interface{}
	hasData             bool
	index               int
	indexWithoutAliases int
}

func (p Properties) Name() string { return p.name }
func (p Properties) Bits() uint64 { return p.bits }

// Data returns the attached payload. ok is false when the member was declared
// without one; note that a nil payload with ok=true is a different thing.
func (p Properties) Data() (interface{}, bool) { return p.data, p.hasData }

// Index is the member's position among declared members, aliases included.
func (p Properties) Index() int { return p.index }

// IndexWithoutAliases is the member's position among canonical members.
// ok is false for aliases.
func (p Properties) IndexWithoutAliases() (int, bool) {
	if p.indexWithoutAliases < 0 {
		return 0, false
	}
	return p.indexWithoutAliases, true
}

// Type is a finalized flag type: the registry of its members, their bit
// assignments and the two synthetic no-flags/all-flags anchors. A Type is
// built exactly once by Build and is read-only afterward, so lookups need
// no locking.
type Type struct {
	name     string
	module   string
	allBits  uint64
	wireInts bool
	hashSeed uint64

	allNames       []string // registration order, synthetic names included
	memberNames    []string // declared members and aliases
	canonicalNames []string // canonical members only, iteration order

	allMembers     map[string]Flags
	members        map[string]Flags
	withoutAliases map[string]Flags
	bitsToProps    map[uint64]*Properties
	bitsToInstance map[uint64]Flags
	aliases        map[string]string

	noFlags      Flags
	allFlags     Flags
	noFlagsName  string // empty when the named alias is disabled
	allFlagsName string

	frozen   atomic.Bool
	combos   sync.Map // bits -> Flags, lazily interned combinations
	interned atomic.Int64

	lgr *zap.Logger
}

// Name returns the declared type name, e.g. "Permissions".
func (t *Type) Name() string { return t.name }

// QualifiedName prefixes the name with the owning module when one was set
// with InModule.
func (t *Type) QualifiedName() string {
	if t.module == "" {
		return t.name
	}
	return t.module + "." + t.name
}

// AllBits is the union of every canonical member's bits. Constructed values
// are masked against it.
func (t *Type) AllBits() uint64 { return t.allBits }

// Len counts canonical members; aliases and synthetic members are excluded.
func (t *Type) Len() int { return len(t.canonicalNames) }

// Members returns the canonical members in declaration order.
func (t *Type) Members() []Flags {
	out := make([]Flags, 0, len(t.canonicalNames))
	for _, name := range t.canonicalNames {
		out = append(out, t.withoutAliases[name])
	}
	return out
}

// MembersReversed returns the canonical members in reverse declaration order.
func (t *Type) MembersReversed() []Flags {
	members := t.Members()
	for i, j := 0, len(members)-1; i < j; i, j = i+1, j-1 {
		members[i], members[j] = members[j], members[i]
	}
	return members
}

// MemberNames returns the canonical member names in declaration order.
func (t *Type) MemberNames() []string {
	return append([]string(nil), t.canonicalNames...)
}

// AllMemberNames returns every registered name in registration order:
// declared members, aliases and the enabled synthetic names.
func (t *Type) AllMemberNames() []string {
	return append([]string(nil), t.allNames...)
}

// Member resolves any registered name, synthetic names included.
func (t *Type) Member(name string) (Flags, bool) {
	m, ok := t.allMembers[name]
	return m, ok
}

// MustMember is Member for declaration sites; it panics with a NameError
// when the name isn't registered.
func (t *Type) MustMember(name string) Flags {
	m, ok := t.allMembers[name]
	if !ok {
		panic(&NameError{TypeName: t.name, Name: name})
	}
	return m
}

// Properties resolves a declared member or alias name to the canonical
// properties of its bit pattern.
func (t *Type) Properties(name string) (Properties, bool) {
	m, ok := t.members[name]
	if !ok {
		return Properties{}, false
	}
	props, ok := t.bitsToProps[m.bits]
	if !ok {
		return Properties{}, false
	}
	return *props, true
}

// Aliases returns the alias-name to canonical-name mapping.
func (t *Type) Aliases() map[string]string {
	out := make(map[string]string, len(t.aliases))
	for alias, name := range t.aliases {
		out[alias] = name
	}
	return out
}

// NoFlags returns the synthetic zero-bits member.
func (t *Type) NoFlags() Flags { return t.noFlags }

// AllFlags returns the synthetic member holding every declared bit.
func (t *Type) AllFlags() Flags { return t.allFlags }

// NoFlagsName reports the name the zero member is exposed under;
// ok is false when the named alias was disabled.
func (t *Type) NoFlagsName() (string, bool) {
	return t.noFlagsName, t.noFlagsName != ""
}

// AllFlagsName reports the name the full member is exposed under;
// ok is false when the named alias was disabled.
func (t *Type) AllFlagsName() (string, bool) {
	return t.allFlagsName, t.allFlagsName != ""
}

// InternedCombinations counts the distinct non-canonical bit patterns that
// arithmetic has interned so far.
func (t *Type) InternedCombinations() int64 {
	return t.interned.Load()
}

func (t *Type) String() string {
	return "<flags " + t.name + ">"
}

// FromBits builds a value of this type from a raw bitmask. Bits outside
// AllBits are dropped; that is the masking policy, not an error. Canonical
// patterns come from the build-time intern table, combinations go through a
// lazy insert-if-absent cache that is safe for concurrent arithmetic.
func (t *Type) FromBits(b uint64) Flags {
	bits := b & t.allBits
	if inst, ok := t.bitsToInstance[bits]; ok {
		return inst
	}
	if v, ok := t.combos.Load(bits); ok {
		return v.(Flags)
	}
	actual, loaded := t.combos.LoadOrStore(bits, Flags{t: t, bits: bits})
	if !loaded {
		t.interned.Inc()
	}
	return actual.(Flags)
}

// From is the dynamic constructor. It accepts nil (the no-flags member), a
// Flags value of this very type (returned unchanged), a string in either
// grammar form, or a non-boolean integer. Everything else is a
// ConstructionError.
func (t *Type) From(value interface{}) (Flags, error) {
	switch v := value.(type) {
	case nil:
		return t.noFlags, nil
	case Flags:
		if v.t != t {
			return Flags{}, newConstructionError(t.name, v,
				"can't instantiate flag type '%s' from a value of flag type '%s'", t.name, v.TypeName())
		}
		return v, nil
	case string:
		return t.FromString(v)
	default:
		bits, auto, err := bitsFromValue(t.name, "", v)
		if err != nil || auto {
			return Flags{}, newConstructionError(t.name, value,
				"can't instantiate flag type '%s' from value %v (%T)", t.name, value, value)
		}
		return t.FromBits(bits), nil
	}
}

// register appends one member to the registry. Only the builder calls it;
// once the type is frozen any further call is an internal error.
func (t *Type) register(name string, bits uint64, value MemberValue, special bool) (Flags, error) {
	if t.frozen.Load() {
		panic(&ProtectedError{
			TypeName: t.name,
			msg:      "flag type '" + t.name + "' is finalized, member '" + name + "' can't be registered",
		})
	}
	if name == "" {
		return Flags{}, newDeclarationError(t.name, name, "flag type '%s': member name must not be empty", t.name)
	}
	if !special && bits == 0 {
		return Flags{}, newDeclarationError(t.name, name, "flag '%s' has the invalid value of zero", name)
	}

	member := t.instantiate(name, bits)

	if _, ok := t.allMembers[name]; ok {
		return Flags{}, newDeclarationError(t.name, name, "duplicate flag name: '%s'", name)
	}
	t.allMembers[name] = member
	t.allNames = append(t.allNames, name)

	// A later member with the same bits replaces an equivalent instance,
	// so overwriting here is harmless.
	t.bitsToInstance[bits] = member

	if special {
		return member, nil
	}

	props := &Properties{
		name:                name,
		bits:                bits,
		data:                value.data,
		hasData:             value.hasData,
		index:               len(t.memberNames),
		indexWithoutAliases: -1,
	}
	t.members[name] = member
	t.memberNames = append(t.memberNames, name)

	if canonical, ok := t.bitsToProps[bits]; ok {
		if value.hasData {
			return Flags{}, newDeclarationError(t.name, name,
				"flag '%s' is an alias of '%s', aliases can't carry data", name, canonical.name)
		}
		t.aliases[name] = canonical.name
	} else {
		props.indexWithoutAliases = len(t.canonicalNames)
		t.canonicalNames = append(t.canonicalNames, name)
		t.withoutAliases[name] = member
		t.bitsToProps[bits] = props
	}
	return member, nil
}

// instantiate creates the member value and verifies the masking path did not
// silently alter the requested bits. During the build allBits is still the
// full 64-bit mask, so a mismatch means a registry bug.
func (t *Type) instantiate(name string, bits uint64) Flags {
	member := Flags{t: t, bits: bits & t.allBits}
	if member.bits != bits {
		panic(&ProtectedError{
			TypeName: t.name,
			msg:      "flag type '" + t.name + "' altered the assigned bits of member '" + name + "'",
		})
	}
	return member
}

func hashSeed(qualifiedName string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(qualifiedName))
	return h.Sum64()
}
