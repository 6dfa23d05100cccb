package flagset

// Flags is an immutable flag-set value: a bitmask bound to exactly one Type.
// Values of the same type with equal bits are interchangeable; values of
// different types never compare equal and never mix in arithmetic. The zero
// Flags value belongs to no type and is not usable.
type Flags struct {
	t    *Type
	bits uint64
}

// Type returns the owning flag type, nil for the zero value.
func (f Flags) Type() *Type { return f.t }

// TypeName returns the owning flag type's name, "" for the zero value.
func (f Flags) TypeName() string {
	if f.t == nil {
		return ""
	}
	return f.t.name
}

// Bits returns the raw bitmask.
func (f Flags) Bits() uint64 { return f.bits }

// Any reports whether at least one bit is set.
func (f Flags) Any() bool { return f.bits != 0 }

// Contains reports whether item's bits are a subset of f's bits.
// A value of another flag type is never contained.
func (f Flags) Contains(item Flags) bool {
	if item.t != f.t || f.t == nil {
		return false
	}
	return item.bits == f.bits&item.bits
}

// IsDisjoint reports whether f shares no bit with any of the given values.
// All of them must belong to f's type.
func (f Flags) IsDisjoint(others ...Flags) bool {
	for _, other := range others {
		f.mustSameType("is_disjoint", other)
		if f.bits&other.bits != 0 {
			return false
		}
	}
	return true
}

// derive exploits immutability: an unchanged bit pattern reuses the receiver,
// anything else goes through the masking/interning constructor.
func (f Flags) derive(bits uint64) Flags {
	if bits == f.bits {
		return f
	}
	return f.t.FromBits(bits)
}

func (f Flags) mustSameType(op string, other Flags) {
	if other.t != f.t || f.t == nil {
		panic(&TypeMismatchError{Op: op, Left: f.TypeName(), Right: other.TypeName()})
	}
}

func (f Flags) checkSameType(op string, other Flags) error {
	if other.t != f.t || f.t == nil {
		return &TypeMismatchError{Op: op, Left: f.TypeName(), Right: other.TypeName()}
	}
	return nil
}

// Or returns the union of the two sets. Both operands must belong to the
// same flag type; mixing types is a programming error and panics with a
// TypeMismatchError. TryOr is the checked form.
func (f Flags) Or(other Flags) Flags {
	f.mustSameType("|", other)
	return f.derive(f.bits | other.bits)
}

// And returns the intersection of the two sets.
func (f Flags) And(other Flags) Flags {
	f.mustSameType("&", other)
	return f.derive(f.bits & other.bits)
}

// Xor returns the symmetric difference of the two sets.
func (f Flags) Xor(other Flags) Flags {
	f.mustSameType("^", other)
	return f.derive(f.bits ^ other.bits)
}

// Sub returns the bits of f that are not in other.
func (f Flags) Sub(other Flags) Flags {
	f.mustSameType("-", other)
	return f.derive(f.bits ^ (f.bits & other.bits))
}

// Invert returns the complement within the type's bit union.
func (f Flags) Invert() Flags {
	if f.t == nil {
		return f
	}
	return f.derive(f.bits ^ f.t.allBits)
}

// TryOr is Or returning a TypeMismatchError instead of panicking when the
// operands belong to different flag types.
func (f Flags) TryOr(other Flags) (Flags, error) {
	if err := f.checkSameType("|", other); err != nil {
		return Flags{}, err
	}
	return f.derive(f.bits | other.bits), nil
}

// TryAnd is the checked form of And.
func (f Flags) TryAnd(other Flags) (Flags, error) {
	if err := f.checkSameType("&", other); err != nil {
		return Flags{}, err
	}
	return f.derive(f.bits & other.bits), nil
}

// TryXor is the checked form of Xor.
func (f Flags) TryXor(other Flags) (Flags, error) {
	if err := f.checkSameType("^", other); err != nil {
		return Flags{}, err
	}
	return f.derive(f.bits ^ other.bits), nil
}

// TrySub is the checked form of Sub.
func (f Flags) TrySub(other Flags) (Flags, error) {
	if err := f.checkSameType("-", other); err != nil {
		return Flags{}, err
	}
	return f.derive(f.bits ^ (f.bits & other.bits)), nil
}

// Equal reports whether both values belong to the same flag type and hold
// equal bits. Cross-type values are unequal, never an error.
func (f Flags) Equal(other Flags) bool {
	return f.t == other.t && f.bits == other.bits
}

// SubsetOf reports whether every bit of f is present in other.
// The comparison operators implement subset semantics, not numeric order.
func (f Flags) SubsetOf(other Flags) bool {
	if other.t != f.t || f.t == nil {
		return false
	}
	return f.bits == f.bits&other.bits
}

// ProperSubsetOf reports a subset with at least one bit missing from f.
func (f Flags) ProperSubsetOf(other Flags) bool {
	return f.bits != other.bits && f.SubsetOf(other)
}

// SupersetOf reports whether every bit of other is present in f.
func (f Flags) SupersetOf(other Flags) bool {
	if other.t != f.t || f.t == nil {
		return false
	}
	return other.bits == f.bits&other.bits
}

// ProperSupersetOf reports a superset with at least one extra bit in f.
func (f Flags) ProperSupersetOf(other Flags) bool {
	return f.bits != other.bits && f.SupersetOf(other)
}

// Hash combines the bits with a seed derived from the qualified type name,
// so equal bit patterns of different flag types stay distinguishable in
// hash-addressed containers that honor Equal.
func (f Flags) Hash() uint64 {
	if f.t == nil {
		return 0
	}
	return f.bits ^ f.t.hashSeed
}

// IsMember reports whether the bits match exactly one canonical member.
// A combination that merely contains members is not itself a member.
func (f Flags) IsMember() bool {
	_, ok := f.properties()
	return ok
}

// Properties returns the canonical member record matching the exact bit
// pattern, ok=false for combinations and the synthetic members.
func (f Flags) Properties() (Properties, bool) {
	props, ok := f.properties()
	if !ok {
		return Properties{}, false
	}
	return *props, true
}

func (f Flags) properties() (*Properties, bool) {
	if f.t == nil {
		return nil, false
	}
	props, ok := f.t.bitsToProps[f.bits]
	return props, ok
}

// Name returns the canonical member name for an exact member, "" otherwise.
func (f Flags) Name() string {
	props, ok := f.properties()
	if !ok {
		return ""
	}
	return props.name
}

// Data returns the payload attached to the matching canonical member.
// ok is false both when the bits match no member and when the member was
// declared without a payload; use Properties to tell the two apart.
func (f Flags) Data() (interface{}, bool) {
	props, ok := f.properties()
	if !ok {
		return nil, false
	}
	return props.data, props.hasData
}

// Members yields, in canonical declaration order, every canonical member
// whose bits are a subset of f. A member whose bits are a superset of
// another member's bits surfaces both; that mirrors the registry contract
// and is intentional.
func (f Flags) Members() []Flags {
	if f.t == nil {
		return nil
	}
	out := make([]Flags, 0, len(f.t.canonicalNames))
	for _, name := range f.t.canonicalNames {
		member := f.t.withoutAliases[name]
		if f.Contains(member) {
			out = append(out, member)
		}
	}
	return out
}

// MembersReversed is Members in reverse declaration order.
func (f Flags) MembersReversed() []Flags {
	members := f.Members()
	for i, j := 0, len(members)-1; i < j; i, j = i+1, j-1 {
		members[i], members[j] = members[j], members[i]
	}
	return members
}

// Len counts the members Members would yield.
func (f Flags) Len() int {
	if f.t == nil {
		return 0
	}
	n := 0
	for _, name := range f.t.canonicalNames {
		if f.Contains(f.t.withoutAliases[name]) {
			n++
		}
	}
	return n
}

// Has tests a declared member or alias by name, the attribute-style access
// of the registry. Synthetic names are not resolvable here; an unknown name
// is a NameError.
func (f Flags) Has(name string) (bool, error) {
	if f.t == nil {
		return false, &NameError{Name: name}
	}
	member, ok := f.t.members[name]
	if !ok {
		return false, &NameError{TypeName: f.t.name, Name: name}
	}
	return f.Contains(member), nil
}
