package flagset

import (
	"sort"
	"strings"
)

// Unique rejects flag types that declare aliases: two members sharing one
// bit pattern. The returned error lists every alias and its canonical name.
func Unique(t *Type) error {
	if len(t.aliases) == 0 {
		return nil
	}
	pairs := make([]string, 0, len(t.aliases))
	for alias, name := range t.aliases {
		pairs = append(pairs, alias+" -> "+name)
	}
	sort.Strings(pairs)
	return newDeclarationError(t.name, "",
		"duplicate values found in %s: %s", t.String(), strings.Join(pairs, ", "))
}

// UniqueBits additionally rejects canonical members with overlapping bits,
// so every member owns a disjoint bit set.
func UniqueBits(t *Type) error {
	if err := Unique(t); err != nil {
		return err
	}
	seen := uint64(0)
	for _, name := range t.canonicalNames {
		bits := t.withoutAliases[name].bits
		if seen&bits != 0 {
			for _, otherName := range t.canonicalNames {
				if otherName == name {
					break
				}
				if t.withoutAliases[otherName].bits&bits != 0 {
					return newDeclarationError(t.name, name,
						"%s: '%s' and '%s' have overlapping bits", t.String(), otherName, name)
				}
			}
		}
		seen |= bits
	}
	return nil
}

// MustUnique chains the Unique check at a declaration site:
//
//	var Perm = flagset.MustUnique(flagset.MustNew("Perm", "r w x"))
func MustUnique(t *Type) *Type {
	if err := Unique(t); err != nil {
		panic(err)
	}
	return t
}

// MustUniqueBits chains the UniqueBits check at a declaration site.
func MustUniqueBits(t *Type) *Type {
	if err := UniqueBits(t); err != nil {
		panic(err)
	}
	return t
}
