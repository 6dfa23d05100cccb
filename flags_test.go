package flagset

import (
	"sync"
	"testing"

	"gotest.tools/assert"
)

func testFlags(t *testing.T) *Type {
	t.Helper()
	return mustBuild(t, "MyFlags", []Member{
		Auto("f0"),
		Auto("f1"),
		Auto("f2"),
	})
}

func expectPanicValue(t *testing.T, check func(interface{}) bool, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		assert.Assert(t, r != nil, "expected a panic")
		assert.Assert(t, check(r), "unexpected panic value: %v", r)
	}()
	fn()
}

func TestArithmeticIdempotence(t *testing.T) {
	ft := testFlags(t)
	v := ft.MustMember("f0").Or(ft.MustMember("f2"))

	assert.Assert(t, v.Or(v).Equal(v))
	assert.Assert(t, v.And(v).Equal(v))
	assert.Assert(t, v.Sub(v).Equal(ft.NoFlags()))
	assert.Assert(t, v.Invert().Invert().Equal(v))
	assert.Assert(t, v.Xor(v).Equal(ft.NoFlags()))
}

func TestArithmeticScenario(t *testing.T) {
	ft := testFlags(t)
	f0 := ft.MustMember("f0")
	f2 := ft.MustMember("f2")
	v := f0.Or(f2)

	assert.Equal(t, v.String(), "MyFlags(f0|f2)")
	assert.Equal(t, v.Bits(), uint64(5))

	all := ft.AllFlags().Members()
	assert.Equal(t, len(all), 3)
	assert.Equal(t, all[0].Name(), "f0")
	assert.Equal(t, all[1].Name(), "f1")
	assert.Equal(t, all[2].Name(), "f2")
}

func TestDeriveReusesUnchangedReceiver(t *testing.T) {
	ft := testFlags(t)
	f0 := ft.MustMember("f0")

	assert.Assert(t, f0.Or(ft.NoFlags()) == f0)
	assert.Assert(t, f0.And(ft.AllFlags()) == f0)
}

func TestSubsetLaws(t *testing.T) {
	ft := testFlags(t)

	for _, m := range ft.Members() {
		assert.Assert(t, ft.AllFlags().Contains(m))
		assert.Assert(t, m.SubsetOf(ft.AllFlags()))
		assert.Assert(t, ft.NoFlags().SubsetOf(m))
	}

	f01 := ft.MustMember("f0").Or(ft.MustMember("f1"))
	assert.Assert(t, ft.MustMember("f0").ProperSubsetOf(f01))
	assert.Assert(t, f01.ProperSupersetOf(ft.MustMember("f1")))
	assert.Assert(t, !f01.ProperSubsetOf(f01))
	assert.Assert(t, f01.SubsetOf(f01))
	assert.Assert(t, f01.SupersetOf(f01))
}

func TestContains(t *testing.T) {
	ft := testFlags(t)
	f01 := ft.MustMember("f0").Or(ft.MustMember("f1"))

	assert.Assert(t, f01.Contains(ft.MustMember("f0")))
	assert.Assert(t, !f01.Contains(ft.MustMember("f2")))
	assert.Assert(t, f01.Contains(ft.NoFlags()))
}

func TestIsDisjoint(t *testing.T) {
	ft := testFlags(t)
	f0 := ft.MustMember("f0")
	f1 := ft.MustMember("f1")
	f2 := ft.MustMember("f2")

	assert.Assert(t, f0.IsDisjoint(f1, f2))
	assert.Assert(t, !f0.IsDisjoint(f1, f0.Or(f1)))
	assert.Assert(t, f0.IsDisjoint())
}

func TestCrossTypeComparisonsAreFalse(t *testing.T) {
	left := mustBuild(t, "Left", []Member{Auto("a")})
	right := mustBuild(t, "Right", []Member{Auto("a")})

	la := left.MustMember("a")
	ra := right.MustMember("a")
	assert.Equal(t, la.Bits(), ra.Bits())

	assert.Assert(t, !la.Equal(ra))
	assert.Assert(t, !la.SubsetOf(ra))
	assert.Assert(t, !la.SupersetOf(ra))
	assert.Assert(t, !la.Contains(ra))
	assert.Assert(t, la.Hash() != 0)
}

func TestCrossTypeArithmeticPanics(t *testing.T) {
	left := mustBuild(t, "Left", []Member{Auto("a")})
	right := mustBuild(t, "Right", []Member{Auto("a")})

	expectPanicValue(t, func(r interface{}) bool {
		err, ok := r.(error)
		return ok && IsTypeMismatchError(err)
	}, func() {
		left.MustMember("a").Or(right.MustMember("a"))
	})
}

func TestCrossTypeTryArithmeticReturnsError(t *testing.T) {
	left := mustBuild(t, "Left", []Member{Auto("a")})
	right := mustBuild(t, "Right", []Member{Auto("a")})

	_, err := left.MustMember("a").TryOr(right.MustMember("a"))
	assert.Assert(t, IsTypeMismatchError(err))
	assert.ErrorContains(t, err, "'Left'")
	assert.ErrorContains(t, err, "'Right'")

	same, err := left.MustMember("a").TryOr(left.NoFlags())
	assert.NilError(t, err)
	assert.Assert(t, same.Equal(left.MustMember("a")))
}

func TestIsMemberExactMatchOnly(t *testing.T) {
	ft := testFlags(t)
	f0 := ft.MustMember("f0")
	combo := f0.Or(ft.MustMember("f1"))

	assert.Assert(t, f0.IsMember())
	assert.Assert(t, !combo.IsMember())

	_, ok := combo.Properties()
	assert.Assert(t, !ok)
	assert.Equal(t, combo.Name(), "")
	_, ok = combo.Data()
	assert.Assert(t, !ok)
}

func TestSupersetMemberIteration(t *testing.T) {
	// wide's bits are a strict superset of narrow's, both stay canonical
	ft := mustBuild(t, "Overlap", []Member{
		Bits("narrow", 0x1),
		Bits("wide", 0x3),
	})

	wide := ft.MustMember("wide")
	assert.Assert(t, wide.IsMember())
	assert.Equal(t, wide.Name(), "wide")

	// iterating the wide member surfaces the contained narrow member too
	members := wide.Members()
	assert.Equal(t, len(members), 2)
	assert.Equal(t, members[0].Name(), "narrow")
	assert.Equal(t, members[1].Name(), "wide")
	assert.Equal(t, wide.Len(), 2)

	reversed := wide.MembersReversed()
	assert.Equal(t, reversed[0].Name(), "wide")
	assert.Equal(t, reversed[1].Name(), "narrow")

	// the wide member therefore renders in the multi-member form
	assert.Equal(t, wide.String(), "Overlap(narrow|wide)")
}

func TestHasByName(t *testing.T) {
	ft := mustBuild(t, "MyFlags", []Member{
		Bits("first", 0x1),
		Bits("second", 0x2),
		Bits("one", 0x1), // alias
	})

	v := ft.MustMember("first")
	ok, err := v.Has("first")
	assert.NilError(t, err)
	assert.Assert(t, ok)

	// aliases resolve too
	ok, err = v.Has("one")
	assert.NilError(t, err)
	assert.Assert(t, ok)

	ok, err = v.Has("second")
	assert.NilError(t, err)
	assert.Assert(t, !ok)

	_, err = v.Has("missing")
	assert.Assert(t, IsNameError(err))
	assert.ErrorContains(t, err, "missing")

	// synthetic names are not reachable through the attribute path
	_, err = v.Has("no_flags")
	assert.Assert(t, IsNameError(err))
}

func TestFromBitsMasksUndeclaredBits(t *testing.T) {
	ft := testFlags(t)

	v := ft.FromBits(0xff)
	assert.Equal(t, v.Bits(), uint64(0x7))
	assert.Assert(t, v.Equal(ft.AllFlags()))

	assert.Assert(t, ft.FromBits(0).Equal(ft.NoFlags()))
}

func TestFromBitsInternsCombinations(t *testing.T) {
	ft := testFlags(t)
	assert.Equal(t, ft.InternedCombinations(), int64(0))

	a := ft.FromBits(0x3)
	b := ft.FromBits(0x3)
	assert.Assert(t, a == b)
	assert.Equal(t, ft.InternedCombinations(), int64(1))

	// canonical patterns come from the build-time table, not the lazy cache
	_ = ft.FromBits(0x1)
	assert.Equal(t, ft.InternedCombinations(), int64(1))
}

func TestDynamicConstructor(t *testing.T) {
	ft := testFlags(t)

	v, err := ft.From(nil)
	assert.NilError(t, err)
	assert.Assert(t, v.Equal(ft.NoFlags()))

	f0 := ft.MustMember("f0")
	v, err = ft.From(f0)
	assert.NilError(t, err)
	assert.Assert(t, v == f0)

	v, err = ft.From("f0|f2")
	assert.NilError(t, err)
	assert.Equal(t, v.Bits(), uint64(5))

	v, err = ft.From(5)
	assert.NilError(t, err)
	assert.Equal(t, v.Bits(), uint64(5))

	_, err = ft.From(true)
	assert.Assert(t, IsConstructionError(err))

	_, err = ft.From(1.5)
	assert.Assert(t, IsConstructionError(err))

	other := mustBuild(t, "Other", []Member{Auto("a")})
	_, err = ft.From(other.MustMember("a"))
	assert.Assert(t, IsConstructionError(err))
	assert.ErrorContains(t, err, "'Other'")
}

func TestHashDistinguishesTypesWithEqualBits(t *testing.T) {
	left := mustBuild(t, "Left", []Member{Auto("a")})
	right := mustBuild(t, "Right", []Member{Auto("a")})

	la := left.MustMember("a")
	ra := right.MustMember("a")

	// equality must differ; the hash seeds make collisions unlikely too
	assert.Assert(t, !la.Equal(ra))
	assert.Assert(t, la.Hash() != ra.Hash())
	assert.Equal(t, la.Hash(), left.MustMember("a").Hash())
}

func TestFlagsUsableAsMapKeys(t *testing.T) {
	ft := testFlags(t)
	seen := map[Flags]string{
		ft.MustMember("f0"): "first",
	}
	assert.Equal(t, seen[ft.MustMember("f0")], "first")
	_, ok := seen[ft.MustMember("f1")]
	assert.Assert(t, !ok)
}

func TestTypeLevelIteration(t *testing.T) {
	ft := mustBuild(t, "MyFlags", []Member{
		Bits("a", 0x1),
		Bits("b", 0x2),
		Bits("a2", 0x1), // alias, skipped in iteration
	})

	assert.Equal(t, ft.Len(), 2)
	members := ft.Members()
	assert.Equal(t, len(members), 2)
	assert.Equal(t, members[0].Name(), "a")
	assert.Equal(t, members[1].Name(), "b")

	reversed := ft.MembersReversed()
	assert.Equal(t, reversed[0].Name(), "b")
	assert.Equal(t, reversed[1].Name(), "a")
}

func TestConcurrentArithmeticInterning(t *testing.T) {
	ft := testFlags(t)
	f0 := ft.MustMember("f0")
	f1 := ft.MustMember("f1")

	var wg sync.WaitGroup
	results := make([]Flags, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f0.Or(f1)
		}(i)
	}
	wg.Wait()

	for _, v := range results {
		assert.Assert(t, v == results[0])
	}
	assert.Equal(t, ft.InternedCombinations(), int64(1))
}

func TestRegisterAfterFreezePanics(t *testing.T) {
	ft := testFlags(t)
	expectPanicValue(t, func(r interface{}) bool {
		err, ok := r.(error)
		return ok && IsProtectedError(err)
	}, func() {
		_, _ = ft.register("late", 0x8, MemberValue{}, false)
	})
}
