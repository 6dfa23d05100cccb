package flagset

import (
	"strings"

	"github.com/flagkit/flagset/util"
	"go.uber.org/zap"
)

const (
	defaultNoFlagsName  = "no_flags"
	defaultAllFlagsName = "all_flags"
)

type config struct {
	module       string
	noFlagsName  string
	allFlagsName string
	wireInts     bool
	extractor    Extractor
	lgr          *zap.Logger
}

func defaultConfig() config {
	return config{
		noFlagsName:  defaultNoFlagsName,
		allFlagsName: defaultAllFlagsName,
		extractor:    ExtractMemberValue,
		lgr:          zap.NewNop(),
	}
}

// Option configures one flag type at build time.
type Option func(*config)

// NoFlagsName exposes the synthetic zero member under the given name.
// The default is "no_flags".
func NoFlagsName(name string) Option {
	return func(c *config) { c.noFlagsName = name }
}

// AllFlagsName exposes the synthetic full member under the given name.
// The default is "all_flags".
func AllFlagsName(name string) Option {
	return func(c *config) { c.allFlagsName = name }
}

// DisableNoFlagsName suppresses the named alias of the zero member.
// The synthetic member itself always exists.
func DisableNoFlagsName() Option {
	return func(c *config) { c.noFlagsName = "" }
}

// DisableAllFlagsName suppresses the named alias of the full member.
func DisableAllFlagsName() Option {
	return func(c *config) { c.allFlagsName = "" }
}

// WireInts switches the persisted form of values (JSON, SQL) from the
// portable string grammar to the raw integer. Use it only when bit
// assignments are stable across versions of the declaration.
func WireInts() Option {
	return func(c *config) { c.wireInts = true }
}

// InModule records the owning module of the type; it only affects
// QualifiedName and the hash seed.
func InModule(module string) Option {
	return func(c *config) { c.module = module }
}

// WithExtractor overrides the raw-member extraction rule for this type.
func WithExtractor(fn Extractor) Option {
	return func(c *config) { c.extractor = fn }
}

// WithLogger makes the builder trace member registration. The default is a
// nop logger.
func WithLogger(lgr *zap.Logger) Option {
	return func(c *config) { c.lgr = lgr }
}

type normalizedMember struct {
	name  string
	value MemberValue
}

// Build compiles an ordered member list into a finalized flag type. It
// normalizes every declaration through the extraction rule, auto-assigns
// free bits in declaration order, registers members and aliases, synthesizes
// the no-flags/all-flags members and freezes the registry. Either the whole
// type is built or a DeclarationError is returned and nothing is published.
func Build(name string, members []Member, opts ...Option) (*Type, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if name == "" {
		return nil, newDeclarationError(name, "", "flag type needs a non-empty name")
	}

	t := &Type{
		name:     name,
		module:   cfg.module,
		allBits:  ^uint64(0), // no masking while members are instantiated
		wireInts: cfg.wireInts,

		allMembers:     make(map[string]Flags),
		members:        make(map[string]Flags),
		withoutAliases: make(map[string]Flags),
		bitsToProps:    make(map[uint64]*Properties),
		bitsToInstance: make(map[uint64]Flags),
		aliases:        make(map[string]string),

		noFlagsName:  cfg.noFlagsName,
		allFlagsName: cfg.allFlagsName,
		lgr:          cfg.lgr,
	}

	normalized, err := normalizeMembers(name, members, cfg.extractor)
	if err != nil {
		return nil, err
	}
	allBits, err := autoAssignBits(name, normalized)
	if err != nil {
		return nil, err
	}

	for _, m := range normalized {
		if _, err := t.register(m.name, m.value.bits, m.value, false); err != nil {
			return nil, err
		}
		t.lgr.Debug("flag member registered",
			zap.String("type", name),
			zap.String("member", m.name),
			zap.Uint64("bits", m.value.bits))
	}

	if t.Len() == 0 {
		return nil, newDeclarationError(name, "",
			"flag type '%s' has no members; a concrete flag type needs at least one", name)
	}

	t.noFlags, err = t.registerSynthetic(cfg.noFlagsName, 0)
	if err != nil {
		return nil, err
	}
	t.allFlags, err = t.registerSynthetic(cfg.allFlagsName, uint64(allBits))
	if err != nil {
		return nil, err
	}

	t.allBits = uint64(allBits)
	t.hashSeed = hashSeed(t.QualifiedName())
	t.frozen.Store(true)

	t.lgr.Debug("flag type built",
		zap.String("type", name),
		zap.Int("members", t.Len()),
		zap.Int("aliases", len(t.aliases)),
		zap.Uint64("all_bits", t.allBits))
	return t, nil
}

// MustBuild is Build for declaration sites; it panics on error.
func MustBuild(name string, members []Member, opts ...Option) *Type {
	t, err := Build(name, members, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// New builds a flag type from a space and/or comma separated name list with
// all bits auto-assigned, e.g. New("Permissions", "read write exec").
func New(name string, nameList string, opts ...Option) (*Type, error) {
	fields := strings.FieldsFunc(nameList, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	members := make([]Member, 0, len(fields))
	for _, field := range fields {
		members = append(members, Auto(field))
	}
	return Build(name, members, opts...)
}

// MustNew is New for declaration sites; it panics on error.
func MustNew(name string, nameList string, opts ...Option) *Type {
	t, err := New(name, nameList, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func normalizeMembers(typeName string, members []Member, extract Extractor) ([]normalizedMember, error) {
	out := make([]normalizedMember, 0, len(members))
	for _, m := range members {
		value := m.value
		if m.isRaw {
			var err error
			value, err = extract(typeName, m.name, m.raw)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, normalizedMember{name: m.name, value: value})
	}
	return out, nil
}

// autoAssignBits resolves every auto-assigned member to the lowest bit not
// yet present in the running union, in declaration order, so explicit and
// auto bits never collide regardless of how the declaration interleaves them.
func autoAssignBits(typeName string, members []normalizedMember) (util.BitMask, error) {
	union := util.BitMask(0)
	for _, m := range members {
		if m.value.kind == kindBits {
			union.Set(util.BitMask(m.value.bits))
		}
	}
	for i := range members {
		if members[i].value.kind != kindAuto {
			continue
		}
		bit := util.LowestUnset(union)
		if bit == 0 {
			return 0, newDeclarationError(typeName, members[i].name,
				"no free bit left to auto-assign to flag '%s'", members[i].name)
		}
		members[i].value.kind = kindBits
		members[i].value.bits = uint64(bit)
		union.Set(bit)
	}
	return union, nil
}

// registerSynthetic creates one synthetic anchor. The instance always exists;
// the named alias is registered only when the name isn't disabled.
func (t *Type) registerSynthetic(name string, bits uint64) (Flags, error) {
	if name == "" {
		inst := t.instantiate("", bits)
		t.bitsToInstance[bits] = inst
		return inst, nil
	}
	return t.register(name, bits, MemberValue{}, true)
}
