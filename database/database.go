package database

import (
	"context"
	"fmt"
	"time"

	"github.com/flagkit/flagset"
)

// SetRecord is one saved flag-set: a named value owned by some principal,
// persisted in the wire form of its flag type (compact string by default,
// decimal bits for WireInts types).
type SetRecord struct {
	ID        int64
	UUID      string
	Owner     string
	Name      string
	TypeName  string
	Value     string
	UpdatedAt *time.Time
}

// Store persists named flag-sets. SaveSet upserts by (owner, name).
type Store interface {
	SaveSet(ctx context.Context, rec *SetRecord) error
	GetSet(ctx context.Context, owner, name string) (*SetRecord, error)
	ListSets(ctx context.Context, owner string) ([]*SetRecord, error)
	DeleteSet(ctx context.Context, owner, name string) error
}

// NotFoundError reports a (owner, name) pair with no saved set.
type NotFoundError struct {
	Owner string
	Name  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no flag set named '%s' for owner '%s'", e.Name, e.Owner)
}

var _ error = &NotFoundError{}

func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// EncodeRecord builds the record for one flag-set value.
func EncodeRecord(owner, name string, f flagset.Flags) *SetRecord {
	return &SetRecord{
		Owner:    owner,
		Name:     name,
		TypeName: f.TypeName(),
		Value:    flagset.Encode(f),
	}
}

// DecodeRecord turns a loaded record back into a value of the given type.
// A record saved under a different flag type is a TypeConflictError, not a
// silent reinterpretation of its bits.
func DecodeRecord(rec *SetRecord, t *flagset.Type) (flagset.Flags, error) {
	if rec.TypeName != t.Name() {
		return flagset.Flags{}, &TypeConflictError{
			Record:   rec.TypeName,
			Expected: t.Name(),
			SetName:  rec.Name,
		}
	}
	return flagset.Decode(t, rec.Value)
}

// ResolveRecord decodes a record through the process-global flag type
// registry instead of an explicit type.
func ResolveRecord(rec *SetRecord) (flagset.Flags, error) {
	t, err := flagset.Resolve(rec.TypeName)
	if err != nil {
		return flagset.Flags{}, err
	}
	return flagset.Decode(t, rec.Value)
}

// TypeConflictError reports a record whose stored type name doesn't match
// the type it is being decoded as.
type TypeConflictError struct {
	Record   string
	Expected string
	SetName  string
}

func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("flag set '%s' was saved as type '%s', not '%s'", e.SetName, e.Record, e.Expected)
}

var _ error = &TypeConflictError{}

func IsTypeConflictError(err error) bool {
	_, ok := err.(*TypeConflictError)
	return ok
}
