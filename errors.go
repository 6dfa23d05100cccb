package flagset

import "fmt"

// DeclarationError reports an invalid member list passed to Build.
// It is always fatal to that declaration.
type DeclarationError struct {
	TypeName string
	Flag     string
	msg      string
}

func (e *DeclarationError) Error() string {
	return e.msg
}

var _ error = &DeclarationError{}

func newDeclarationError(typeName, flag, format string, args ...interface{}) *DeclarationError {
	return &DeclarationError{
		TypeName: typeName,
		Flag:     flag,
		msg:      fmt.Sprintf(format, args...),
	}
}

func IsDeclarationError(err error) bool {
	_, ok := err.(*DeclarationError)
	return ok
}

// ConstructionError reports an unsupported input passed to a value
// constructor such as Type.From.
type ConstructionError struct {
	TypeName string
	Value    interface{}
	msg      string
}

func (e *ConstructionError) Error() string {
	return e.msg
}

var _ error = &ConstructionError{}

func newConstructionError(typeName string, value interface{}, format string, args ...interface{}) *ConstructionError {
	return &ConstructionError{
		TypeName: typeName,
		Value:    value,
		msg:      fmt.Sprintf(format, args...),
	}
}

func IsConstructionError(err error) bool {
	_, ok := err.(*ConstructionError)
	return ok
}

// ParseError reports malformed or unresolvable string input. Flag holds the
// offending token when one could be isolated, Input the whole original string.
type ParseError struct {
	TypeName string
	Flag     string
	Input    string
	msg      string
}

func (e *ParseError) Error() string {
	return e.msg
}

var _ error = &ParseError{}

func newParseError(typeName, flag, input, format string, args ...interface{}) *ParseError {
	return &ParseError{
		TypeName: typeName,
		Flag:     flag,
		Input:    input,
		msg:      fmt.Sprintf(format, args...),
	}
}

func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// TypeMismatchError signals that two Flags values of different flag types
// were combined. The unchecked operators panic with it, the Try variants
// return it.
type TypeMismatchError struct {
	Op    string
	Left  string
	Right string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("operator %s is not supported between flag types '%s' and '%s'", e.Op, e.Left, e.Right)
}

var _ error = &TypeMismatchError{}

func IsTypeMismatchError(err error) bool {
	_, ok := err.(*TypeMismatchError)
	return ok
}

// ProtectedError signals an attempt to mutate a finalized flag type.
// It is a programming error and is delivered by panic.
type ProtectedError struct {
	TypeName string
	msg      string
}

func (e *ProtectedError) Error() string {
	return e.msg
}

var _ error = &ProtectedError{}

func IsProtectedError(err error) bool {
	_, ok := err.(*ProtectedError)
	return ok
}

// NameError reports a member name lookup that found nothing.
type NameError struct {
	TypeName string
	Name     string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("flag type '%s' has no member named '%s'", e.TypeName, e.Name)
}

var _ error = &NameError{}

func IsNameError(err error) bool {
	_, ok := err.(*NameError)
	return ok
}

// UnknownTypeError reports a flag type name that isn't registered.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("flag type '%s' isn't registered", e.Name)
}

var _ error = &UnknownTypeError{}

func IsUnknownTypeError(err error) bool {
	_, ok := err.(*UnknownTypeError)
	return ok
}
