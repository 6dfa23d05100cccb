package flagset

import (
	"fmt"
	"sync"
)

var (
	typesMutex sync.RWMutex
	flagTypes  = make(map[string]*Type)
)

// Register publishes a flag type under its name so that self-describing
// decode paths (JSON, text) can resolve it. Registering the same name twice
// is a programming error.
func Register(t *Type) {
	typesMutex.Lock()
	defer typesMutex.Unlock()

	if _, ok := flagTypes[t.name]; ok {
		panic(fmt.Sprintf("register flag type with name: %s again", t.name))
	}
	flagTypes[t.name] = t
}

// Resolve finds a registered flag type by name.
func Resolve(name string) (*Type, error) {
	typesMutex.RLock()
	defer typesMutex.RUnlock()

	t, ok := flagTypes[name]
	if ok {
		return t, nil
	}
	return nil, &UnknownTypeError{Name: name}
}

// MustResolve is Resolve for declaration sites; it panics on error.
func MustResolve(name string) *Type {
	t, err := Resolve(name)
	if err != nil {
		panic(err)
	}
	return t
}
