// Package flagset implements typed bit-flag sets: closed, named member sets
// declared once, combined with set arithmetic and round-tripped through a
// stable string grammar.
//
// A flag type is compiled from an ordered member list:
//
//	var Perm = flagset.MustBuild("Perm", []flagset.Member{
//		flagset.Auto("read"),
//		flagset.Auto("write"),
//		flagset.Bits("exec", 0x4),
//	})
//
// and its values behave like small immutable sets:
//
//	rw := Perm.MustMember("read").Or(Perm.MustMember("write"))
//	rw.String()       // "Perm(read|write)"
//	rw.SimpleString() // "read|write"
//
// Types are frozen after Build; values are plain comparable structs and are
// safe to share between goroutines.
package flagset
