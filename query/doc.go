// Package query implements the sas query language.
//
// A query describes the shape of a declaration or expression in a source
// file. The text form covers functions and variables, optionally scoped by a
// chain of qualifiers:
//
//	Foo::Bar::get:int*(...)      any method of Foo::Bar named get* returning int*
//	count:int                    any variable named count* of type int*
//	:void(x:int, ...)            any void function whose first parameter is x:int
//
// Every slot holds a regular expression that is matched against the start of
// the corresponding node property. Omitted slots default to ".*". Text that
// would otherwise be split by the lexer can be escaped with slashes, e.g.
// /operator()/.
//
// Classes, free-text searches and nested contents have no text form and are
// built with NewClass, NewSearch and WithContents, or loaded from a YAML Spec.
package query
