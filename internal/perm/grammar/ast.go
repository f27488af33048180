// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

// Package grammar defines the AST types for permission grant paths and
// provides a parser built with participle. Each grant string is a single
// slash-delimited scope such as "/db/3/schema/PUBLIC/table/5/read/".
package grammar

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// grantLexer tokenizes grant paths. Everything between slashes is either a
// run of digits or free text; keyword matching ("db", "schema", ...) happens
// in the grammar by literal value, not in the lexer.
var grantLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Slash", Pattern: `/`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Segment", Pattern: `[^/]+`},
})

// Version is the current version of the grant grammar. Bump it whenever an
// alternative is added or changed so stored diagnostics can be correlated
// with the grammar that produced them.
const Version = 1

// Grant is the root of a parsed permission string. Exactly one alternative
// is populated. The ordered choice matters: "/" alone must be tried last so
// it cannot shadow the prefixed forms.
//
// Grammar: permission := all | db | download | collection | block
type Grant struct {
	Pos lexer.Position `parser:""`

	Block      *BlockNode      `parser:"  @@"`
	Download   *DownloadNode   `parser:"| @@"`
	Collection *CollectionNode `parser:"| @@"`
	DB         *DBNode         `parser:"| @@"`
	All        bool            `parser:"| @Slash"`
}

// DBNode matches: "/db/" <digits> "/" [ native | schemas ]
//
// With neither sub-rule present the grant covers the whole database.
type DBNode struct {
	ID      string       `parser:"Slash 'db' Slash @Number Slash"`
	Native  bool         `parser:"( @('native' Slash)"`
	Schemas *SchemasNode `parser:"| @@ )?"`
}

// SchemasNode matches: "schema/" [ schema ]
type SchemasNode struct {
	Schema *SchemaNode `parser:"'schema' Slash @@?"`
}

// SchemaNode matches: <any-chars-except-"/"> "/" [ table ]
//
// A schema name may lex as several adjacent tokens (e.g. "123abc"); the
// repeated capture reassembles them.
type SchemaNode struct {
	Name  string     `parser:"@(Number | Segment)+ Slash"`
	Table *TableNode `parser:"@@?"`
}

// TableNode matches: "table/" <digits> "/" [ table-perm "/" ]
type TableNode struct {
	ID   string         `parser:"'table' Slash @Number Slash"`
	Perm *TablePermNode `parser:"@@?"`
}

// TablePermNode matches: ( "read" | "query" [ "/segmented" ] ) "/"
type TablePermNode struct {
	Read      bool `parser:"( @'read'"`
	Query     bool `parser:"| @'query'"`
	Segmented bool `parser:"  (Slash @'segmented')? ) Slash"`
}

// DownloadNode matches: "/download" [ "/limited" ] dl-db
//
// The limited qualifier applies to every path produced from the nested
// database scope; without it the grant is a full download grant.
type DownloadNode struct {
	Limited bool      `parser:"Slash 'download' (Slash @'limited')?"`
	DB      *DLDBNode `parser:"@@"`
}

// DLDBNode mirrors DBNode for the download branch.
type DLDBNode struct {
	ID      string         `parser:"Slash 'db' Slash @Number Slash"`
	Native  bool           `parser:"( @('native' Slash)"`
	Schemas *DLSchemasNode `parser:"| @@ )?"`
}

// DLSchemasNode mirrors SchemasNode for the download branch.
type DLSchemasNode struct {
	Schema *DLSchemaNode `parser:"'schema' Slash @@?"`
}

// DLSchemaNode mirrors SchemaNode for the download branch.
type DLSchemaNode struct {
	Name  string       `parser:"@(Number | Segment)+ Slash"`
	Table *DLTableNode `parser:"@@?"`
}

// DLTableNode matches: "table/" <digits> "/"
//
// Download table grants are binary, so no trailing verb is accepted here.
type DLTableNode struct {
	ID string `parser:"'table' Slash @Number Slash"`
}

// CollectionNode matches: "/collection/" <any-chars-except-"/"> "/" [ "read/" ]
type CollectionNode struct {
	ID   string `parser:"Slash 'collection' Slash @(Number | Segment)+ Slash"`
	Read bool   `parser:"( @'read' Slash )?"`
}

// BlockNode matches: "/block/db/" <digits> "/"
type BlockNode struct {
	ID string `parser:"Slash 'block' Slash 'db' Slash @Number Slash"`
}

// NewParser constructs a participle parser for the Grant grammar.
func NewParser() (*participle.Parser[Grant], error) {
	return participle.Build[Grant](
		participle.Lexer(grantLexer),
	)
}
