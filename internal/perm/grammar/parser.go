// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

package grammar

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/samber/oops"
)

// CodeSyntax is the oops error code attached to grant syntax failures.
const CodeSyntax = "GRANT_SYNTAX"

// parser is the singleton participle parser instance. The grammar is fixed,
// versioned configuration: built once at process start and never mutated, so
// concurrent Parse calls are safe.
var parser *participle.Parser[Grant]

func init() {
	var err error
	parser, err = NewParser()
	if err != nil {
		panic(fmt.Sprintf("failed to build grant parser: %v", err))
	}
}

// Parse parses a permission string into a parse tree. Failures carry the
// CodeSyntax error code and position info from participle.
func Parse(grant string) (*Grant, error) {
	tree, err := parser.ParseString("", grant)
	if err != nil {
		return nil, oops.
			Code(CodeSyntax).
			With("grant", grant).
			Wrapf(err, "parsing permission grant")
	}
	return tree, nil
}

// IsSyntaxError reports whether err is a grant syntax failure from Parse.
func IsSyntaxError(err error) bool {
	if err == nil {
		return false
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	return oopsErr.Code() == CodeSyntax
}
