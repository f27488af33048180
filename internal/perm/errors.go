// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

package perm

import (
	"github.com/samber/oops"

	"github.com/lakegate/lakegate/internal/perm/grammar"
)

// Error codes for failures scoped to a single permission grant.
const (
	// CodeSyntax re-exports the grammar package's syntax failure code so
	// callers can match diagnostics without importing grammar.
	CodeSyntax = grammar.CodeSyntax

	// CodeMalformedIdentifier marks a captured numeric token that is not a
	// valid unsigned integer.
	CodeMalformedIdentifier = "MALFORMED_IDENTIFIER"

	// CodeUnrecognizedBranch marks a parse tree shape the extractor has no
	// rule for. It signals a grammar/extractor mismatch, not bad input.
	CodeUnrecognizedBranch = "UNRECOGNIZED_BRANCH"
)

// IsSyntaxError reports whether err came from a grant that failed to parse.
func IsSyntaxError(err error) bool {
	return grammar.IsSyntaxError(err)
}

// IsMalformedIdentifier reports whether err came from an identifier token
// that could not be converted.
func IsMalformedIdentifier(err error) bool {
	return hasCode(err, CodeMalformedIdentifier)
}

// IsUnrecognizedBranch reports whether err is a grammar/extractor contract
// violation.
func IsUnrecognizedBranch(err error) bool {
	return hasCode(err, CodeUnrecognizedBranch)
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	return oopsErr.Code() == code
}
