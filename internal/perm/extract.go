// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

package perm

import (
	"strconv"

	"github.com/samber/oops"

	"github.com/lakegate/lakegate/internal/perm/grammar"
	"github.com/lakegate/lakegate/internal/perm/types"
)

// Extract converts one parse tree into the path set it grants. A grant with
// no narrowing sub-scope fans out into independent paths (an unscoped
// database grant covers both native queries and all schemas). Extract is a
// pure function of its input tree.
func Extract(tree *grammar.Grant) ([]types.Path, error) {
	switch {
	case tree == nil:
		return nil, contractViolation("nil parse tree")

	case tree.All:
		return []types.Path{{types.MarkerSeg(types.MarkerAll)}}, nil

	case tree.DB != nil:
		return extractDB(tree.DB)

	case tree.Download != nil:
		return extractDownload(tree.Download)

	case tree.Collection != nil:
		return extractCollection(tree.Collection)

	case tree.Block != nil:
		return extractBlock(tree.Block)
	}

	// The grammar and this dispatch table must stay in lockstep; reaching
	// here means a new alternative was added without an extraction rule.
	return nil, contractViolation("parse tree with no populated alternative")
}

func extractDB(db *grammar.DBNode) ([]types.Path, error) {
	id, err := parseID(db.ID)
	if err != nil {
		return nil, err
	}
	prefix := types.Path{types.KeySeg(types.KeyDB), types.IDSeg(id)}

	switch {
	case db.Native:
		return []types.Path{appendSegs(prefix,
			types.KeySeg(types.KeyNative), types.MarkerSeg(types.MarkerWrite))}, nil

	case db.Schemas != nil:
		subs, err := extractSchemas(db.Schemas)
		if err != nil {
			return nil, err
		}
		return prefixAll(prefix, subs), nil

	default:
		// A bare database grant covers everything under it: native query
		// write access plus all schemas.
		return []types.Path{
			appendSegs(prefix, types.KeySeg(types.KeyNative), types.MarkerSeg(types.MarkerWrite)),
			appendSegs(prefix, types.KeySeg(types.KeySchemas), types.MarkerSeg(types.MarkerAll)),
		}, nil
	}
}

func extractSchemas(node *grammar.SchemasNode) ([]types.Path, error) {
	prefix := types.Path{types.KeySeg(types.KeySchemas)}
	if node.Schema == nil {
		return []types.Path{appendSegs(prefix, types.MarkerSeg(types.MarkerAll))}, nil
	}
	subs, err := extractSchema(node.Schema)
	if err != nil {
		return nil, err
	}
	return prefixAll(prefix, subs), nil
}

func extractSchema(node *grammar.SchemaNode) ([]types.Path, error) {
	nameSeg, err := schemaSeg(node.Name)
	if err != nil {
		return nil, err
	}
	prefix := types.Path{nameSeg}
	if node.Table == nil {
		return []types.Path{appendSegs(prefix, types.MarkerSeg(types.MarkerAll))}, nil
	}
	subs, err := extractTable(node.Table)
	if err != nil {
		return nil, err
	}
	return prefixAll(prefix, subs), nil
}

func extractTable(node *grammar.TableNode) ([]types.Path, error) {
	id, err := parseID(node.ID)
	if err != nil {
		return nil, err
	}
	prefix := types.Path{types.IDSeg(id)}
	if node.Perm == nil {
		return []types.Path{appendSegs(prefix, types.MarkerSeg(types.MarkerAll))}, nil
	}
	return []types.Path{appendSegs(prefix, extractTablePerm(node.Perm)...)}, nil
}

// extractTablePerm resolves the trailing verb of a table grant:
//
//	read            -> read/all
//	query           -> query/all
//	query/segmented -> query/segmented
func extractTablePerm(node *grammar.TablePermNode) []types.Segment {
	switch {
	case node.Read:
		return []types.Segment{types.KeySeg(types.KeyRead), types.MarkerSeg(types.MarkerAll)}
	case node.Query && node.Segmented:
		return []types.Segment{types.KeySeg(types.KeyQuery), types.MarkerSeg(types.MarkerSegmented)}
	default:
		return []types.Segment{types.KeySeg(types.KeyQuery), types.MarkerSeg(types.MarkerAll)}
	}
}

// extractDownload expands the nested database scope exactly like the primary
// grammar, minus trailing verbs, then prefixes every path with the download
// branch and suffixes it with the full/limited qualifier.
func extractDownload(node *grammar.DownloadNode) ([]types.Path, error) {
	qualifier := types.MarkerFull
	if node.Limited {
		qualifier = types.MarkerLimited
	}

	stems, err := extractDLDB(node.DB)
	if err != nil {
		return nil, err
	}

	paths := make([]types.Path, 0, len(stems))
	for _, stem := range stems {
		path := make(types.Path, 0, len(stem)+2)
		path = append(path, types.KeySeg(types.KeyDownload))
		path = append(path, stem...)
		path = append(path, types.MarkerSeg(qualifier))
		paths = append(paths, path)
	}
	return paths, nil
}

// extractDLDB returns marker-less path stems under the download branch.
func extractDLDB(db *grammar.DLDBNode) ([]types.Path, error) {
	id, err := parseID(db.ID)
	if err != nil {
		return nil, err
	}
	prefix := types.Path{types.KeySeg(types.KeyDB), types.IDSeg(id)}

	switch {
	case db.Native:
		return []types.Path{appendSegs(prefix, types.KeySeg(types.KeyNative))}, nil

	case db.Schemas != nil:
		subs, err := extractDLSchemas(db.Schemas)
		if err != nil {
			return nil, err
		}
		return prefixAll(prefix, subs), nil

	default:
		return []types.Path{
			appendSegs(prefix, types.KeySeg(types.KeyNative)),
			appendSegs(prefix, types.KeySeg(types.KeySchemas)),
		}, nil
	}
}

func extractDLSchemas(node *grammar.DLSchemasNode) ([]types.Path, error) {
	prefix := types.Path{types.KeySeg(types.KeySchemas)}
	if node.Schema == nil {
		return []types.Path{prefix}, nil
	}
	subs, err := extractDLSchema(node.Schema)
	if err != nil {
		return nil, err
	}
	return prefixAll(prefix, subs), nil
}

func extractDLSchema(node *grammar.DLSchemaNode) ([]types.Path, error) {
	nameSeg, err := schemaSeg(node.Name)
	if err != nil {
		return nil, err
	}
	prefix := types.Path{nameSeg}
	if node.Table == nil {
		return []types.Path{prefix}, nil
	}
	id, err := parseID(node.Table.ID)
	if err != nil {
		return nil, err
	}
	return []types.Path{appendSegs(prefix, types.IDSeg(id))}, nil
}

func extractCollection(node *grammar.CollectionNode) ([]types.Path, error) {
	var idSeg types.Segment
	if node.ID == "root" {
		idSeg = types.RootSeg()
	} else {
		id, err := parseID(node.ID)
		if err != nil {
			return nil, err
		}
		idSeg = types.IDSeg(id)
	}

	level := types.MarkerWrite
	if node.Read {
		level = types.MarkerRead
	}
	return []types.Path{{types.KeySeg(types.KeyCollection), idSeg, types.MarkerSeg(level)}}, nil
}

// extractBlock records a database block as the maximal marker on the
// database's schemas branch.
func extractBlock(node *grammar.BlockNode) ([]types.Path, error) {
	id, err := parseID(node.ID)
	if err != nil {
		return nil, err
	}
	return []types.Path{{
		types.KeySeg(types.KeyDB),
		types.IDSeg(id),
		types.KeySeg(types.KeySchemas),
		types.MarkerSeg(types.MarkerBlock),
	}}, nil
}

// schemaSeg resolves a schema name token. Names made entirely of digits are
// identifying tokens and convert to unsigned integers like table ids; all
// other names stay as free text.
func schemaSeg(name string) (types.Segment, error) {
	if !isDigits(name) {
		return types.NameSeg(name), nil
	}
	id, err := parseID(name)
	if err != nil {
		return types.Segment{}, err
	}
	return types.IDSeg(id), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// parseID converts a captured identifier token to an unsigned integer.
// Tokens that lex as digits can still overflow, and collection ids accept
// free text the extractor does not recognize; both are fatal for the one
// grant being extracted, never for the batch.
func parseID(token string) (uint64, error) {
	id, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, oops.
			Code(CodeMalformedIdentifier).
			With("token", token).
			Wrapf(err, "parsing identifier")
	}
	return id, nil
}

func contractViolation(msg string) error {
	return oops.Code(CodeUnrecognizedBranch).Errorf("unrecognized parse tree: %s", msg)
}

// appendSegs copies prefix and appends segs, leaving prefix untouched.
func appendSegs(prefix types.Path, segs ...types.Segment) types.Path {
	path := make(types.Path, 0, len(prefix)+len(segs))
	path = append(path, prefix...)
	path = append(path, segs...)
	return path
}

// prefixAll prepends prefix to every path in subs.
func prefixAll(prefix types.Path, subs []types.Path) []types.Path {
	paths := make([]types.Path, 0, len(subs))
	for _, sub := range subs {
		paths = append(paths, appendSegs(prefix, sub...))
	}
	return paths
}
