// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

//go:build integration

package compiler_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/lakegate/lakegate/internal/perm"
)

// These specs drive the full pipeline (parse, extract, reduce) over batches
// shaped like real stored policies: many principals' grants compiled
// concurrently, with overlapping and malformed entries mixed in.
var _ = Describe("Permission compiler", func() {
	var compiler *perm.Compiler

	BeforeEach(func() {
		compiler = perm.NewCompiler()
	})

	It("compiles a representative policy batch end to end", func(ctx context.Context) {
		result, err := compiler.Compile(ctx, []string{
			"/db/3/",
			"/db/3/schema/PUBLIC/",
			"/db/4/schema/SALES/table/7/query/segmented/",
			"/download/limited/db/3/",
			"/collection/root/",
			"/collection/12/read/",
			"/block/db/9/",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Diagnostics).To(BeEmpty())

		doc, ok := result.Graph.AsMap().(map[string]any)
		Expect(ok).To(BeTrue())
		Expect(doc).To(HaveKey("db"))
		Expect(doc).To(HaveKey("download"))
		Expect(doc).To(HaveKey("collection"))

		db := doc["db"].(map[string]any)
		// The schema-scoped grant on db 3 is absorbed by the database grant.
		Expect(db["3"]).To(Equal(map[string]any{
			"native":  "write",
			"schemas": "all",
		}))
		Expect(db["9"]).To(Equal(map[string]any{"schemas": "block"}))
	})

	It("is stable under recompilation of its own output", func(ctx context.Context) {
		grants := []string{
			"/db/1/schema/A/",
			"/db/1/schema/B/table/2/read/",
			"/download/db/1/",
		}
		result, err := compiler.Compile(ctx, grants)
		Expect(err).NotTo(HaveOccurred())

		again := perm.Reduce(result.Graph.Paths())
		Expect(result.Graph.Equal(again)).To(BeTrue())
	})

	It("isolates malformed grants from the rest of the batch", func(ctx context.Context) {
		clean, err := compiler.Compile(ctx, []string{"/db/1/", "/collection/10/"})
		Expect(err).NotTo(HaveOccurred())

		dirty, err := compiler.Compile(ctx, []string{
			"/db/1/",
			"://bogus",
			"/collection/10/",
			"/collection/shared/",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(dirty.Diagnostics).To(HaveLen(2))
		Expect(clean.Graph.Equal(dirty.Graph)).To(BeTrue())
	})

	It("produces identical graphs from concurrent compilations", func(ctx context.Context) {
		grants := []string{"/db/3/", "/download/db/3/", "/collection/root/read/"}

		reference, err := compiler.Compile(ctx, grants)
		Expect(err).NotTo(HaveOccurred())

		results := make(chan bool, 16)
		for range 16 {
			go func() {
				defer GinkgoRecover()
				result, err := compiler.Compile(ctx, grants)
				Expect(err).NotTo(HaveOccurred())
				results <- reference.Graph.Equal(result.Graph)
			}()
		}
		for range 16 {
			Eventually(results).Should(Receive(BeTrue()))
		}
	})
})
