/*
 * Copyright 2023 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package regmin

import (
	"io"

	"github.com/cloudwego/regmin/internal/alloc"
)

// Option is the property setter function for the allocator.
type Option = alloc.Option

// WithHintPolicy sets the allocation hint policy. The default policy
// produces no hints; candidates come from the class order alone.
func WithHintPolicy(h HintPolicy) Option {
	return alloc.WithHintPolicy(h)
}

// WithSpillPolicy sets the spill-cost policy used to pick an eviction
// victim. The default evicts the first spill candidate in allocation order,
// bounded so two ranges cannot evict each other forever.
func WithSpillPolicy(p SpillPolicy) Option {
	return alloc.WithSpillPolicy(p)
}

// WithSplitPolicy sets the policy dividing a live range when no register is
// free or evictable. The default bisects the range at an interval boundary,
// or at the middle position of a single remaining interval.
func WithSplitPolicy(p SplitPolicy) Option {
	return alloc.WithSplitPolicy(p)
}

// WithSlotSpill lets a range that can neither be assigned, evicted for, nor
// split fall back to a stack slot instead of failing the whole function
// with a FatalAllocationError. Disabled by default.
func WithSlotSpill(v bool) Option {
	return alloc.WithSlotSpill(v)
}

// WithDebugWriter dumps every allocation decision and the partial
// assignment state to w. For debugging only, the dump never affects
// allocation results.
func WithDebugWriter(w io.Writer) Option {
	return alloc.WithDebugWriter(w)
}

// FirstFitSpill is the default SpillPolicy.
type FirstFitSpill = alloc.FirstFitSpill

// BisectSplit is the default SplitPolicy.
type BisectSplit = alloc.BisectSplit

// NoHints is the default (empty) HintPolicy.
type NoHints = alloc.NoHints

// SpillCandidate is handed to a SpillPolicy for every occupied-by-virtual
// candidate register.
type SpillCandidate = alloc.SpillCandidate
