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

package alloc

import (
    `fmt`
    `io`

    `github.com/davecgh/go-spew/spew`
)

// FatalAllocationError reports a live range for which no physical register
// is free, evictable or splittable. It is a hard compilation failure for the
// function, retrying is a host-level decision.
type FatalAllocationError struct {
    Reg    VirtReg
    Hard   bool
    Reason string
}

func (self *FatalAllocationError) Error() string {
    if self.Hard {
        return fmt.Sprintf("regalloc: %%%d (hard hints): %s", self.Reg, self.Reason)
    } else {
        return fmt.Sprintf("regalloc: %%%d: %s", self.Reg, self.Reason)
    }
}

// Option is the property setter function for Allocator.
type Option func(*Allocator)

// WithHintPolicy sets the allocation hint policy.
func WithHintPolicy(h HintPolicy) Option {
    return func(self *Allocator) { self.hints = h }
}

// WithSpillPolicy sets the spill-cost policy used to choose an eviction
// victim.
func WithSpillPolicy(p SpillPolicy) Option {
    return func(self *Allocator) { self.spill = p }
}

// WithSplitPolicy sets the policy used to divide a live range when no
// register is free or evictable.
func WithSplitPolicy(p SplitPolicy) Option {
    return func(self *Allocator) { self.split = p }
}

// WithSlotSpill lets the allocator fall back to a stack slot for a range
// that can neither be assigned, evicted for, nor split, instead of failing
// with a FatalAllocationError.
func WithSlotSpill(v bool) Option {
    return func(self *Allocator) { self.slotSpill = v }
}

// WithDebugWriter dumps the allocation state to w after every resolution.
func WithDebugWriter(w io.Writer) Option {
    return func(self *Allocator) { self.debug = w }
}

// Allocator assigns physical registers to the virtual registers of one
// function. One instance owns exactly one function's worklist and oracle for
// its lifetime; it is not safe for concurrent use, allocate different
// functions with different instances.
type Allocator struct {
    provider  IntervalProvider
    oracle    Oracle
    classes   ClassInfo
    hints     HintPolicy
    spill     SpillPolicy
    split     SplitPolicy
    pending   *worklist
    origins   map[VirtReg]VirtReg
    nextvr    VirtReg
    slotSpill bool
    debug     io.Writer
}

// NewAllocator creates an allocator over the function described by provider,
// with interference answered by oracle and register classes by classes.
func NewAllocator(provider IntervalProvider, oracle Oracle, classes ClassInfo, opts ...Option) *Allocator {
    ret := &Allocator {
        oracle   : oracle,
        classes  : classes,
        provider : provider,
        hints    : NoHints{},
        spill    : FirstFitSpill { MaxEvictions: 3 },
        split    : BisectSplit{},
        pending  : newWorklist(),
        origins  : make(map[VirtReg]VirtReg),
        nextvr   : VirtReg(provider.NumVirtRegs()),
    }
    for _, opt := range opts {
        opt(ret)
    }
    return ret
}

// Allocate drives the worklist to completion and returns the committed
// assignment record.
func (self *Allocator) Allocate() (*AssignmentRecord, error) {
    nb := self.provider.NumVirtRegs()

    /* enqueue every virtual register with non-debug uses */
    for i := 0; i < nb; i++ {
        vr := VirtReg(i)
        if self.provider.HasOnlyDebugUses(vr) {
            continue
        }
        if lr := self.provider.IntervalOf(vr); lr != nil {
            self.pending.enqueue(lr)
        }
    }

    /* process until the worklist drains */
    for lr := self.pending.dequeue(); lr != nil; lr = self.pending.dequeue() {
        if err := self.resolve(lr); err != nil {
            return nil, err
        }
    }
    return self.oracle.Record(), nil
}

func (self *Allocator) resolve(lr *LiveRange) error {
    vr := self.originOf(lr.vreg)

    /* the register may have become dead since it was queued */
    if self.provider.HasOnlyDebugUses(vr) {
        self.provider.RemoveInterval(vr)
        return nil
    }

    /* cached interference answers are only valid against the committed
     * assignments at query time */
    self.oracle.InvalidateCache(lr)

    /* resolve, then commit direct assignments */
    ret, err := self.selectOrSplit(lr)
    if err != nil {
        return err
    }
    if ret.kind == _R_assign {
        self.oracle.Assign(lr, ret.reg)
    }

    /* optional state dump */
    if self.debug != nil {
        self.dump(lr, ret)
    }
    return nil
}

func (self *Allocator) originOf(vr VirtReg) VirtReg {
    if rv, ok := self.origins[vr]; ok {
        return rv
    } else {
        return vr
    }
}

func (self *Allocator) cloneVirtReg(vr VirtReg) VirtReg {
    rv := self.nextvr
    self.nextvr++
    self.origins[rv] = self.originOf(vr)
    self.oracle.Record().setOrigin(rv, self.originOf(vr))
    return rv
}

var dumpConfig = spew.ConfigState {
    Indent                  : " ",
    SortKeys                : true,
    DisablePointerAddresses : true,
}

func (self *Allocator) dump(lr *LiveRange, ret _Resolution) {
    switch ret.kind {
        case _R_assign : fmt.Fprintf(self.debug, "assign %s -> %s\n", lr, self.fileName(ret.reg))
        case _R_split  : fmt.Fprintf(self.debug, "split  %s -> %d fragments\n", lr, len(ret.frags))
        case _R_spill  : fmt.Fprintf(self.debug, "spill  %s -> stack\n", lr)
    }

    rec := self.oracle.Record()
    fmt.Fprintf(self.debug, "pending = %d\n", self.pending.size())
    dumpConfig.Fdump(self.debug, rec.phys, rec.slots)
}

func (self *Allocator) fileName(p PhysReg) string {
    if rec := self.oracle.Record(); rec.file != nil {
        return rec.file.NameOf(p)
    }
    return fmt.Sprintf("p%d", p)
}
