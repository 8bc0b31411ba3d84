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

// SpillCandidate is a physical register that could be freed by evicting the
// live ranges currently occupying it.
type SpillCandidate struct {
    Reg    PhysReg
    Owners []*LiveRange
}

// SpillPolicy selects which spill candidate to evict when no candidate is
// free, or -1 to decline eviction entirely. Implementations must be
// deterministic.
type SpillPolicy interface {
    Choose(lr *LiveRange, cands []SpillCandidate) int
}

// FirstFitSpill evicts the first candidate in allocation order whose
// occupants have all been evicted fewer than MaxEvictions times. The bound
// keeps two ranges from evicting each other forever, a range over the bound
// is split instead.
type FirstFitSpill struct {
    MaxEvictions int
}

func (self FirstFitSpill) Choose(_ *LiveRange, cands []SpillCandidate) int {
    for i, c := range cands {
        ok := true
        for _, lr := range c.Owners {
            if lr.evictions >= self.MaxEvictions {
                ok = false
                break
            }
        }
        if ok {
            return i
        }
    }
    return -1
}

// SplitPolicy divides a live range into fragments covering a partition of
// its intervals, or returns nil when the range cannot be divided further.
type SplitPolicy interface {
    Split(lr *LiveRange) [][]Interval
}

// BisectSplit halves the span list, or bisects the single remaining span at
// its middle position.
type BisectSplit struct{}

func (BisectSplit) Split(lr *LiveRange) [][]Interval {
    spans := lr.spans

    /* split between intervals when possible */
    if n := len(spans); n >= 2 {
        return [][]Interval {
            spans[:n / 2],
            spans[n / 2:],
        }
    }

    /* single interval, bisect it unless it is one position long */
    if iv := spans[0]; iv.size() >= 2 {
        mid := iv.Start + iv.size() / 2
        return [][]Interval {
            { { Start: iv.Start, End: mid } },
            { { Start: mid, End: iv.End } },
        }
    }
    return nil
}

type _ResolveKind uint8

const (
    _R_assign _ResolveKind = iota
    _R_split
    _R_spill
)

type _Resolution struct {
    kind  _ResolveKind
    reg   PhysReg
    frags []*LiveRange
}

// selectOrSplit resolves one live range: try every candidate in order and
// take the first Free one; otherwise evict the occupants of a spill
// candidate; otherwise split the range and re-queue the fragments. It never
// reports "no progress", when none of the three applies the allocation has
// genuinely failed.
func (self *Allocator) selectOrSplit(lr *LiveRange) (_Resolution, error) {
    var spills []SpillCandidate

    /* Phase 1: scan the candidates in order */
    cands, hard := self.buildOrder(lr)
    for _, p := range cands {
        kind, owners := self.oracle.Classify(lr, p)
        switch kind {
            default: {
                panic("alloc: invalid interference classification")
            }

            /* first-fit, ties are broken purely by candidate order */
            case IkFree: {
                return _Resolution { kind: _R_assign, reg: p }, nil
            }

            /* occupied by other virtual registers, record as a spill candidate */
            case IkVirtReg: {
                spills = append(spills, SpillCandidate { Reg: p, Owners: owners })
            }

            /* reserved or fixed occupancy, not evictable */
            case IkRegUnit: {
                continue
            }
        }
    }

    /* Phase 2: evict the occupants of a spill candidate */
    if i := self.spill.Choose(lr, spills); i >= 0 {
        self.evict(spills[i])
        return _Resolution { kind: _R_assign, reg: spills[i].Reg }, nil
    }

    /* Phase 3: split the range and re-queue the fragments */
    if parts := self.split.Split(lr); parts != nil {
        return _Resolution { kind: _R_split, frags: self.fragment(lr, parts) }, nil
    }

    /* Phase 4: last resort, spill to a stack slot if the host allows it */
    if self.slotSpill {
        self.oracle.Record().assignSlot(lr.vreg)
        return _Resolution { kind: _R_spill }, nil
    }

    /* nothing is free, evictable or splittable */
    return _Resolution {}, &FatalAllocationError {
        Reg    : self.originOf(lr.vreg),
        Hard   : hard,
        Reason : "no physical register is free, evictable or splittable",
    }
}

// evict removes the committed assignments in the way of a spill candidate
// and re-queues the evicted ranges at the worklist tail, tagged so the spill
// policy can disfavor evicting them again.
func (self *Allocator) evict(c SpillCandidate) {
    for _, owner := range c.Owners {
        lr := self.oracle.Unassign(owner.vreg)
        lr.evictions++
        self.pending.enqueue(lr)
    }
}

// fragment materializes split parts as new live ranges with fresh identity,
// each bound to a fresh virtual register cloned from the original, and
// re-queues them.
func (self *Allocator) fragment(lr *LiveRange, parts [][]Interval) []*LiveRange {
    frags := make([]*LiveRange, 0, len(parts))

    /* validate the partition */
    if len(parts) < 2 {
        panic("alloc: split produced less than two fragments")
    }

    /* clone a virtual register per fragment */
    for _, spans := range parts {
        vr := self.cloneVirtReg(lr.vreg)
        fr := NewLiveRange(vr, spans)
        fr.evictions = lr.evictions
        frags = append(frags, fr)
        self.pending.enqueue(fr)
    }
    return frags
}
