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
    `strings`
    `sync/atomic`
)

// Pos is an instruction position within the function being allocated.
type Pos uint32

// VirtReg identifies a virtual register, an unbounded-supply value
// placeholder awaiting a physical register.
type VirtReg uint32

// Interval is a half-open range of instruction positions [Start, End).
type Interval struct {
    Start Pos
    End   Pos
}

func (self Interval) String() string {
    return fmt.Sprintf("[%d,%d)", self.Start, self.End)
}

func (self Interval) size() Pos {
    return self.End - self.Start
}

func (self Interval) covers(p Pos) bool {
    return self.Start <= p && p < self.End
}

func (self Interval) overlaps(iv Interval) bool {
    return self.Start < iv.End && iv.Start < self.End
}

var liveRangeIds uint32

// LiveRange associates a virtual register with the ordered set of disjoint
// intervals over which it holds a value. Fragments produced by splitting are
// new LiveRange entities with fresh identity; the virtual register linkage
// is inherited through the allocator's origin table.
type LiveRange struct {
    id        uint32
    vreg      VirtReg
    spans     []Interval
    evictions int
}

// NewLiveRange creates a live range for vr over the given intervals, which
// must be non-empty, non-degenerate, disjoint and in increasing order.
func NewLiveRange(vr VirtReg, spans []Interval) *LiveRange {
    if len(spans) == 0 {
        panic("alloc: empty live range")
    }

    /* validate interval ordering */
    for i, iv := range spans {
        if iv.Start >= iv.End {
            panic(fmt.Sprintf("alloc: degenerate interval %s", iv))
        }
        if i > 0 && spans[i - 1].End > iv.Start {
            panic(fmt.Sprintf("alloc: unordered intervals %s, %s", spans[i - 1], iv))
        }
    }

    /* fresh identity, own copy of the spans */
    return &LiveRange {
        id    : atomic.AddUint32(&liveRangeIds, 1),
        vreg  : vr,
        spans : append([]Interval(nil), spans...),
    }
}

// Reg returns the virtual register this range belongs to.
func (self *LiveRange) Reg() VirtReg {
    return self.vreg
}

// Spans returns the intervals of this range.
func (self *LiveRange) Spans() []Interval {
    return self.spans
}

// Evictions reports how many times this range has been evicted from a
// committed assignment within the current allocation pass.
func (self *LiveRange) Evictions() int {
    return self.evictions
}

func (self *LiveRange) start() Pos {
    return self.spans[0].Start
}

func (self *LiveRange) end() Pos {
    return self.spans[len(self.spans) - 1].End
}

func (self *LiveRange) overlapsInterval(iv Interval) bool {
    for _, sp := range self.spans {
        if sp.overlaps(iv) {
            return true
        }
    }
    return false
}

func (self *LiveRange) overlaps(lr *LiveRange) bool {
    i, j := 0, 0
    p, q := self.spans, lr.spans

    /* merge-scan both ordered span lists */
    for i < len(p) && j < len(q) {
        if p[i].overlaps(q[j]) {
            return true
        } else if p[i].End <= q[j].Start {
            i++
        } else {
            j++
        }
    }
    return false
}

func (self *LiveRange) String() string {
    nb := len(self.spans)
    buf := make([]string, 0, nb)

    /* add every span */
    for _, iv := range self.spans {
        buf = append(buf, iv.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "%%%d{%s}",
        self.vreg,
        strings.Join(buf, ", "),
    )
}

// IntervalProvider supplies live ranges computed by an upstream liveness
// analysis. The allocator consumes it read-only, except for removing the
// intervals of virtual registers that turn out to be dead.
type IntervalProvider interface {
    NumVirtRegs() int
    IntervalOf(vr VirtReg) *LiveRange
    HasOnlyDebugUses(vr VirtReg) bool
    RemoveInterval(vr VirtReg)
}

// IntervalTable is a map-backed IntervalProvider for hosts that build live
// ranges by hand, and for tests.
type IntervalTable struct {
    nregs  int
    debug  map[VirtReg]bool
    ranges map[VirtReg]*LiveRange
}

func NewIntervalTable() *IntervalTable {
    return &IntervalTable {
        debug  : make(map[VirtReg]bool),
        ranges : make(map[VirtReg]*LiveRange),
    }
}

// AddRange registers a live range for vr over the given intervals.
func (self *IntervalTable) AddRange(vr VirtReg, spans ...Interval) *LiveRange {
    lr := NewLiveRange(vr, spans)
    self.ranges[vr] = lr
    if int(vr) >= self.nregs {
        self.nregs = int(vr) + 1
    }
    return lr
}

// MarkDebugOnly flags vr as referenced by debug information only.
func (self *IntervalTable) MarkDebugOnly(vr VirtReg) {
    self.debug[vr] = true
    if int(vr) >= self.nregs {
        self.nregs = int(vr) + 1
    }
}

func (self *IntervalTable) NumVirtRegs() int {
    return self.nregs
}

func (self *IntervalTable) IntervalOf(vr VirtReg) *LiveRange {
    return self.ranges[vr]
}

func (self *IntervalTable) HasOnlyDebugUses(vr VirtReg) bool {
    return self.debug[vr]
}

func (self *IntervalTable) RemoveInterval(vr VirtReg) {
    delete(self.ranges, vr)
}
