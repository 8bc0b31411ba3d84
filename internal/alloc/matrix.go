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
    `sort`
    `strings`
)

// InterferenceKind classifies the interference between a live range and a
// physical register.
type InterferenceKind uint8

const (
    // IkFree means no overlap with any committed occupant or reserved unit.
    IkFree InterferenceKind = iota

    // IkVirtReg means an overlap with one or more live ranges currently
    // assigned to other virtual registers.
    IkVirtReg

    // IkRegUnit means an overlap with a reserved register or a fixed unit
    // occupancy with no virtual owner.
    IkRegUnit
)

func (self InterferenceKind) String() string {
    switch self {
        case IkFree    : return "Free"
        case IkVirtReg : return "VirtReg"
        case IkRegUnit : return "RegUnit"
        default        : panic("alloc: invalid interference kind")
    }
}

// AssignmentRecord is the committed mapping of virtual registers to physical
// registers or spill slots. It is owned by the interference oracle; the
// allocator core mutates it only through the oracle.
type AssignmentRecord struct {
    file  *RegFile
    phys  map[VirtReg]PhysReg
    slots map[VirtReg]int
    orig  map[VirtReg]VirtReg
    nslot int
}

// NewAssignmentRecord creates an empty record over file, for hosts that
// bring their own Oracle implementation.
func NewAssignmentRecord(file *RegFile) *AssignmentRecord {
    return newAssignmentRecord(file)
}

func newAssignmentRecord(file *RegFile) *AssignmentRecord {
    return &AssignmentRecord {
        file  : file,
        phys  : make(map[VirtReg]PhysReg),
        slots : make(map[VirtReg]int),
        orig  : make(map[VirtReg]VirtReg),
    }
}

// PhysOf returns the physical register committed for vr, if any.
func (self *AssignmentRecord) PhysOf(vr VirtReg) (PhysReg, bool) {
    p, ok := self.phys[vr]
    return p, ok
}

// SlotOf returns the spill slot committed for vr, if any.
func (self *AssignmentRecord) SlotOf(vr VirtReg) (int, bool) {
    s, ok := self.slots[vr]
    return s, ok
}

// NumSlots returns the number of spill slots allocated so far.
func (self *AssignmentRecord) NumSlots() int {
    return self.nslot
}

// NumAssigned returns the number of committed register assignments.
func (self *AssignmentRecord) NumAssigned() int {
    return len(self.phys)
}

// Each calls fn for every committed register assignment, in virtual
// register order.
func (self *AssignmentRecord) Each(fn func(vr VirtReg, p PhysReg)) {
    vrs := make([]VirtReg, 0, len(self.phys))
    for vr := range self.phys {
        vrs = append(vrs, vr)
    }
    sort.Slice(vrs, func(i int, j int) bool { return vrs[i] < vrs[j] })
    for _, vr := range vrs {
        fn(vr, self.phys[vr])
    }
}

// OriginOf maps a split fragment's virtual register back to the virtual
// register it was cloned from. Non-fragment registers map to themselves.
func (self *AssignmentRecord) OriginOf(vr VirtReg) VirtReg {
    if rv, ok := self.orig[vr]; ok {
        return rv
    } else {
        return vr
    }
}

func (self *AssignmentRecord) assign(vr VirtReg, p PhysReg) {
    if _, ok := self.phys[vr]; ok {
        panic(fmt.Sprintf("alloc: %%%d is already assigned", vr))
    }
    self.phys[vr] = p
}

func (self *AssignmentRecord) unassign(vr VirtReg) {
    if _, ok := self.phys[vr]; !ok {
        panic(fmt.Sprintf("alloc: %%%d is not assigned", vr))
    }
    delete(self.phys, vr)
}

func (self *AssignmentRecord) assignSlot(vr VirtReg) int {
    slot := self.nslot
    self.nslot++
    self.slots[vr] = slot
    return slot
}

func (self *AssignmentRecord) setOrigin(vr VirtReg, from VirtReg) {
    self.orig[vr] = self.OriginOf(from)
}

func (self *AssignmentRecord) String() string {
    buf := make([]string, 0, len(self.phys))
    self.Each(func(vr VirtReg, p PhysReg) {
        buf = append(buf, fmt.Sprintf("%%%d = %s", vr, self.file.NameOf(p)))
    })
    for vr, s := range self.slots {
        buf = append(buf, fmt.Sprintf("%%%d = slot #%d", vr, s))
    }
    return strings.Join(buf, "\n")
}

// Oracle answers whether a physical register is usable over a live range and
// performs or undoes assignments. Every mutation must be fully applied
// before the next query is issued; the implementation carries no internal
// synchronization.
type Oracle interface {
    Classify(lr *LiveRange, p PhysReg) (InterferenceKind, []*LiveRange)
    Assign(lr *LiveRange, p PhysReg)
    Unassign(vr VirtReg) *LiveRange
    InvalidateCache(lr *LiveRange)
    Record() *AssignmentRecord
}

type _UnitOcc struct {
    lr    *LiveRange
    fixed bool
}

type _MatrixKey struct {
    id uint32
    p  PhysReg
}

type _MatrixHit struct {
    kind   InterferenceKind
    owners []*LiveRange
}

// RegMatrix tracks virtual register interference along two dimensions,
// register units and instruction positions. One instance owns the
// assignment state of exactly one function.
type RegMatrix struct {
    file  *RegFile
    rec   *AssignmentRecord
    occs  [][]_UnitOcc
    cache map[_MatrixKey]_MatrixHit
}

func NewRegMatrix(file *RegFile) *RegMatrix {
    nu := 0
    for p := 0; p < file.NumRegs(); p++ {
        for _, u := range file.UnitsOf(PhysReg(p)) {
            if int(u) >= nu {
                nu = int(u) + 1
            }
        }
    }
    return &RegMatrix {
        file  : file,
        rec   : newAssignmentRecord(file),
        occs  : make([][]_UnitOcc, nu),
        cache : make(map[_MatrixKey]_MatrixHit),
    }
}

// Record returns the assignment record owned by this matrix.
func (self *RegMatrix) Record() *AssignmentRecord {
    return self.rec
}

// BlockUnit marks u as occupied over iv with no virtual owner, e.g. a
// register clobbered by a call.
func (self *RegMatrix) BlockUnit(u RegUnit, iv Interval) {
    self.occs[u] = append(self.occs[u], _UnitOcc { fixed: true, lr: NewLiveRange(0, []Interval { iv }) })
    self.flushCache()
}

// Classify checks the interference of lr against p. The result is Free,
// RegUnit (reserved or fixed occupancy, not evictable), or VirtReg together
// with every distinct live range currently in the way.
func (self *RegMatrix) Classify(lr *LiveRange, p PhysReg) (InterferenceKind, []*LiveRange) {
    key := _MatrixKey { id: lr.id, p: p }

    /* check for cached classifications */
    if hit, ok := self.cache[key]; ok {
        return hit.kind, hit.owners
    }

    /* query each unit of p over the live range */
    kind, owners := self.classifySlow(lr, p)
    self.cache[key] = _MatrixHit { kind: kind, owners: owners }
    return kind, owners
}

func (self *RegMatrix) classifySlow(lr *LiveRange, p PhysReg) (InterferenceKind, []*LiveRange) {
    var owners []*LiveRange

    /* scan every aliased unit */
    for _, u := range self.file.UnitsOf(p) {
        if self.file.Reserved().has(u) {
            return IkRegUnit, nil
        }
        for _, occ := range self.occs[u] {
            if !occ.lr.overlaps(lr) {
                continue
            } else if occ.fixed {
                return IkRegUnit, nil
            } else if !containsRange(owners, occ.lr) {
                owners = append(owners, occ.lr)
            }
        }
    }

    /* occupied iff some virtual owner is in the way */
    if len(owners) != 0 {
        return IkVirtReg, owners
    } else {
        return IkFree, nil
    }
}

// Assign commits lr to p. The caller must have established that the
// classification is Free.
func (self *RegMatrix) Assign(lr *LiveRange, p PhysReg) {
    if kind, _ := self.classifySlow(lr, p); kind != IkFree {
        panic(fmt.Sprintf("alloc: assignment of occupied register %s to %s", self.file.NameOf(p), lr))
    }
    for _, u := range self.file.UnitsOf(p) {
        self.occs[u] = append(self.occs[u], _UnitOcc { lr: lr })
    }
    self.rec.assign(lr.vreg, p)
    self.flushCache()
}

// Unassign evicts the committed assignment of vr and returns its live
// range.
func (self *RegMatrix) Unassign(vr VirtReg) *LiveRange {
    var ret *LiveRange
    self.rec.unassign(vr)

    /* drop the occupancies of vr from every unit */
    for u, occs := range self.occs {
        buf := occs[:0]
        for _, occ := range occs {
            if occ.fixed || occ.lr.vreg != vr {
                buf = append(buf, occ)
            } else {
                ret = occ.lr
            }
        }
        self.occs[u] = buf
    }

    /* the occupancies must exist */
    if ret == nil {
        panic(fmt.Sprintf("alloc: no occupancy for %%%d", vr))
    }
    self.flushCache()
    return ret
}

// InvalidateCache drops every cached classification of lr. The driver must
// call this before resolving lr, cached answers are only valid against the
// committed assignments at query time.
func (self *RegMatrix) InvalidateCache(lr *LiveRange) {
    for key := range self.cache {
        if key.id == lr.id {
            delete(self.cache, key)
        }
    }
}

func (self *RegMatrix) flushCache() {
    for key := range self.cache {
        delete(self.cache, key)
    }
}

func containsRange(rr []*LiveRange, lr *LiveRange) bool {
    for _, v := range rr {
        if v == lr {
            return true
        }
    }
    return false
}
