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
)

// PhysReg indexes a physical register within a RegFile.
type PhysReg uint8

// Pz is the "no register" sentinel.
const Pz PhysReg = 0xff

// RegUnit is the smallest unit of physical register storage. Registers that
// share a unit alias each other, e.g. eax occupies the same unit as rax.
type RegUnit uint8

// RegClass identifies a class of physical registers a virtual register may
// legally occupy.
type RegClass uint8

// UnitSet is a bitset of register units.
type UnitSet uint64

func (self UnitSet) has(u RegUnit) bool {
    return self & (1 << u) != 0
}

func (self UnitSet) add(u RegUnit) UnitSet {
    return self | (1 << u)
}

func (self UnitSet) String() string {
    nb := 0
    buf := make([]string, 0, 8)

    /* convert every unit */
    for u := RegUnit(0); u < 64; u++ {
        if self.has(u) {
            nb++
            buf = append(buf, fmt.Sprintf("u%d", u))
        }
    }

    /* join them together */
    return fmt.Sprintf(
        "{%s}",
        strings.Join(buf, ", "),
    )
}

// RegFile is the statically-known register file of the target: names and
// storage units per physical register, canonical allocation order per class,
// and the frozen set of reserved units. It is immutable once built.
type RegFile struct {
    names    []string
    units    [][]RegUnit
    orders   [][]PhysReg
    classes  []string
    reserved UnitSet
}

// NumRegs returns the number of physical registers in the file.
func (self *RegFile) NumRegs() int {
    return len(self.names)
}

// NameOf returns the assembler name of p.
func (self *RegFile) NameOf(p PhysReg) string {
    return self.names[p]
}

// UnitsOf returns the storage units occupied by p.
func (self *RegFile) UnitsOf(p PhysReg) []RegUnit {
    return self.units[p]
}

// Order returns the canonical preferred allocation order of rc.
func (self *RegFile) Order(rc RegClass) []PhysReg {
    return self.orders[rc]
}

// ClassName returns the name of rc.
func (self *RegFile) ClassName(rc RegClass) string {
    return self.classes[rc]
}

// Reserved returns the units that are never assignable.
func (self *RegFile) Reserved() UnitSet {
    return self.reserved
}

func (self *RegFile) aliases(p PhysReg, q PhysReg) bool {
    for _, u := range self.units[p] {
        for _, v := range self.units[q] {
            if u == v {
                return true
            }
        }
    }
    return false
}

// ClassInfo resolves the register class of a virtual register and the
// canonical candidate order of a class.
type ClassInfo interface {
    ClassOf(vr VirtReg) RegClass
    Order(rc RegClass) []PhysReg
}

// ClassMap is a map-backed ClassInfo over a RegFile. Virtual registers not
// present in the map fall back to the default class.
type ClassMap struct {
    file    *RegFile
    def     RegClass
    classes map[VirtReg]RegClass
}

func NewClassMap(file *RegFile, def RegClass) *ClassMap {
    return &ClassMap {
        def     : def,
        file    : file,
        classes : make(map[VirtReg]RegClass),
    }
}

// SetClass pins vr to rc.
func (self *ClassMap) SetClass(vr VirtReg, rc RegClass) {
    self.classes[vr] = rc
}

func (self *ClassMap) ClassOf(vr VirtReg) RegClass {
    if rc, ok := self.classes[vr]; ok {
        return rc
    } else {
        return self.def
    }
}

func (self *ClassMap) Order(rc RegClass) []PhysReg {
    return self.file.Order(rc)
}

// HintPolicy supplies target- or affinity-driven allocation hints for a
// virtual register. The returned registers are tried before the class order;
// when hard is true they are the only candidates tried, even if exhausting
// them forces a spill or split. The policy may consult the current partial
// assignment record but must not mutate it.
type HintPolicy interface {
    Hints(vr VirtReg, order []PhysReg, rec *AssignmentRecord) (hints []PhysReg, hard bool)
}

// NoHints is the empty hint policy.
type NoHints struct{}

func (NoHints) Hints(VirtReg, []PhysReg, *AssignmentRecord) ([]PhysReg, bool) {
    return nil, false
}

// AffinityHints prefers fixed registers and registers already assigned to
// related virtual registers, e.g. the two sides of a copy.
type AffinityHints struct {
    Hard   map[VirtReg]bool
    Prefer map[VirtReg][]PhysReg
    SameAs map[VirtReg]VirtReg
}

func NewAffinityHints() *AffinityHints {
    return &AffinityHints {
        Hard   : make(map[VirtReg]bool),
        Prefer : make(map[VirtReg][]PhysReg),
        SameAs : make(map[VirtReg]VirtReg),
    }
}

func (self *AffinityHints) Hints(vr VirtReg, _ []PhysReg, rec *AssignmentRecord) ([]PhysReg, bool) {
    hints := append([]PhysReg(nil), self.Prefer[vr]...)

    /* prefer the register already used by a related value, if any */
    if rv, ok := self.SameAs[vr]; ok {
        if p, ok := rec.PhysOf(rv); ok {
            hints = append(hints, p)
        }
    }
    return hints, self.Hard[vr]
}
