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

// Package regmin is a minimal greedy register allocator. It assigns a finite
// pool of physical machine registers to an unbounded set of virtual
// registers, evicting lower-priority assignments or splitting live ranges
// when the pool is insufficient.
//
// The allocator is a library invoked per function being compiled. Live
// range computation, interference bookkeeping and register class data are
// collaborators injected by the host pipeline; this package ships default
// implementations of all three so it is also usable stand-alone.
package regmin

import (
	"github.com/cloudwego/regmin/internal/alloc"
)

// Core data model.
type (
	Pos       = alloc.Pos
	Interval  = alloc.Interval
	LiveRange = alloc.LiveRange
	VirtReg   = alloc.VirtReg
	PhysReg   = alloc.PhysReg
	RegUnit   = alloc.RegUnit
	RegClass  = alloc.RegClass
	RegFile   = alloc.RegFile
)

// Collaborator interfaces consumed by the allocation core.
type (
	IntervalProvider = alloc.IntervalProvider
	Oracle           = alloc.Oracle
	ClassInfo        = alloc.ClassInfo
	HintPolicy       = alloc.HintPolicy
	SpillPolicy      = alloc.SpillPolicy
	SplitPolicy      = alloc.SplitPolicy
)

// Default collaborator implementations.
type (
	IntervalTable    = alloc.IntervalTable
	RegMatrix        = alloc.RegMatrix
	ClassMap         = alloc.ClassMap
	AffinityHints    = alloc.AffinityHints
	AssignmentRecord = alloc.AssignmentRecord
)

// InterferenceKind classifies the interference between a live range and a
// physical register.
type InterferenceKind = alloc.InterferenceKind

const (
	IkFree    = alloc.IkFree
	IkVirtReg = alloc.IkVirtReg
	IkRegUnit = alloc.IkRegUnit
)

// Pz is the "no register" sentinel.
const Pz = alloc.Pz

// The x86-64 register file and its register classes.
var X86RegFile = alloc.X86RegFile

const (
	GP64 = alloc.GP64
	GP32 = alloc.GP32
)

// NewLiveRange creates a live range for vr over the given intervals.
func NewLiveRange(vr VirtReg, spans []Interval) *LiveRange {
	return alloc.NewLiveRange(vr, spans)
}

// NewIntervalTable creates an empty map-backed IntervalProvider.
func NewIntervalTable() *IntervalTable {
	return alloc.NewIntervalTable()
}

// NewRegMatrix creates an interference oracle over file. Every function
// being allocated needs its own instance.
func NewRegMatrix(file *RegFile) *RegMatrix {
	return alloc.NewRegMatrix(file)
}

// NewClassMap creates a ClassInfo over file with the given default class.
func NewClassMap(file *RegFile, def RegClass) *ClassMap {
	return alloc.NewClassMap(file, def)
}

// NewAffinityHints creates an empty affinity-based hint policy.
func NewAffinityHints() *AffinityHints {
	return alloc.NewAffinityHints()
}

// Allocate assigns a physical register (or, with WithSlotSpill, a stack
// slot) to every virtual register that provider reports live and not
// debug-only, and returns the committed assignment record. It returns a
// *FatalAllocationError when some live range has no free, evictable or
// splittable path to a register.
func Allocate(provider IntervalProvider, oracle Oracle, classes ClassInfo, opts ...Option) (*AssignmentRecord, error) {
	return alloc.NewAllocator(provider, oracle, classes, opts...).Allocate()
}
