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
    `testing`

    `github.com/stretchr/testify/require`
)

func TestRegMatrix_Classify(t *testing.T) {
    rf := testRegFile(3, 2)
    mm := NewRegMatrix(rf)
    a := NewLiveRange(0, []Interval { span(0, 4) })
    b := NewLiveRange(1, []Interval { span(2, 6) })
    c := NewLiveRange(2, []Interval { span(4, 8) })

    /* empty matrix, everything but the reserved register is free */
    kind, _ := mm.Classify(a, 0)
    require.Equal(t, IkFree, kind)
    kind, _ = mm.Classify(a, 2)
    require.Equal(t, IkRegUnit, kind)

    /* overlap with a committed virtual occupant */
    mm.Assign(a, 0)
    kind, owners := mm.Classify(b, 0)
    require.Equal(t, IkVirtReg, kind)
    require.Len(t, owners, 1)
    require.Same(t, a, owners[0])

    /* disjoint ranges share a register */
    kind, _ = mm.Classify(c, 0)
    require.Equal(t, IkFree, kind)
}

func TestRegMatrix_MultipleOwners(t *testing.T) {
    rf := testRegFile(2)
    mm := NewRegMatrix(rf)
    a := NewLiveRange(0, []Interval { span(0, 2) })
    b := NewLiveRange(1, []Interval { span(4, 6) })
    c := NewLiveRange(2, []Interval { span(0, 8) })

    /* two disjoint occupants both stand in the way of c */
    mm.Assign(a, 0)
    mm.Assign(b, 0)
    kind, owners := mm.Classify(c, 0)
    require.Equal(t, IkVirtReg, kind)
    require.Len(t, owners, 2)
}

func TestRegMatrix_FixedUnits(t *testing.T) {
    rf := testRegFile(2)
    mm := NewRegMatrix(rf)
    lr := NewLiveRange(0, []Interval { span(0, 4) })

    /* a fixed occupancy has no virtual owner and is not evictable */
    mm.BlockUnit(1, span(2, 3))
    kind, _ := mm.Classify(lr, 1)
    require.Equal(t, IkRegUnit, kind)
    kind, _ = mm.Classify(lr, 0)
    require.Equal(t, IkFree, kind)
}

func TestRegMatrix_Aliasing(t *testing.T) {
    mm := NewRegMatrix(X86RegFile)
    a := NewLiveRange(0, []Interval { span(0, 4) })
    b := NewLiveRange(1, []Interval { span(2, 6) })

    /* rax is physreg 0, eax is physreg 16, same storage unit */
    rax := PhysReg(0)
    eax := PhysReg(16)
    require.Equal(t, "rax", X86RegFile.NameOf(rax))
    require.Equal(t, "eax", X86RegFile.NameOf(eax))

    mm.Assign(a, rax)
    kind, owners := mm.Classify(b, eax)
    require.Equal(t, IkVirtReg, kind)
    require.Same(t, a, owners[0])
}

func TestRegMatrix_Unassign(t *testing.T) {
    rf := testRegFile(2)
    mm := NewRegMatrix(rf)
    a := NewLiveRange(0, []Interval { span(0, 4) })
    b := NewLiveRange(1, []Interval { span(2, 6) })

    mm.Assign(a, 0)
    _, ok := mm.Record().PhysOf(0)
    require.True(t, ok)

    /* eviction frees the register and returns the evicted range */
    require.Same(t, a, mm.Unassign(0))
    _, ok = mm.Record().PhysOf(0)
    require.False(t, ok)
    kind, _ := mm.Classify(b, 0)
    require.Equal(t, IkFree, kind)

    /* double unassign is a defect */
    require.Panics(t, func() { mm.Unassign(0) })
}

func TestRegMatrix_DoubleAssign(t *testing.T) {
    rf := testRegFile(2)
    mm := NewRegMatrix(rf)
    a := NewLiveRange(0, []Interval { span(0, 4) })
    b := NewLiveRange(1, []Interval { span(2, 6) })

    /* assigning over a committed overlap is a defect */
    mm.Assign(a, 0)
    require.Panics(t, func() { mm.Assign(b, 0) })
}

func TestRegMatrix_CacheInvalidation(t *testing.T) {
    rf := testRegFile(2)
    mm := NewRegMatrix(rf)
    a := NewLiveRange(0, []Interval { span(0, 4) })
    b := NewLiveRange(1, []Interval { span(2, 6) })

    /* prime the cache, then change the committed state */
    kind, _ := mm.Classify(b, 0)
    require.Equal(t, IkFree, kind)
    mm.Assign(a, 0)
    mm.InvalidateCache(b)

    /* answers must reflect the committed record */
    kind, _ = mm.Classify(b, 0)
    require.Equal(t, IkVirtReg, kind)
}
