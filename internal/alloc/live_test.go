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

func TestLiveRange_Overlap(t *testing.T) {
    a := NewLiveRange(0, []Interval {{ Start: 0, End: 4 }, { Start: 8, End: 12 }})
    b := NewLiveRange(1, []Interval {{ Start: 4, End: 8 }})
    c := NewLiveRange(2, []Interval {{ Start: 10, End: 11 }})

    /* adjacent half-open intervals do not overlap */
    require.False(t, a.overlaps(b))
    require.False(t, b.overlaps(a))
    require.True(t, a.overlaps(c))
    require.True(t, c.overlaps(a))
    require.True(t, a.overlaps(a))
    require.False(t, b.overlaps(c))
}

func TestLiveRange_Validation(t *testing.T) {
    require.Panics(t, func() { NewLiveRange(0, nil) })
    require.Panics(t, func() { NewLiveRange(0, []Interval {{ Start: 2, End: 2 }}) })
    require.Panics(t, func() { NewLiveRange(0, []Interval {{ Start: 4, End: 8 }, { Start: 0, End: 5 }}) })
}

func TestLiveRange_Identity(t *testing.T) {
    spans := []Interval {{ Start: 0, End: 4 }}
    a := NewLiveRange(7, spans)
    b := NewLiveRange(7, spans)

    /* every range is a fresh entity, even over the same register */
    require.NotEqual(t, a.id, b.id)
    require.Equal(t, a.Reg(), b.Reg())
}

func TestIntervalTable(t *testing.T) {
    it := NewIntervalTable()
    it.AddRange(0, Interval { Start: 0, End: 4 })
    it.AddRange(2, Interval { Start: 2, End: 6 })
    it.MarkDebugOnly(1)

    require.Equal(t, 3, it.NumVirtRegs())
    require.True(t, it.HasOnlyDebugUses(1))
    require.False(t, it.HasOnlyDebugUses(0))
    require.NotNil(t, it.IntervalOf(2))
    require.Nil(t, it.IntervalOf(1))

    it.RemoveInterval(2)
    require.Nil(t, it.IntervalOf(2))
}
