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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocate_X86(t *testing.T) {
	it := NewIntervalTable()
	it.AddRange(0, Interval{Start: 0, End: 6})
	it.AddRange(1, Interval{Start: 2, End: 4})
	it.AddRange(2, Interval{Start: 6, End: 9})
	it.MarkDebugOnly(3)

	cm := NewClassMap(X86RegFile, GP64)
	cm.SetClass(1, GP32)

	var buf bytes.Buffer
	rec, err := Allocate(it, NewRegMatrix(X86RegFile), cm, WithDebugWriter(&buf))
	require.NoError(t, err)
	require.Equal(t, 3, rec.NumAssigned())
	require.NotEmpty(t, buf.String())

	/* %0 takes rax; %1 is 32-bit and overlaps %0, so eax is blocked by
	 * aliasing and it lands on ecx; %2 reuses rax after %0 dies */
	p0, _ := rec.PhysOf(0)
	p1, _ := rec.PhysOf(1)
	p2, _ := rec.PhysOf(2)
	require.Equal(t, "rax", X86RegFile.NameOf(p0))
	require.Equal(t, "ecx", X86RegFile.NameOf(p1))
	require.Equal(t, "rax", X86RegFile.NameOf(p2))

	/* the debug-only register is absent */
	_, ok := rec.PhysOf(3)
	require.False(t, ok)
}

func TestAllocate_HintAffinity(t *testing.T) {
	it := NewIntervalTable()
	it.AddRange(0, Interval{Start: 0, End: 4})
	it.AddRange(1, Interval{Start: 6, End: 8})

	hh := NewAffinityHints()
	hh.Prefer[0] = []PhysReg{3}
	hh.SameAs[1] = 0

	rec, err := Allocate(
		it,
		NewRegMatrix(X86RegFile),
		NewClassMap(X86RegFile, GP64),
		WithHintPolicy(hh),
	)
	require.NoError(t, err)

	/* %1 follows %0 onto rbx through the affinity hint */
	p0, _ := rec.PhysOf(0)
	p1, _ := rec.PhysOf(1)
	require.Equal(t, "rbx", X86RegFile.NameOf(p0))
	require.Equal(t, p0, p1)
}
