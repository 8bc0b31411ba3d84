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

func TestX86RegFile_Units(t *testing.T) {
    rf := X86RegFile
    require.Equal(t, 32, rf.NumRegs())

    /* every 32-bit form shares the unit of its 64-bit parent */
    for i := 0; i < 16; i++ {
        r64 := PhysReg(i)
        r32 := PhysReg(i + 16)
        require.Equal(t, rf.UnitsOf(r64), rf.UnitsOf(r32), "%s vs %s", rf.NameOf(r64), rf.NameOf(r32))
        require.True(t, rf.aliases(r64, r32))
    }

    /* distinct parents never alias */
    require.False(t, rf.aliases(0, 1))
    require.False(t, rf.aliases(0, 17))
}

func TestX86RegFile_Reserved(t *testing.T) {
    rf := X86RegFile

    /* rsp and rbp are frozen out of every class order */
    require.True(t, rf.Reserved().has(4))
    require.True(t, rf.Reserved().has(5))
    for _, rc := range []RegClass { GP64, GP32 } {
        for _, p := range rf.Order(rc) {
            name := rf.NameOf(p)
            require.NotContains(t, []string { "rsp", "rbp", "esp", "ebp" }, name)
        }
        require.Len(t, rf.Order(rc), 14)
    }
}

func TestX86RegFile_Names(t *testing.T) {
    rf := X86RegFile
    require.Equal(t, "rax", rf.NameOf(0))
    require.Equal(t, "r15", rf.NameOf(15))
    require.Equal(t, "eax", rf.NameOf(16))
    require.Equal(t, "r8d", rf.NameOf(24))
    require.Equal(t, "r15d", rf.NameOf(31))
    require.Equal(t, "gp64", rf.ClassName(GP64))
    require.Equal(t, "gp32", rf.ClassName(GP32))
}
