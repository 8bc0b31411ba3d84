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
)

const testGP RegClass = 0

// testRegFile builds a tiny register file with nregs single-unit registers
// named r0..rN, one class, with the given registers reserved.
func testRegFile(nregs int, reserved ...PhysReg) *RegFile {
    rf := new(RegFile)
    rsv := make(map[PhysReg]bool, len(reserved))

    for _, p := range reserved {
        rsv[p] = true
        rf.reserved = rf.reserved.add(RegUnit(p))
    }

    order := make([]PhysReg, 0, nregs)
    for i := 0; i < nregs; i++ {
        rf.names = append(rf.names, fmt.Sprintf("r%d", i))
        rf.units = append(rf.units, []RegUnit { RegUnit(i) })
        if !rsv[PhysReg(i)] {
            order = append(order, PhysReg(i))
        }
    }

    rf.orders = [][]PhysReg { order }
    rf.classes = []string { "gp" }
    return rf
}

func span(s Pos, e Pos) Interval {
    return Interval { Start: s, End: e }
}
