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

// buildOrder computes the candidate order for lr: the hint registers first,
// then the canonical class order with already-listed registers dropped. Hard
// hints cut the fallback entirely, exhausting them without success must
// force a spill or split. The result is deterministic for identical input
// state.
func (self *Allocator) buildOrder(lr *LiveRange) ([]PhysReg, bool) {
    vr := self.originOf(lr.vreg)
    order := self.classes.Order(self.classes.ClassOf(vr))
    hints, hard := self.hints.Hints(vr, order, self.oracle.Record())

    /* hard hints are the only candidates tried, even when the policy
     * produced none; an empty hard set must not widen to the class order */
    if hard {
        return hints, true
    }

    /* hints go first, the class order follows, first occurrence wins */
    seen := make(map[PhysReg]bool, len(hints) + len(order))
    cands := make([]PhysReg, 0, len(hints) + len(order))
    for _, p := range hints {
        if !seen[p] {
            seen[p] = true
            cands = append(cands, p)
        }
    }
    for _, p := range order {
        if !seen[p] {
            seen[p] = true
            cands = append(cands, p)
        }
    }
    return cands, false
}
