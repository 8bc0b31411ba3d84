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
    `github.com/oleiade/lane`
)

// worklist is the FIFO queue of live ranges awaiting assignment. Fragments
// produced by splitting and evicted occupants are appended at the tail.
//
// FIFO ordering is a deliberate simplification, no attempt is made to
// schedule harder-to-place ranges first. It is kept behind this type so a
// priority-ordered replacement is a drop-in swap.
type worklist struct {
    q *lane.Queue
}

func newWorklist() *worklist {
    return &worklist { q: lane.NewQueue() }
}

func (self *worklist) size() int {
    return self.q.Size()
}

func (self *worklist) enqueue(lr *LiveRange) {
    self.q.Enqueue(lr)
}

func (self *worklist) dequeue() *LiveRange {
    if self.q.Empty() {
        return nil
    } else {
        return self.q.Dequeue().(*LiveRange)
    }
}
