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
	"github.com/cloudwego/regmin/internal/alloc"
)

// FatalAllocationError occurs when a live range has no free, evictable or
// splittable path to a physical register, e.g. a single-instruction
// interval with zero legal registers. It is a hard compilation failure for
// the function and is never silently dropped; whether to retry with a
// different allocator or looser constraints is up to the host.
type FatalAllocationError = alloc.FatalAllocationError
