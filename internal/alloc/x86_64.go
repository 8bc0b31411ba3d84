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
    `github.com/chenzhuoyu/iasm/x86_64`
    `golang.org/x/arch/x86/x86asm`
)

// Register classes of the x86-64 register file.
const (
    GP64 RegClass = iota
    GP32
)

var ArchRegs = [...]x86_64.Register64 {
    x86_64.RAX,
    x86_64.RCX,
    x86_64.RDX,
    x86_64.RBX,
    x86_64.RSP,
    x86_64.RBP,
    x86_64.RSI,
    x86_64.RDI,
    x86_64.R8,
    x86_64.R9,
    x86_64.R10,
    x86_64.R11,
    x86_64.R12,
    x86_64.R13,
    x86_64.R14,
    x86_64.R15,
}

var ArchRegNames = map[x86_64.Register64]string {
    x86_64.RAX : "rax",
    x86_64.RCX : "rcx",
    x86_64.RDX : "rdx",
    x86_64.RBX : "rbx",
    x86_64.RSP : "rsp",
    x86_64.RBP : "rbp",
    x86_64.RSI : "rsi",
    x86_64.RDI : "rdi",
    x86_64.R8  : "r8",
    x86_64.R9  : "r9",
    x86_64.R10 : "r10",
    x86_64.R11 : "r11",
    x86_64.R12 : "r12",
    x86_64.R13 : "r13",
    x86_64.R14 : "r14",
    x86_64.R15 : "r15",
}

// rsp and rbp are frozen before allocation starts, they are never
// assignable.
var ArchRegReserved = map[x86_64.Register64]bool {
    x86_64.RSP: true,
    x86_64.RBP: true,
}

// 32-bit register forms alias the storage unit of their 64-bit parent.
var archAlias32 = map[x86asm.Reg]x86_64.Register64 {
    x86asm.EAX  : x86_64.RAX,
    x86asm.ECX  : x86_64.RCX,
    x86asm.EDX  : x86_64.RDX,
    x86asm.EBX  : x86_64.RBX,
    x86asm.ESP  : x86_64.RSP,
    x86asm.EBP  : x86_64.RBP,
    x86asm.ESI  : x86_64.RSI,
    x86asm.EDI  : x86_64.RDI,
    x86asm.R8L  : x86_64.R8,
    x86asm.R9L  : x86_64.R9,
    x86asm.R10L : x86_64.R10,
    x86asm.R11L : x86_64.R11,
    x86asm.R12L : x86_64.R12,
    x86asm.R13L : x86_64.R13,
    x86asm.R14L : x86_64.R14,
    x86asm.R15L : x86_64.R15,
}

var ArchRegNames32 = map[x86asm.Reg]string {
    x86asm.EAX  : "eax",
    x86asm.ECX  : "ecx",
    x86asm.EDX  : "edx",
    x86asm.EBX  : "ebx",
    x86asm.ESP  : "esp",
    x86asm.EBP  : "ebp",
    x86asm.ESI  : "esi",
    x86asm.EDI  : "edi",
    x86asm.R8L  : "r8d",
    x86asm.R9L  : "r9d",
    x86asm.R10L : "r10d",
    x86asm.R11L : "r11d",
    x86asm.R12L : "r12d",
    x86asm.R13L : "r13d",
    x86asm.R14L : "r14d",
    x86asm.R15L : "r15d",
}

var archRegs32 = [...]x86asm.Reg {
    x86asm.EAX,
    x86asm.ECX,
    x86asm.EDX,
    x86asm.EBX,
    x86asm.ESP,
    x86asm.EBP,
    x86asm.ESI,
    x86asm.EDI,
    x86asm.R8L,
    x86asm.R9L,
    x86asm.R10L,
    x86asm.R11L,
    x86asm.R12L,
    x86asm.R13L,
    x86asm.R14L,
    x86asm.R15L,
}

// X86RegFile is the x86-64 register file: 16 general purpose registers in
// their 64-bit and 32-bit forms, one storage unit per underlying register.
var X86RegFile = buildX86RegFile()

func buildX86RegFile() *RegFile {
    nb := len(ArchRegs)
    rf := new(RegFile)

    /* unit index of every 64-bit register */
    unitof := make(map[x86_64.Register64]RegUnit, nb)
    for i, r := range ArchRegs {
        unitof[r] = RegUnit(i)
    }

    /* 64-bit forms first, then the aliasing 32-bit forms */
    for _, r := range ArchRegs {
        rf.names = append(rf.names, ArchRegNames[r])
        rf.units = append(rf.units, []RegUnit { unitof[r] })
    }
    for _, r := range archRegs32 {
        rf.names = append(rf.names, ArchRegNames32[r])
        rf.units = append(rf.units, []RegUnit { unitof[archAlias32[r]] })
    }

    /* freeze the reserved units */
    for _, r := range ArchRegs {
        if ArchRegReserved[r] {
            rf.reserved = rf.reserved.add(unitof[r])
        }
    }

    /* canonical class orders, reserved registers excluded */
    gp64 := make([]PhysReg, 0, nb)
    gp32 := make([]PhysReg, 0, nb)
    for i, r := range ArchRegs {
        if !ArchRegReserved[r] {
            gp64 = append(gp64, PhysReg(i))
            gp32 = append(gp32, PhysReg(i + nb))
        }
    }

    rf.orders = [][]PhysReg { GP64: gp64, GP32: gp32 }
    rf.classes = []string { GP64: "gp64", GP32: "gp32" }
    return rf
}
