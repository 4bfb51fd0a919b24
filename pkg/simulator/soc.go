package simulator

import (
	"fmt"

	"github.com/hitzhangjie/hwdbg/pkg/logflags"
	"github.com/hitzhangjie/hwdbg/pkg/target"
	"github.com/sirupsen/logrus"
)

// Arch 指令集架构
type Arch string

const (
	ArchARM64 Arch = "arm64"
	ArchAMD64 Arch = "x86_64"
)

// breakInstr returns the software breakpoint instruction of arch.
func (a Arch) breakInstr() []byte {
	switch a {
	case ArchAMD64:
		return []byte{0xcc} // int3
	default:
		return []byte{0x00, 0x00, 0x20, 0xd4} // brk #0
	}
}

// BreakLen returns the size of the software breakpoint instruction, the
// smallest length a software breakpoint can have.
func (a Arch) BreakLen() uint32 {
	return uint32(len(a.breakInstr()))
}

// nop returns the encoding used to fill fresh memory.
func (a Arch) nop() []byte {
	switch a {
	case ArchAMD64:
		return []byte{0x90}
	default:
		return []byte{0x1f, 0x20, 0x03, 0xd5}
	}
}

// ParseArch 解析架构名称
func ParseArch(s string) (Arch, error) {
	switch s {
	case "arm64", "aarch64":
		return ArchARM64, nil
	case "x86_64", "amd64":
		return ArchAMD64, nil
	}
	return "", fmt.Errorf("unsupported arch: %s", s)
}

// SoC 一个模拟的片上系统，所有核心共享同一块内存
type SoC struct {
	Arch Arch

	log    *logrus.Entry
	mem    *Memory
	cores  []*Core
	byName map[string]*Core
}

// NewSoC 创建一个模拟的片上系统，内存[base, base+size)用nop指令填充
func NewSoC(arch Arch, base uint64, size int) *SoC {
	return &SoC{
		Arch:   arch,
		log:    logflags.DriverLogger().WithField("soc", string(arch)),
		mem:    newMemory(base, size, arch.nop()),
		byName: map[string]*Core{},
	}
}

// AddCore adds a core with the given number of hardware breakpoint and
// watchpoint comparators.
func (s *SoC) AddCore(name string, state target.State, hwBreakpoints, watchpoints int) (*Core, error) {
	if _, ok := s.byName[name]; ok {
		return nil, fmt.Errorf("core %s already exists", name)
	}
	c := &Core{
		soc:     s,
		name:    name,
		state:   state,
		hwSlots: hwBreakpoints,
		wpSlots: watchpoints,
		log:     s.log.WithField("core", name),
	}
	s.cores = append(s.cores, c)
	s.byName[name] = c
	return c, nil
}

// Core 按名称查找核心
func (s *SoC) Core(name string) (*Core, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Cores 返回所有核心
func (s *SoC) Cores() []*Core {
	return append([]*Core(nil), s.cores...)
}

// Memory 返回共享内存
func (s *SoC) Memory() *Memory {
	return s.mem
}

// ReadMemory 读取共享内存
func (s *SoC) ReadMemory(addr uint64, buf []byte) error {
	return s.mem.ReadAt(addr, buf)
}

// WriteMemory 写入共享内存
func (s *SoC) WriteMemory(addr uint64, buf []byte) error {
	return s.mem.WriteAt(addr, buf)
}
