package target

import (
	"fmt"
)

// Address 目标地址空间中的地址
type Address uint64

// BreakpointKind 断点类型
type BreakpointKind int

const (
	// Hardware 由调试单元的比较器寄存器实现，与内存内容无关
	Hardware BreakpointKind = iota
	// Software 通过在内存中替换指令实现，SMP组内共享内存，只需设置一次
	Software
)

func (k BreakpointKind) String() string {
	switch k {
	case Hardware:
		return "hardware"
	case Software:
		return "software"
	default:
		return fmt.Sprintf("BreakpointKind(%d)", int(k))
	}
}

// MatchKind 断点的匹配方式
type MatchKind int

const (
	// MatchAddress 按指令地址匹配
	MatchAddress MatchKind = iota
	// MatchContext 按地址空间标识(asid)匹配
	MatchContext
	// MatchHybrid 同时按地址与asid匹配
	MatchHybrid
)

func (k MatchKind) String() string {
	switch k {
	case MatchAddress:
		return "address"
	case MatchContext:
		return "context"
	case MatchHybrid:
		return "hybrid"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// MatchKey describes what a breakpoint matches on. Only the fields relevant
// to Kind are meaningful: Addr for address and hybrid keys, ASID for context
// and hybrid keys.
type MatchKey struct {
	Kind MatchKind
	Addr Address
	ASID uint32
}

// AddressKey 按地址匹配的断点
func AddressKey(addr Address) MatchKey {
	return MatchKey{Kind: MatchAddress, Addr: addr}
}

// ContextKey 按asid匹配的断点
func ContextKey(asid uint32) MatchKey {
	return MatchKey{Kind: MatchContext, ASID: asid}
}

// HybridKey 按地址+asid匹配的断点
func HybridKey(addr Address, asid uint32) MatchKey {
	return MatchKey{Kind: MatchHybrid, Addr: addr, ASID: asid}
}

func (k MatchKey) String() string {
	switch k.Kind {
	case MatchContext:
		return fmt.Sprintf("asid %#08x", k.ASID)
	case MatchHybrid:
		return fmt.Sprintf("%#x (asid %#08x)", uint64(k.Addr), k.ASID)
	default:
		return fmt.Sprintf("%#x", uint64(k.Addr))
	}
}

// Breakpoint 断点信息
type Breakpoint struct {
	ID        ID             // 断点编号
	Match     MatchKey       // 匹配方式
	Length    uint32         // 断点长度
	Kind      BreakpointKind // 硬件断点 or 软件断点
	IsSet     bool           // 驱动是否已经完成安装
	OrigInstr []byte         // 被替换的原始指令数据，仅软件断点安装后有效
}

// Address returns the instruction address of bp, zero for context
// breakpoints.
func (bp *Breakpoint) Address() Address {
	if bp.Match.Kind == MatchContext {
		return 0
	}
	return bp.Match.Addr
}

// ASID returns the address space id of bp, zero for plain address
// breakpoints.
func (bp *Breakpoint) ASID() uint32 {
	if bp.Match.Kind == MatchAddress {
		return 0
	}
	return bp.Match.ASID
}

func (bp *Breakpoint) String() string {
	return fmt.Sprintf("%s breakpoint %d at %s, length %#x", bp.Kind, bp.ID, bp.Match, bp.Length)
}

// clone returns a copy that shares no memory with bp.
func (bp *Breakpoint) clone() Breakpoint {
	c := *bp
	if bp.OrigInstr != nil {
		c.OrigInstr = append([]byte(nil), bp.OrigInstr...)
	}
	return c
}

func newBreakpoint(key MatchKey, length uint32, kind BreakpointKind) *Breakpoint {
	return &Breakpoint{
		ID:     nextID(),
		Match:  key,
		Length: length,
		Kind:   kind,
	}
}
