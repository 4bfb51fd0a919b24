package target

import (
	"fmt"
	"strings"
)

// RWMode 观察点触发的访问类型
type RWMode int

const (
	Read RWMode = iota
	Write
	Access
)

func (m RWMode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	case Access:
		return "access"
	default:
		return fmt.Sprintf("RWMode(%d)", int(m))
	}
}

// ParseRWMode accepts read, write or access (and their first letters).
func ParseRWMode(s string) (RWMode, error) {
	switch strings.ToLower(s) {
	case "r", "read":
		return Read, nil
	case "w", "write":
		return Write, nil
	case "a", "access":
		return Access, nil
	}
	return Read, fmt.Errorf("invalid watchpoint mode: %s", s)
}

// Watchpoint 观察点信息
type Watchpoint struct {
	ID      ID      // 观察点编号
	Address Address // 观察的地址
	Length  uint32  // 观察的长度
	RW      RWMode  // 读、写、访问
	Value   uint64  // 期望的值
	Mask    uint64  // 值比较掩码
}

func (wp *Watchpoint) String() string {
	return fmt.Sprintf("%s watchpoint %d at %#x, length %#x", wp.RW, wp.ID, uint64(wp.Address), wp.Length)
}

// sameParams reports whether wp was requested with exactly these parameters.
func (wp *Watchpoint) sameParams(length uint32, rw RWMode, value, mask uint64) bool {
	return wp.Length == length && wp.RW == rw && wp.Value == value && wp.Mask == mask
}
