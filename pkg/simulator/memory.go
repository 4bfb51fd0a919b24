package simulator

import (
	"fmt"
	"sync"
)

// Memory 组内所有核心共享的一段内存
type Memory struct {
	mu   sync.RWMutex
	base uint64
	data []byte
}

func newMemory(base uint64, size int, fill []byte) *Memory {
	m := &Memory{
		base: base,
		data: make([]byte, size),
	}
	if len(fill) != 0 {
		for off := 0; off+len(fill) <= size; off += len(fill) {
			copy(m.data[off:], fill)
		}
	}
	return m
}

// Base 返回内存起始地址
func (m *Memory) Base() uint64 {
	return m.base
}

// Size 返回内存大小
func (m *Memory) Size() int {
	return len(m.data)
}

func (m *Memory) offset(addr uint64, n int) (int, error) {
	if addr < m.base || addr-m.base+uint64(n) > uint64(len(m.data)) {
		return 0, fmt.Errorf("address %#x (%d bytes) out of range [%#x, %#x)", addr, n, m.base, m.base+uint64(len(m.data)))
	}
	return int(addr - m.base), nil
}

// ReadAt 读取地址addr处的数据到buf中
func (m *Memory) ReadAt(addr uint64, buf []byte) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	off, err := m.offset(addr, len(buf))
	if err != nil {
		return err
	}
	copy(buf, m.data[off:])
	return nil
}

// WriteAt 将buf写入地址addr处
func (m *Memory) WriteAt(addr uint64, buf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	off, err := m.offset(addr, len(buf))
	if err != nil {
		return err
	}
	copy(m.data[off:], buf)
	return nil
}
