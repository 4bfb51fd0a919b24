package target

import (
	"go.uber.org/atomic"
)

// ID 断点、观察点的唯一编号，进程范围内单调递增，永不复用
type ID = uint64

var (
	bpwpSeqNo = atomic.NewUint64(0)
)

// nextID 分配一个新的编号，断点与观察点共享同一个序列
func nextID() ID {
	return bpwpSeqNo.Inc()
}
