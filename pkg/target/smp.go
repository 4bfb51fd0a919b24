package target

// FanoutPolicy 决定一个SMP组内的某个核心处理失败后，是否继续处理其余核心
//
// 添加操作遇到第一个错误就停止，已经成功的核心不会回滚；移除、清理操作
// 总是处理完所有核心，并返回最后一个错误。
type FanoutPolicy int

const (
	// AbortOnFirst 遇到第一个错误立即返回
	AbortOnFirst FanoutPolicy = iota
	// BestEffort 继续处理剩余核心，返回最后一个错误
	BestEffort
)

func (p FanoutPolicy) String() string {
	if p == AbortOnFirst {
		return "abort-on-first"
	}
	return "best-effort"
}

// run calls fn for every member in order according to p.
func (p FanoutPolicy) run(members []*Target, fn func(curr *Target) error) error {
	var retErr error
	for _, curr := range members {
		if err := fn(curr); err != nil {
			if p == AbortOnFirst {
				return err
			}
			retErr = err
		}
	}
	return retErr
}
