package target

// Driver 目标驱动，负责真正地在硬件上安装、移除断点和观察点
//
// 断点管理只在驱动返回成功后才会更新记录，驱动是安装结果的唯一依据。
// 驱动只允许修改传入记录的IsSet与OrigInstr字段。调用是同步的，可能阻塞在
// 硬件IO上，超时策略由驱动自己负责。
type Driver interface {
	// State 返回核心当前状态
	State() State

	// AddBreakpoint 安装按地址匹配的断点
	AddBreakpoint(bp *Breakpoint) error
	// AddContextBreakpoint 安装按asid匹配的断点
	AddContextBreakpoint(bp *Breakpoint) error
	// AddHybridBreakpoint 安装按地址+asid匹配的断点
	AddHybridBreakpoint(bp *Breakpoint) error
	// RemoveBreakpoint 移除断点，软件断点可能由组内其他核心的驱动移除
	RemoveBreakpoint(bp *Breakpoint) error

	AddWatchpoint(wp *Watchpoint) error
	RemoveWatchpoint(wp *Watchpoint) error

	// HitWatchpoint 返回最近一次触发的观察点
	HitWatchpoint() (*Watchpoint, error)
}

func installBreakpoint(drv Driver, bp *Breakpoint) error {
	switch bp.Match.Kind {
	case MatchContext:
		return drv.AddContextBreakpoint(bp)
	case MatchHybrid:
		return drv.AddHybridBreakpoint(bp)
	default:
		return drv.AddBreakpoint(bp)
	}
}
