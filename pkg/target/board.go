package target

import (
	"errors"
	"fmt"

	"github.com/hitzhangjie/hwdbg/pkg/logflags"
	"github.com/sirupsen/logrus"
)

// Board 一块目标板上的所有核心，以及核心之间的SMP分组
type Board struct {
	log *logrus.Entry

	targets []*Target
	byName  map[string]*Target

	groups    map[GroupID][]string // 组编号 -> 按顺序排列的组成员
	lastGroup GroupID
}

// NewBoard 创建一个空的目标板
func NewBoard() *Board {
	return &Board{
		log:    logflags.BreakpointsLogger(),
		byName: map[string]*Target{},
		groups: map[GroupID][]string{},
	}
}

// AddTarget 添加一个核心，核心名称必须唯一
func (b *Board) AddTarget(t *Target) error {
	if t == nil {
		return errors.New("nil target")
	}
	if _, ok := b.byName[t.Name]; ok {
		return fmt.Errorf("target %s already exists", t.Name)
	}
	b.targets = append(b.targets, t)
	b.byName[t.Name] = t
	return nil
}

// NewSMPGroup groups the named targets, in the given order, into a new SMP
// group. A target can be a member of one group only.
func (b *Board) NewSMPGroup(names ...string) (GroupID, error) {
	if len(names) == 0 {
		return 0, errors.New("empty smp group")
	}
	seen := map[string]bool{}
	for _, name := range names {
		t, ok := b.byName[name]
		if !ok {
			return 0, fmt.Errorf("target %s not found", name)
		}
		if t.smp != 0 {
			return 0, fmt.Errorf("target %s already in smp group %d", name, t.smp)
		}
		if seen[name] {
			return 0, fmt.Errorf("target %s listed twice", name)
		}
		seen[name] = true
	}

	b.lastGroup++
	id := b.lastGroup
	b.groups[id] = append([]string(nil), names...)
	for _, name := range names {
		b.byName[name].smp = id
	}
	return id, nil
}

// Target 按名称查找核心
func (b *Board) Target(name string) (*Target, bool) {
	t, ok := b.byName[name]
	return t, ok
}

// Targets 返回所有核心，按添加顺序
func (b *Board) Targets() []*Target {
	return append([]*Target(nil), b.targets...)
}

// Members returns the SMP group of t in group order, or just t when it is
// not part of a group.
func (b *Board) Members(t *Target) []*Target {
	names, ok := b.groups[t.smp]
	if !t.SMP() || !ok {
		return []*Target{t}
	}
	members := make([]*Target, 0, len(names))
	for _, name := range names {
		members = append(members, b.byName[name])
	}
	return members
}

// reachableMembers is Members without the unavailable cores of an SMP
// group. A lone target is returned as is, whatever its state.
func (b *Board) reachableMembers(t *Target) []*Target {
	if !t.SMP() {
		return []*Target{t}
	}
	var res []*Target
	for _, curr := range b.Members(t) {
		if curr.State() == StateUnavailable {
			continue
		}
		res = append(res, curr)
	}
	return res
}
