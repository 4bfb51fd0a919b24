package board

import (
	"errors"
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/hitzhangjie/hwdbg/pkg/simulator"
	"github.com/hitzhangjie/hwdbg/pkg/target"
)

// Description 目标板描述文件
//
//	name: demo-soc
//	arch: arm64
//	memory:
//	  base: 0x80000000
//	  size: 65536
//	cores:
//	  - name: a53-0
//	    state: halted
//	    hw-breakpoints: 6
//	    watchpoints: 4
//	smp:
//	  - [a53-0, a53-1]
type Description struct {
	Name   string     `yaml:"name"`
	Arch   string     `yaml:"arch"`
	Memory Memory     `yaml:"memory"`
	Cores  []Core     `yaml:"cores"`
	SMP    [][]string `yaml:"smp"`
}

// Memory 共享内存区域
type Memory struct {
	Base uint64 `yaml:"base"`
	Size int    `yaml:"size"`
}

// Core 一个核心的描述
type Core struct {
	Name string `yaml:"name"`
	// CoreID defaults to the position of the core in the list.
	CoreID        *int   `yaml:"coreid,omitempty"`
	State         string `yaml:"state"`
	HWBreakpoints int    `yaml:"hw-breakpoints"`
	Watchpoints   int    `yaml:"watchpoints"`
}

// Load 读取并解析描述文件
func Load(path string) (*Description, error) {
	dat, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(dat)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return d, nil
}

// Parse 解析描述文件内容，并设置默认值
func Parse(dat []byte) (*Description, error) {
	d := &Description{}
	if err := yaml.UnmarshalStrict(dat, d); err != nil {
		return nil, err
	}
	if d.Arch == "" {
		d.Arch = string(simulator.ArchARM64)
	}
	if d.Memory.Size == 0 {
		d.Memory.Size = 64 << 10
	}
	for i := range d.Cores {
		if d.Cores[i].State == "" {
			d.Cores[i].State = target.StateHalted.String()
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// maxMemorySize bounds the simulated memory, which is allocated up front.
const maxMemorySize = 256 << 20

// Validate checks the description for mistakes Build would trip over.
func (d *Description) Validate() error {
	if _, err := simulator.ParseArch(d.Arch); err != nil {
		return err
	}
	if d.Memory.Size < 0 {
		return fmt.Errorf("invalid memory size: %d", d.Memory.Size)
	}
	if d.Memory.Size > maxMemorySize {
		return fmt.Errorf("memory size %d exceeds %d", d.Memory.Size, maxMemorySize)
	}
	if end := d.Memory.Base + uint64(d.Memory.Size); end != 0 && end < d.Memory.Base {
		return fmt.Errorf("memory [%#x, +%#x) wraps the address space", d.Memory.Base, d.Memory.Size)
	}
	if len(d.Cores) == 0 {
		return errors.New("no cores defined")
	}

	names := map[string]bool{}
	for _, c := range d.Cores {
		if c.Name == "" {
			return errors.New("core without name")
		}
		if names[c.Name] {
			return fmt.Errorf("core %s defined twice", c.Name)
		}
		names[c.Name] = true
		if _, err := target.ParseState(c.State); err != nil {
			return fmt.Errorf("core %s: %v", c.Name, err)
		}
		if c.HWBreakpoints < 0 || c.Watchpoints < 0 {
			return fmt.Errorf("core %s: negative comparator count", c.Name)
		}
	}

	grouped := map[string]bool{}
	for i, group := range d.SMP {
		if len(group) == 0 {
			return fmt.Errorf("smp group %d is empty", i)
		}
		for _, name := range group {
			if !names[name] {
				return fmt.Errorf("smp group %d: unknown core %s", i, name)
			}
			if grouped[name] {
				return fmt.Errorf("smp group %d: core %s already grouped", i, name)
			}
			grouped[name] = true
		}
	}
	return nil
}

// Build 根据描述创建模拟的片上系统，以及对应的目标板
func (d *Description) Build() (*target.Board, *simulator.SoC, error) {
	if err := d.Validate(); err != nil {
		return nil, nil, err
	}
	arch, _ := simulator.ParseArch(d.Arch)
	soc := simulator.NewSoC(arch, d.Memory.Base, d.Memory.Size)
	board := target.NewBoard()

	for i, c := range d.Cores {
		state, _ := target.ParseState(c.State)
		core, err := soc.AddCore(c.Name, state, c.HWBreakpoints, c.Watchpoints)
		if err != nil {
			return nil, nil, err
		}
		coreID := i
		if c.CoreID != nil {
			coreID = *c.CoreID
		}
		if err := board.AddTarget(target.NewTarget(c.Name, coreID, core)); err != nil {
			return nil, nil, err
		}
	}
	for _, group := range d.SMP {
		if _, err := board.NewSMPGroup(group...); err != nil {
			return nil, nil, err
		}
	}
	return board, soc, nil
}
