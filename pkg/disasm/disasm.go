package disasm

import (
	"bytes"
	"fmt"

	"golang.org/x/arch/arm64/arm64asm"
	"golang.org/x/arch/x86/x86asm"
)

// Inst 一条反汇编后的指令
type Inst struct {
	Addr  uint64
	Bytes []byte
	Text  string
}

func (i Inst) String() string {
	return fmt.Sprintf("%#x:\t% x\t%s", i.Addr, i.Bytes, i.Text)
}

// Decode 反汇编data中最多max条指令，data位于地址addr处
//
// arch支持arm64与x86_64，syntax支持go、gnu，x86_64还支持intel。无法识别的
// 指令显示为"?"，并按该架构的最小指令长度跳过。
func Decode(arch string, addr uint64, data []byte, max int, syntax string) ([]Inst, error) {
	var decode func(pc uint64, dat []byte) (int, string, error)
	switch arch {
	case "arm64":
		decode = func(pc uint64, dat []byte) (int, string, error) {
			return decodeARM64(pc, dat, syntax)
		}
	case "x86_64":
		decode = func(pc uint64, dat []byte) (int, string, error) {
			return decodeAMD64(pc, dat, syntax)
		}
	default:
		return nil, fmt.Errorf("unsupported arch: %s", arch)
	}

	var (
		insts  []Inst
		offset int
	)
	for len(insts) < max && offset < len(data) {
		n, text, err := decode(addr+uint64(offset), data[offset:])
		if err != nil {
			return insts, err
		}
		if n > len(data)-offset {
			n = len(data) - offset
		}
		insts = append(insts, Inst{
			Addr:  addr + uint64(offset),
			Bytes: data[offset : offset+n],
			Text:  text,
		})
		offset += n
	}
	return insts, nil
}

func decodeARM64(pc uint64, dat []byte, syntax string) (int, string, error) {
	if len(dat) < 4 {
		return len(dat), "?", nil
	}
	inst, err := arm64asm.Decode(dat)
	if err != nil {
		return 4, "?", nil
	}
	switch syntax {
	case "go":
		return 4, arm64asm.GoSyntax(inst, pc, nil, bytes.NewReader(nil)), nil
	case "gnu":
		return 4, arm64asm.GNUSyntax(inst), nil
	default:
		return 0, "", fmt.Errorf("invalid asm syntax %q for arm64", syntax)
	}
}

func decodeAMD64(pc uint64, dat []byte, syntax string) (int, string, error) {
	inst, err := x86asm.Decode(dat, 64)
	if err != nil {
		return 1, "?", nil
	}
	switch syntax {
	case "go":
		return inst.Len, x86asm.GoSyntax(inst, pc, nil), nil
	case "gnu":
		return inst.Len, x86asm.GNUSyntax(inst, pc, nil), nil
	case "intel":
		return inst.Len, x86asm.IntelSyntax(inst, pc, nil), nil
	default:
		return 0, "", fmt.Errorf("invalid asm syntax %q for x86_64", syntax)
	}
}
