package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeARM64(t *testing.T) {
	// nop; brk #0
	data := []byte{0x1f, 0x20, 0x03, 0xd5, 0x00, 0x00, 0x20, 0xd4}

	insts, err := Decode("arm64", 0x1000, data, 10, "gnu")
	require.NoError(t, err)
	require.Len(t, insts, 2)
	assert.Equal(t, uint64(0x1000), insts[0].Addr)
	assert.Equal(t, "nop", insts[0].Text)
	assert.Equal(t, uint64(0x1004), insts[1].Addr)
	assert.Contains(t, insts[1].Text, "brk")

	insts, err = Decode("arm64", 0x1000, data, 1, "gnu")
	require.NoError(t, err)
	assert.Len(t, insts, 1)

	_, err = Decode("arm64", 0x1000, data, 1, "intel")
	assert.Error(t, err)
}

func TestDecodeAMD64(t *testing.T) {
	data := []byte{0x90, 0xcc, 0x90}

	insts, err := Decode("x86_64", 0x400000, data, 10, "intel")
	require.NoError(t, err)
	require.Len(t, insts, 3)
	assert.Equal(t, "nop", insts[0].Text)
	assert.Contains(t, insts[1].Text, "int")
	assert.Equal(t, uint64(0x400002), insts[2].Addr)
	assert.Contains(t, insts[1].String(), "0x400001:")
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode("riscv64", 0, []byte{0}, 1, "gnu")
	assert.Error(t, err)
}
