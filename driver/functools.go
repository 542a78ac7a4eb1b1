package driver

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// SplitBlock 按 blockSize 拆分数据
func SplitBlock(data []byte, blockSize int) [][]byte {
	var blocks [][]byte
	for i := 0; i < len(data); i += blockSize {
		end := i + blockSize
		// 如果最后一块长度不足，则end设置为实际长度
		if end > len(data) {
			end = len(data)
		}
		blocks = append(blocks, data[i:end])
	}
	return blocks
}

// ParseHexData 将 "DE AD BE EF" 或 "DEADBEEF" 形式的字符串转换为字节
func ParseHexData(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "-", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data %q: %w", s, err)
	}
	return data, nil
}

// ParseCanID 解析十六进制报文ID，可带 0x 前缀
func ParseCanID(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	id, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid can id %q: %w", s, err)
	}
	if id > 0x1FFFFFFF {
		return 0, fmt.Errorf("can id 0x%X out of range", id)
	}
	return uint32(id), nil
}
