//go:build linux || darwin

package native

import (
	"fmt"

	"github.com/ebitengine/purego"
)

type library struct {
	handle uintptr
	procs  [procCount]uintptr
}

// Open 加载指定路径的 PCAN-Basic 共享库并解析全部导出函数
func Open(path string) (Library, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("加载 %s 失败: %w", path, err)
	}
	l := &library{handle: h}
	for i, name := range procNames {
		sym, err := purego.Dlsym(h, name)
		if err != nil {
			_ = purego.Dlclose(h)
			return nil, fmt.Errorf("解析 %s 失败: %w", name, err)
		}
		l.procs[i] = sym
	}
	return l, nil
}

//go:uintptrescapes
func (l *library) call(p proc, args ...uintptr) Status {
	r, _, _ := purego.SyscallN(l.procs[p], args...)
	// TPCANStatus 是 32 位无符号数，高位可能残留寄存器内容
	return Status(uint32(r))
}
