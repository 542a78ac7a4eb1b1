//go:build windows

package native

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// LibraryName 是 Windows 下的 PCAN-Basic 动态库
const LibraryName = "PCANBasic.dll"

type library struct {
	dll   *windows.LazyDLL
	procs [procCount]*windows.LazyProc
}

// Open 加载指定路径的 PCAN-Basic 动态库并解析全部导出函数
func Open(path string) (Library, error) {
	l := &library{dll: windows.NewLazyDLL(path)}
	if err := l.dll.Load(); err != nil {
		return nil, fmt.Errorf("加载 %s 失败: %w", path, err)
	}
	for i, name := range procNames {
		p := l.dll.NewProc(name)
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("解析 %s 失败: %w", name, err)
		}
		l.procs[i] = p
	}
	return l, nil
}

//go:uintptrescapes
func (l *library) call(p proc, args ...uintptr) Status {
	r, _, _ := l.procs[p].Call(args...)
	return Status(r)
}
