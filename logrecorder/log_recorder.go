package logrecorder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RotateInterval 是默认的日志轮换周期
const RotateInterval = 5 * time.Minute

// NowString 返回当前时间格式为 "20060102_1504" 的字符串
func NowString() string {
	return time.Now().Format("20060102_1504")
}

// MakeDir 在 root 下创建以日期命名的目录（如：2025_04_25）
func MakeDir(root string) (string, error) {
	fullPath := filepath.Join(root, time.Now().Format("2006_01_02"))
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return "", fmt.Errorf("创建文件夹失败: %w", err)
	}
	return fullPath, nil
}

// Recorder 是按日期目录存放、可轮换的日志文件
type Recorder struct {
	mu   sync.Mutex
	root string
	name string
	dir  string
	path string
	f    *os.File
}

var _ io.Writer = (*Recorder)(nil)

// New 打开 root/<日期>/<name><时间>.log
func New(root, name string) (*Recorder, error) {
	r := &Recorder{root: root, name: name}
	if err := r.Rotate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Rotate 以新的时间戳重新打开日志文件
func (r *Recorder) Rotate() error {
	dir, err := MakeDir(r.root)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s%s.log", r.name, NowString()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}

	r.mu.Lock()
	old := r.f
	r.f, r.dir, r.path = f, dir, path
	r.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return 0, os.ErrClosed
	}
	return r.f.Write(p)
}

// Dir 返回当前日志所在的日期目录
func (r *Recorder) Dir() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dir
}

// Path 返回当前日志文件
func (r *Recorder) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

// Init 打开日志文件并设为全局 zerolog 输出；console 为 true 时同时输出到终端
func Init(root, name string, console bool) (*Recorder, error) {
	r, err := New(root, name)
	if err != nil {
		return nil, err
	}
	var w io.Writer = r
	if console {
		w = zerolog.MultiLevelWriter(r, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"})
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return r, nil
}

// InitAndRotate 同 Init，并每隔 every 轮换一次日志文件，直到 ctx 结束
func InitAndRotate(ctx context.Context, root, name string, every time.Duration, console bool) (*Recorder, error) {
	r, err := Init(root, name, console)
	if err != nil {
		return nil, err
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				r.Close()
				return
			case <-ticker.C:
				if err := r.Rotate(); err != nil {
					log.Error().Err(err).Msg("日志轮换失败")
				}
			}
		}
	}()
	return r, nil
}
