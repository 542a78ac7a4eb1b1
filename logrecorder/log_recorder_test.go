package logrecorder

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
)

func TestMakeDir(t *testing.T) {
	root := t.TempDir()
	dir, err := MakeDir(root)
	if err != nil {
		t.Fatalf("MakeDir: %v", err)
	}
	if filepath.Base(dir) != time.Now().Format("2006_01_02") {
		t.Errorf("unexpected dir %s", dir)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("dir not created: %v", err)
	}
	if _, err := MakeDir(root); err != nil {
		t.Errorf("second MakeDir: %v", err)
	}
}

func TestRecorder_WriteAndRotate(t *testing.T) {
	r, err := New(t.TempDir(), "can_log_")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	if !strings.HasPrefix(filepath.Base(r.Path()), "can_log_") || filepath.Dir(r.Path()) != r.Dir() {
		t.Fatalf("unexpected path %s", r.Path())
	}
	if _, err := r.Write([]byte("first\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := r.Rotate(); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if _, err := r.Write([]byte("second\n")); err != nil {
		t.Fatalf("Write after Rotate: %v", err)
	}
	b, err := os.ReadFile(r.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), "second") {
		t.Errorf("unexpected content %q", b)
	}
}

func TestRecorder_WriteAfterClose(t *testing.T) {
	r, err := New(t.TempDir(), "x")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := r.Write([]byte("x")); err == nil {
		t.Error("expected an error after Close")
	}
}

func TestInitAndRotate(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r, err := InitAndRotate(ctx, t.TempDir(), "pcan_", time.Hour, false)
	if err != nil {
		t.Fatalf("InitAndRotate: %v", err)
	}
	log.Info().Str("bus", "usb1").Msg("hello")

	b, err := os.ReadFile(r.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), `"bus":"usb1"`) || !strings.Contains(string(b), `"message":"hello"`) {
		t.Errorf("unexpected log content %q", b)
	}
}
