//go:build linux

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDesktopAutostart_Lifecycle(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a, err := NewAutostart()
	if err != nil {
		t.Fatalf("NewAutostart: %v", err)
	}

	if on, err := a.Enabled(); err != nil || on {
		t.Fatalf("expected disabled initially, got %v, %v", on, err)
	}

	if err := a.Enable("/opt/win scroll/winscroll"); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if on, err := a.Enabled(); err != nil || !on {
		t.Fatalf("expected enabled, got %v, %v", on, err)
	}

	entry := a.(*DesktopAutostart)
	data, err := os.ReadFile(filepath.Join(entry.Dir, "winscroll.desktop"))
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if !strings.Contains(string(data), `Exec="/opt/win scroll/winscroll" daemon`) {
		t.Fatalf("unexpected entry:\n%s", data)
	}

	if err := a.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if err := a.Disable(); err != nil {
		t.Fatalf("second Disable: %v", err)
	}
	if on, _ := a.Enabled(); on {
		t.Fatalf("expected disabled after Disable")
	}
}
