//go:build windows

package tracker

import (
	"context"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/malikhw47/hwtracker/internal/models"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessID = user32.NewProc("GetWindowThreadProcessId")
)

type windowsProbe struct{}

// NewProbe returns the foreground window probe for this platform.
func NewProbe() Probe {
	return &windowsProbe{}
}

func (p *windowsProbe) ActiveContext(
	_ context.Context,
) (*models.ForegroundContext, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return nil, errNoActiveWindow
	}

	var title [512]uint16

	_, _, _ = procGetWindowTextW.Call(
		hwnd,
		uintptr(unsafe.Pointer(&title[0])),
		uintptr(len(title)),
	)

	var pid uint32

	_, _, _ = procGetWindowThreadProcessID.Call(
		hwnd,
		uintptr(unsafe.Pointer(&pid)),
	)

	return &models.ForegroundContext{
		ProcessName: processImageName(pid),
		WindowTitle: windows.UTF16ToString(title[:]),
		PID:         int(pid),
	}, nil
}

// processImageName resolves a pid to its executable base name. An
// unreadable process yields the empty string, a valid "unknown"
// identity.
func processImageName(pid uint32) string {
	h, err := windows.OpenProcess(
		windows.PROCESS_QUERY_LIMITED_INFORMATION,
		false,
		pid,
	)
	if err != nil {
		return ""
	}

	defer windows.CloseHandle(h)

	var buf [windows.MAX_PATH]uint16

	size := uint32(len(buf))

	err = windows.QueryFullProcessImageName(h, 0, &buf[0], &size)
	if err != nil {
		return ""
	}

	return filepath.Base(windows.UTF16ToString(buf[:size]))
}
