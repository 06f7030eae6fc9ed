//go:build linux

package tracker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/malikhw47/hwtracker/internal/models"
)

// linuxProbe inspects the active window through xprop (X11) with a
// fallback to hyprctl (Hyprland).
type linuxProbe struct{}

// NewProbe returns the foreground window probe for this platform.
func NewProbe() Probe {
	return &linuxProbe{}
}

func (p *linuxProbe) ActiveContext(
	ctx context.Context,
) (*models.ForegroundContext, error) {
	fg, err := p.xorgContext(ctx)
	if err == nil {
		return fg, nil
	}

	return p.hyprlandContext(ctx)
}

func (p *linuxProbe) xorgContext(
	ctx context.Context,
) (*models.ForegroundContext, error) {
	out, err := exec.CommandContext(ctx, "xprop", "-root", "_NET_ACTIVE_WINDOW").
		Output()
	if err != nil {
		return nil, err
	}

	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return nil, errNoActiveWindow
	}

	windowID := fields[len(fields)-1]
	if windowID == "0x0" {
		return nil, errNoActiveWindow
	}

	title, err := p.windowTitle(ctx, windowID)
	if err != nil {
		return nil, err
	}

	pid, err := p.windowPID(ctx, windowID)
	if err != nil {
		return nil, err
	}

	return &models.ForegroundContext{
		ProcessName: processName(pid),
		WindowTitle: title,
		PID:         pid,
	}, nil
}

func (p *linuxProbe) windowTitle(
	ctx context.Context,
	windowID string,
) (string, error) {
	out, err := exec.CommandContext(ctx, "xprop", "-id", windowID, "WM_NAME").
		Output()
	if err != nil {
		return "", err
	}

	s := string(out)
	if !strings.Contains(s, `"`) {
		return "", nil
	}

	parts := strings.SplitN(s, `"`, 3)
	if len(parts) < 3 {
		return "", nil
	}

	return parts[1], nil
}

func (p *linuxProbe) windowPID(
	ctx context.Context,
	windowID string,
) (int, error) {
	out, err := exec.CommandContext(ctx, "xprop", "-id", windowID, "_NET_WM_PID").
		Output()
	if err != nil {
		return 0, err
	}

	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing _NET_WM_PID for window %s", windowID)
	}

	return strconv.Atoi(fields[len(fields)-1])
}

func (p *linuxProbe) hyprlandContext(
	ctx context.Context,
) (*models.ForegroundContext, error) {
	out, err := exec.CommandContext(ctx, "hyprctl", "activewindow").Output()
	if err != nil {
		return nil, err
	}

	var (
		title string
		pid   int
	)

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)

		if after, ok := strings.CutPrefix(line, "title:"); ok {
			title = strings.TrimSpace(after)
		}

		if after, ok := strings.CutPrefix(line, "pid:"); ok {
			pid, _ = strconv.Atoi(strings.TrimSpace(after))
		}
	}

	if pid == 0 {
		return nil, errNoActiveWindow
	}

	return &models.ForegroundContext{
		ProcessName: processName(pid),
		WindowTitle: title,
		PID:         pid,
	}, nil
}

// processName resolves a pid to its command name. An unreadable
// process yields the empty string, a valid "unknown" identity.
func processName(pid int) string {
	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(comm))
}
