//go:build windows

package util

import (
	"log/slog"
	"os"
	"slices"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
)

var shells = []string{"cmd.exe", "powershell.exe", "pwsh.exe", "wt.exe", "conhost.exe", "windowsterminal.exe"}

// StartedFromShell reports whether padbind runs in a console owned by a
// command line shell rather than one opened for a double-click.
func StartedFromShell() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		return false
	}
	parent := strings.ToLower(parentProcessName())
	slog.Debug("parent process", "name", parent)
	if slices.Contains(shells, parent) {
		return true
	}
	return parent != "explorer.exe"
}

func parentProcessName() string {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(snapshot)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))

	self := uint32(os.Getpid())
	var parent uint32
	for err = windows.Process32First(snapshot, &pe); err == nil; err = windows.Process32Next(snapshot, &pe) {
		if pe.ProcessID == self {
			parent = pe.ParentProcessID
			break
		}
	}
	if parent == 0 {
		return ""
	}
	for err = windows.Process32First(snapshot, &pe); err == nil; err = windows.Process32Next(snapshot, &pe) {
		if pe.ProcessID == parent {
			return windows.UTF16ToString(pe.ExeFile[:])
		}
	}
	return ""
}
