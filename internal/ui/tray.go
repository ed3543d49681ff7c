package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"

	"Glowpoint/internal/command"
	"Glowpoint/internal/config"
	"Glowpoint/internal/engine"
	"Glowpoint/internal/state"
)

// trayMenu builds the system tray menu. Every item posts a command so menu
// clicks take the same path as hotkeys and remote control.
func trayMenu(s config.Settings, st engine.Status, post func(command.Command)) *fyne.Menu {
	drawing := st.Mode == engine.ModeDrawing.String()
	item := func(label string, cmd command.Command) *fyne.MenuItem {
		return fyne.NewMenuItem(label, func() { post(cmd) })
	}

	spot := item(withShortcut("Spotlight", s.ShortcutDisplay(string(command.ToggleSpotlight))),
		command.Command{Action: command.ToggleSpotlight})
	spot.Checked = st.Spotlight

	items := []*fyne.MenuItem{spot, fyne.NewMenuItemSeparator()}
	for _, name := range s.ColorNames() {
		label := withShortcut("Draw "+title(name), s.ShortcutDisplay("draw_"+name))
		draw := item(label, command.Command{Action: command.ToggleDrawing, Color: name})
		draw.Checked = drawing && st.Color == name
		items = append(items, draw)
	}
	stop := item("Stop Drawing", command.Command{Action: command.StopDrawing})
	stop.Disabled = !drawing
	items = append(items, stop)

	tools := make([]*fyne.MenuItem, 0, len(state.Tools))
	for _, tool := range state.Tools {
		label := withShortcut(tool.Title(), strings.ToUpper(s.Drawing.ToolShortcuts[tool.String()]))
		ti := item(label, command.Command{Action: command.SelectTool, Tool: tool.String()})
		ti.Checked = st.Tool == tool.String()
		tools = append(tools, ti)
	}
	toolMenu := fyne.NewMenuItem("Tool", nil)
	toolMenu.ChildMenu = fyne.NewMenu("", tools...)

	undo := item("Undo", command.Command{Action: command.Undo})
	undo.Disabled = st.Shapes == 0
	redo := item("Redo", command.Command{Action: command.Redo})
	redo.Disabled = st.Redo == 0
	clearItem := item(withShortcut("Clear Drawings", s.ShortcutDisplay(string(command.ClearDrawings))),
		command.Command{Action: command.ClearDrawings})

	quit := item(withShortcut("Quit", s.ShortcutDisplay(string(command.Quit))), command.Command{Action: command.Quit})
	quit.IsQuit = true

	width := fyne.NewMenuItem(fmt.Sprintf("Width: %d px", st.Width), nil)
	width.Disabled = true

	items = append(items,
		toolMenu,
		fyne.NewMenuItemSeparator(),
		undo,
		redo,
		clearItem,
		fyne.NewMenuItemSeparator(),
		width,
		item("Reload Settings", command.Command{Action: command.ReloadConfig}),
		quit,
	)
	return fyne.NewMenu("Glowpoint", items...)
}

func withShortcut(label, shortcut string) string {
	if shortcut == "" {
		return label
	}
	return label + "    " + shortcut
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
