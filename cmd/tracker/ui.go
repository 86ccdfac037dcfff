package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wadrando/wadrando/pkg/wad"
)

// TrackerUI is the BubbleTea model for the reachability tracker: pick a map,
// toggle inventory items, and watch which locations open up.
type TrackerUI struct {
	wad   *wad.WAD
	world wad.World
	rules *ruleSet
	inv   inventory

	maps     []*wad.Map
	items    []*wad.Item
	mapIdx   int
	itemIdx  int
	pane     pane
	status   string
	ready    bool
	width    int
	height   int
	locView  viewport.Model
	itemView viewport.Model
}

type pane int

const (
	paneMaps pane = iota
	paneItems
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	reachableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	blockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	unreachableStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")) // red

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205")).
			Bold(true)

	ownedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	panelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2)
)

var titleCaser = cases.Title(language.English)

func NewTrackerUI(w *wad.WAD, world wad.World, rules *ruleSet) TrackerUI {
	var items []*wad.Item
	for _, item := range w.Items() {
		if item.IsProgression() || item.IsUseful() {
			items = append(items, item)
		}
	}
	return TrackerUI{
		wad:      w,
		world:    world,
		rules:    rules,
		inv:      make(inventory),
		maps:     w.AllMaps(),
		items:    items,
		locView:  viewport.New(50, 20),
		itemView: viewport.New(30, 20),
	}
}

func (m TrackerUI) Init() tea.Cmd {
	return nil
}

func (m TrackerUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.locView.Width = m.width * 2 / 3
		m.locView.Height = m.height - 6
		m.itemView.Width = m.width - m.locView.Width - 4
		m.itemView.Height = m.height - 6
		m.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			if m.pane == paneMaps {
				m.pane = paneItems
			} else {
				m.pane = paneMaps
			}
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "enter", " ":
			if m.pane == paneItems && len(m.items) > 0 {
				name := m.items[m.itemIdx].Name()
				m.inv[name] = !m.inv[name]
			}
		case "g":
			name := m.world.GlitchItemName()
			m.inv[name] = !m.inv[name]
			m.status = fmt.Sprintf("glitch logic %s", onOff(m.inv[name]))
		case "c":
			if len(m.maps) > 0 {
				name := m.maps[m.mapIdx].Name
				if err := clipboard.WriteAll(name); err != nil {
					m.status = fmt.Sprintf("clipboard error: %v", err)
				} else {
					m.status = fmt.Sprintf("copied %q", name)
				}
			}
		}
	}
	return m, nil
}

func (m *TrackerUI) moveCursor(delta int) {
	if m.pane == paneMaps {
		m.mapIdx = clamp(m.mapIdx+delta, 0, len(m.maps)-1)
	} else {
		m.itemIdx = clamp(m.itemIdx+delta, 0, len(m.items)-1)
	}
}

func (m TrackerUI) View() string {
	if !m.ready {
		return "Loading..."
	}

	left := m.renderLocations()
	right := m.renderItems()
	body := lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left), panelStyle.Render(right))

	header := titleStyle.Render(fmt.Sprintf("WADRANDO TRACKER — %s", strings.ToUpper(m.wad.Name)))
	footer := blockedStyle.Render("tab: switch pane • enter: toggle item • g: glitch logic • c: copy map name • q: quit")
	if m.status != "" {
		footer = statusStyle.Render(m.status) + "\n" + footer
	}
	return header + "\n" + body + "\n" + footer
}

func (m TrackerUI) renderLocations() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MAPS & LOCATIONS") + "\n\n")

	for i, mp := range m.maps {
		line := mp.Name
		if title := mp.Info.Title; title != "" {
			line += " — " + titleCaser.String(strings.ToLower(title))
		}
		open := m.rules.mapRules[mp.Name](m.inv)
		switch {
		case i == m.mapIdx && m.pane == paneMaps:
			line = selectedStyle.Render(line)
		case open:
			line = reachableStyle.Render(line)
		default:
			line = blockedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if len(m.maps) > 0 {
		mp := m.maps[m.mapIdx]
		b.WriteString("\n" + titleStyle.Render(mp.Name) + "\n")
		for _, loc := range mp.Locations(m.wad) {
			if !loc.OnSkill(m.world.SpawnFilter()) {
				continue
			}
			marker, style := m.locMarker(loc)
			b.WriteString(style.Render(fmt.Sprintf("  %s %s", marker, loc.Name())) + "\n")
		}
	}
	return wordwrap.String(b.String(), m.locView.Width)
}

func (m TrackerUI) locMarker(loc *wad.Location) (string, lipgloss.Style) {
	if loc.Unreachable() {
		return "✗", unreachableStyle
	}
	if m.rules.locRules[loc.Name()](m.inv) {
		return "●", reachableStyle
	}
	return "○", blockedStyle
}

func (m TrackerUI) renderItems() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("INVENTORY") + "\n\n")
	for i, item := range m.items {
		marker := "○"
		style := blockedStyle
		if m.inv[item.Name()] {
			marker = "●"
			style = ownedStyle
		}
		line := fmt.Sprintf("%s %s", marker, item.Name())
		if i == m.itemIdx && m.pane == paneItems {
			b.WriteString(selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString(style.Render(line) + "\n")
		}
	}
	return wordwrap.String(b.String(), m.itemView.Width)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
