package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/parts"
)

// Picker is the column of part tabs. It never changes the selection itself:
// clicks go out through OnSelect and the highlight follows the registry's
// notifications through SetActive.
type Picker struct {
	entries []parts.Entry
	active  parts.ID
	rects   []rl.Rectangle

	OnSelect func(parts.ID)
}

func NewPicker(entries []parts.Entry) *Picker {
	return &Picker{
		entries: append([]parts.Entry(nil), entries...),
		rects:   tabRects(len(entries)),
	}
}

// SetActive is the registry listener.
func (p *Picker) SetActive(e parts.Entry) {
	p.active = e.ID
}

// Contains reports whether pos is over a tab.
func (p *Picker) Contains(pos rl.Vector2) bool {
	return hit(p.rects, pos) >= 0
}

// Draw draws the tabs. A clicked tab emits OnSelect.
func (p *Picker) Draw() {
	for i, e := range p.entries {
		r := p.rects[i]
		if gui.Button(r, string(e.ID)) {
			if p.OnSelect != nil {
				p.OnSelect(e.ID)
			}
		}
		if e.ID == p.active {
			rl.DrawRectangleLinesEx(r, 2, colorAccent)
			rl.DrawRectangleRec(rl.Rectangle{X: r.X, Y: r.Y + 4, Width: 4, Height: r.Height - 8}, colorAccent)
		}
	}
}
