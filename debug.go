package hollowreach

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/hollowreach/chunk"
)

var (
	colorDebugActive   = Color{0.2, 1, 0.3, 1}
	colorDebugInactive = Color{0.5, 0.5, 0.5, 0.8}
	colorDebugRoot     = Color{1, 0.9, 0.1, 1}
)

// debugText formats the chunk traversal counters shown by the overlay.
func debugText(m *chunk.Manager) string {
	st := m.Stats()
	var b strings.Builder
	if root, ok := m.Root(); ok {
		fmt.Fprintf(&b, "root: chunk#%d\n", root)
	} else {
		b.WriteString("root: none\n")
	}
	fmt.Fprintf(&b, "chunks: %d active / %d\n", st.Active, m.Graph().Len())
	fmt.Fprintf(&b, "visits: %d / %d\n", st.LastVisits, m.VisitCeiling())
	fmt.Fprintf(&b, "pending: %d  runaways: %d\n", m.Pending(), st.Runaways)
	fmt.Fprintf(&b, "ticks: %d", st.Ticks)
	return b.String()
}

// drawDebug outlines every chunk, highlighting the traversal root, and prints
// the traversal counters.
func drawDebug(screen *ebiten.Image, cam *Camera, m *chunk.Manager) {
	root, _ := m.Root()
	m.Graph().Each(func(c *chunk.Chunk) {
		r := cam.WorldRectToScreen(c.Bounds())
		col, width := colorDebugInactive, float32(1)
		switch {
		case c.ID() == root:
			col, width = colorDebugRoot, 3
		case c.Active():
			col = colorDebugActive
		}
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), width, col.RGBA(), false)
		ebitenutil.DebugPrintAt(screen, c.String(), int(r.X)+4, int(r.Y)+4)
	})
	ebitenutil.DebugPrintAt(screen, debugText(m), 10, screen.Bounds().Dy()-80)
}

// debugMaxTreeDepth is the node depth past which debugCheckTree warns.
const debugMaxTreeDepth = 32

// debugMaxChildCount is the child count past which debugCheckTree warns.
const debugMaxChildCount = 1000

// debugCheckTree warns when n sits unusually deep or has unusually many
// children. It reports whether a warning was logged.
func debugCheckTree(log *slog.Logger, n *Node) bool {
	warned := false
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		log.Warn("node tree too deep", "node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
		warned = true
	}
	if len(n.children) > debugMaxChildCount {
		log.Warn("node has too many children", "node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
		warned = true
	}
	return warned
}
