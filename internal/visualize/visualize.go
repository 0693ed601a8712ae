// Package visualize implements the branch-track SVG visualizer (D5), an
// external collaborator per spec.md §1/§6 that renders the NDJSON event
// stream produced by internal/track into a timeline image. No SVG
// library appears anywhere in the example pack (see DESIGN.md), so this
// stays on stdlib string building rather than importing an unrelated
// third-party graphics package just to say a dependency was used.
package visualize

import (
	"fmt"
	"io"
	"strings"

	"ccforest/internal/track"
)

const (
	rowHeight  = 28
	colWidth   = 10
	leftMargin = 140
	topMargin  = 20
)

type lane struct {
	branchID string
	row      int
	startCol int
	endCol   int // -1 while still open
}

// Render consumes an ordered event stream and writes an SVG document to
// w depicting each branch as a horizontal timeline row, with vertical
// connectors at fork and join points.
func Render(w io.Writer, events []track.Event) error {
	lanes := map[string]*lane{}
	var order []string
	col := 0

	ensureLane := func(id string, startCol int) *lane {
		if l, ok := lanes[id]; ok {
			return l
		}
		l := &lane{branchID: id, row: len(order), startCol: startCol, endCol: -1}
		lanes[id] = l
		order = append(order, id)
		return l
	}

	type connector struct {
		kind           string
		fromRow, toRow int
		col            int
	}
	var connectors []connector

	ensureLane("*", 0)

	for _, e := range events {
		col++
		switch e.Kind {
		case track.KindFork:
			parent := ensureLane(e.BranchID, 0)
			child := ensureLane(e.ForkID, col)
			connectors = append(connectors, connector{kind: "fork", fromRow: parent.row, toRow: child.row, col: col})
		case track.KindJoin:
			first := ensureLane(e.FirstID, 0)
			second := ensureLane(e.SecondID, 0)
			into := ensureLane(e.IntoID, col)
			if first.endCol < 0 {
				first.endCol = col
			}
			if second.endCol < 0 {
				second.endCol = col
			}
			connectors = append(connectors, connector{kind: "join", fromRow: first.row, toRow: into.row, col: col})
			connectors = append(connectors, connector{kind: "join", fromRow: second.row, toRow: into.row, col: col})
		case track.KindJoinForks:
			from := ensureLane(e.FromID, 0)
			into := ensureLane(e.IntoID, col)
			if from.endCol < 0 {
				from.endCol = col
			}
			connectors = append(connectors, connector{kind: "join", fromRow: from.row, toRow: into.row, col: col})
		case track.KindDeactivate:
			if l, ok := lanes[e.BranchID]; ok && l.endCol < 0 {
				l.endCol = col
			}
		case track.KindActivate, track.KindLogicLinePursue:
			ensureLane(e.BranchID, 0)
		}
	}

	for _, id := range order {
		l := lanes[id]
		if l.endCol < 0 {
			l.endCol = col + 1
		}
	}

	width := leftMargin + (col+2)*colWidth
	height := topMargin + len(order)*rowHeight

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" font-family="monospace" font-size="12">`+"\n", width, height)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="white"/>`+"\n", width, height)

	for _, id := range order {
		l := lanes[id]
		y := topMargin + l.row*rowHeight + rowHeight/2
		x1 := leftMargin + l.startCol*colWidth
		x2 := leftMargin + l.endCol*colWidth
		fmt.Fprintf(&sb, `<text x="4" y="%d">%s</text>`+"\n", y+4, escapeXML(id))
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black" stroke-width="2"/>`+"\n", x1, y, x2, y)
	}

	for _, c := range connectors {
		x := leftMargin + c.col*colWidth
		y1 := topMargin + c.fromRow*rowHeight + rowHeight/2
		y2 := topMargin + c.toRow*rowHeight + rowHeight/2
		color := "blue"
		if c.kind == "join" {
			color = "green"
		}
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="2,2"/>`+"\n", x, y1, x, y2, color)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
