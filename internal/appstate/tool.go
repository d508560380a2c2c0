package appstate

import (
	"fmt"
	"strings"
)

// Tool selects how pointer input on the canvas is interpreted.
type Tool int

const (
	ToolSelect Tool = iota
	ToolCrop
	ToolBrush
	ToolEraser
	ToolText
	ToolPipette
)

var toolNames = []string{
	ToolSelect:  "select",
	ToolCrop:    "crop",
	ToolBrush:   "brush",
	ToolEraser:  "eraser",
	ToolText:    "text",
	ToolPipette: "pipette",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	out := make([]Tool, len(toolNames))
	for i := range toolNames {
		out[i] = Tool(i)
	}
	return out
}

// ParseTool resolves a tool name.
func ParseTool(name string) (Tool, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, tn := range toolNames {
		if tn == n {
			return Tool(i), nil
		}
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", name)
}
