package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// otherLabel stands in for every missing rank value. The chart primitive
// rejects empty intermediate levels, so the fill keeps all rows instead of
// dropping them.
const otherLabel = "Other"

// defaultHierarchy is the rank path rendered when the caller does not choose
// one. The first rank drives the color grouping.
var defaultHierarchy = []string{"superkingdom", "phylum", "order"}

// defaultColorMap assigns display colors to the top-rank categories, with
// otherLabel as the fallback for anything unmapped.
var defaultColorMap = map[string]string{
	"Bacteria":  "#56B4E9", // blue
	"Eukaryota": "#D53500", // red
	"Archaea":   "#E69F00", // orange
	"Viruses":   "#AB63FA", // purple
	otherLabel:  "#189e3c", // green
}

// categoryNode is one slice of the hierarchy: a category at some rank level,
// the number of observations beneath it, and its child categories in
// first-seen order.
type categoryNode struct {
	name     string
	count    int
	children map[string]*categoryNode
	order    []string
}

func newCategoryNode(name string) *categoryNode {
	return &categoryNode{name: name, children: make(map[string]*categoryNode)}
}

func (n *categoryNode) child(name string) *categoryNode {
	c, ok := n.children[name]
	if !ok {
		c = newCategoryNode(name)
		n.children[name] = c
		n.order = append(n.order, name)
	}
	return c
}

// buildHierarchy reshapes the enriched table into the nested category tree
// for the given rank path. Every row contributes one observation; missing
// values at any level become otherLabel, so no row is ever excluded.
func buildHierarchy(table *annotationTable, hierarchy []string) (*categoryNode, error) {
	if len(hierarchy) == 0 {
		return nil, fmt.Errorf("hierarchy must name at least one rank")
	}
	indices := make([]int, len(hierarchy))
	for i, rank := range hierarchy {
		idx := table.columnIndex(rank)
		if idx < 0 {
			return nil, fmt.Errorf("enriched table has no %q column", rank)
		}
		indices[i] = idx
	}

	root := newCategoryNode("")
	for _, row := range table.rows {
		node := root
		node.count++
		for _, idx := range indices {
			value := field(row, idx)
			if value == "" {
				value = otherLabel
			}
			node = node.child(value)
			node.count++
		}
	}
	return root, nil
}

// sunburstSeries converts the category tree into the chart primitive's
// nested data form. Leaf slices carry the observation count; inner slices
// leave it to the primitive to sum their children.
func sunburstSeries(root *categoryNode) []opts.SunBurstData {
	data := make([]opts.SunBurstData, 0, len(root.order))
	for _, name := range root.order {
		data = append(data, sunburstItem(root.children[name]))
	}
	return data
}

func sunburstItem(node *categoryNode) opts.SunBurstData {
	item := opts.SunBurstData{Name: node.name}
	if len(node.order) == 0 {
		item.Value = float64(node.count)
		return item
	}
	for _, name := range node.order {
		child := sunburstItem(node.children[name])
		item.Children = append(item.Children, &child)
	}
	return item
}

// topRankColors pairs each top-level category, in series order, with its
// display color, falling back to the otherLabel color for unmapped names.
func topRankColors(root *categoryNode, colorMap map[string]string) []string {
	fallback, ok := colorMap[otherLabel]
	if !ok {
		fallback = defaultColorMap[otherLabel]
	}
	colors := make([]string, 0, len(root.order))
	for _, name := range root.order {
		color, ok := colorMap[name]
		if !ok {
			color = fallback
		}
		colors = append(colors, color)
	}
	return colors
}

// renderSunburst draws the hierarchy as an interactive sunburst chart and
// writes it to w as a self-contained HTML document.
func renderSunburst(table *annotationTable, title string, hierarchy []string, colorMap map[string]string, w io.Writer) error {
	root, err := buildHierarchy(table, hierarchy)
	if err != nil {
		return err
	}

	chart := charts.NewSunburst()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithColorsOpts(opts.Colors(topRankColors(root, colorMap))),
	)
	chart.AddSeries("taxonomy", sunburstSeries(root))
	if err := chart.Render(w); err != nil {
		return fmt.Errorf("render sunburst: %w", err)
	}
	return nil
}

// parseColorMap reads "Name=#hex,Name=#hex" flag values on top of the
// default color assignments.
func parseColorMap(spec string) (map[string]string, error) {
	colors := make(map[string]string, len(defaultColorMap))
	for k, v := range defaultColorMap {
		colors[k] = v
	}
	if spec == "" {
		return colors, nil
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, color, ok := strings.Cut(part, "=")
		if !ok || name == "" || color == "" {
			return nil, fmt.Errorf("malformed color assignment %q", part)
		}
		colors[name] = color
	}
	return colors, nil
}
