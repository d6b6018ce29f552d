package tree

import (
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/tarstars/mlprims/golang/mlprims/mlerrors"
	"golang.org/x/exp/slices"
)

//Stump is a one-level tree made of a categorical split and its children.
type Stump struct {
	Split BestSplit
}

//NewStump creates a stump from the result of a split search.
func NewStump(split *BestSplit) *Stump {
	stump := &Stump{Split: *split}
	stump.Split.Children = slices.Clone(split.Children)
	stump.Split.Payload.Vector = slices.Clone(split.Payload.Vector)
	return stump
}

//NumChildren returns the number of children of the stump.
func (s *Stump) NumChildren() int {
	return NumChildren(s.Split.Payload)
}

//Route returns the child a point, given as one value per dataset row, goes to.
func (s *Stump) Route(point []float64) (int, error) {
	dim := s.Split.Dimension
	if dim >= len(point) {
		return 0, mlerrors.DimensionMismatch("point has %d values, split is on dimension %d", len(point), dim)
	}
	value := point[dim]
	if math.IsNaN(value) || value < 0 || value >= float64(s.NumChildren()) {
		return 0, mlerrors.InvalidArgument("category %v outside [0, %d)", value, s.NumChildren())
	}
	return RouteToChild(value, s.Split.Payload), nil
}

//GraphDescription returns the description of the split node for tree rendering as a graph
func (s *Stump) GraphDescription() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("#", s.Split.NumberOfObjects))
	sb.WriteString(fmt.Sprintf("gain: %6.5f\n", s.Split.Gain))
	sb.WriteString(fmt.Sprintf("parent: %6.5f\n", s.Split.ParentGain))
	sb.WriteString(fmt.Sprintf("f_%d in %d categories", s.Split.Dimension, s.Split.NumCategories))
	return sb.String()
}

//GraphDescription returns the description of a child for tree rendering as a graph
func (c ChildStats) GraphDescription() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("category", c.Category))
	sb.WriteString(fmt.Sprintln("#", c.Count))
	if c.Weight != 0 {
		sb.WriteString(fmt.Sprintf("weight: %6.2f\n", c.Weight))
	}
	sb.WriteString(fmt.Sprintf("fitness: %6.5f", c.Fitness))
	return sb.String()
}

//DrawGraph renders the stump as a graph. The caller closes both returned objects;
//on error nothing is left open.
func (s *Stump) DrawGraph() (graphViz *graphviz.Graphviz, graph *cgraph.Graph, err error) {
	graphViz = graphviz.New()
	defer func() {
		if err == nil {
			return
		}
		if graph != nil {
			graph.Close()
		}
		graphViz.Close()
		graphViz, graph = nil, nil
	}()

	graph, err = graphViz.Graph()
	if err != nil {
		return nil, nil, err
	}

	root, err := graph.CreateNode("split")
	if err != nil {
		return nil, nil, err
	}
	root.Set("label", s.GraphDescription())

	for _, child := range s.Split.Children {
		node, err := graph.CreateNode(fmt.Sprint("child_", child.Category))
		if err != nil {
			return nil, nil, err
		}
		node.Set("label", child.GraphDescription())
		node.Set("shape", "box")

		edge, err := graph.CreateEdge("", root, node)
		if err != nil {
			return nil, nil, err
		}
		edge.SetLabel(fmt.Sprint(child.Category))
	}

	return graphViz, graph, nil
}

//Render draws the stump into filename. figureType is one of png, svg, jpg or dot.
func (s *Stump) Render(figureType, filename string) error {
	format, ok := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
		"dot": graphviz.XDOT,
	}[figureType]
	if !ok {
		return mlerrors.InvalidArgument("unknown figure type %q", figureType)
	}

	graphViz, graph, err := s.DrawGraph()
	if err != nil {
		return err
	}
	defer func() {
		graph.Close()
		graphViz.Close()
	}()
	return graphViz.RenderFilename(graph, format, filename)
}
