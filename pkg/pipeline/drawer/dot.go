package drawer

import (
	"fmt"
	"html"
	"io"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/measure"
)

const (
	consolidatedColor = "palegreen"
	pendingColor      = "white"
	untrackedColor    = "lightgrey"
)

// DOTDrawer renders the process chain in the Graphviz DOT language.
type DOTDrawer struct {
	graph graph.Graph[string, string]
	order []string
}

// NewDOTDrawer creates a drawer holding only the input vertex.
func NewDOTDrawer() *DOTDrawer {
	d := &DOTDrawer{
		graph: graph.New(graph.StringHash, graph.Directed()),
	}

	// a fresh graph cannot already hold the input vertex
	_ = d.graph.AddVertex(InputNode, graph.VertexAttribute("shape", "oval"))
	d.order = append(d.order, InputNode)

	return d
}

// AddProcess adds a process vertex, filled according to its state.
func (d *DOTDrawer) AddProcess(node Node) error {
	fill := pendingColor

	switch {
	case !node.Tracked:
		fill = untrackedColor
	case node.Consolidated:
		fill = consolidatedColor
	}

	peripheries := "1"
	if node.BackedUp {
		peripheries = "2"
	}

	err := d.graph.AddVertex(node.Name,
		graph.VertexAttribute("shape", "box"),
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", fill),
		graph.VertexAttribute("peripheries", peripheries),
		graph.VertexAttribute("tooltip", fmt.Sprintf("%d: %s", node.Order, node.Description)),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", node.Name)
	}

	d.order = append(d.order, node.Name)

	return nil
}

// AddLink adds a link between parent and child processes.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

// Draw writes the DOT description of the graph.
func (d *DOTDrawer) Draw(w io.Writer) error {
	err := dot(d.graph, d.order, w)
	if err != nil {
		return errors.Wrap(err, "unable to render dot")
	}

	return nil
}

const maxRGB = 240

// AddMeasure labels each measured process with its average duration and
// colours its border from blue (fastest) to red (slowest).
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	averages := make(map[string]time.Duration)

	var minValue, maxValue time.Duration

	for name, mt := range msr.AllMetrics() {
		avg := mt.AVGDuration()
		if avg == 0 {
			continue
		}

		if len(averages) == 0 || avg < minValue {
			minValue = avg
		}

		if avg > maxValue {
			maxValue = avg
		}

		averages[name] = avg
	}

	for name, avg := range averages {
		_, properties, err := d.graph.VertexWithProperties(name)
		if errors.Is(err, graph.ErrVertexNotFound) {
			// measured before being removed from the tracker
			continue
		}

		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(avg-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := maxRGB - red

		colour, err := colors.RGB(uint8(red), 0, uint8(blue))
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		properties.Attributes["color"] = colour.ToHEX().String()
		properties.Attributes["xlabel"] = avg.String()
	}

	return nil
}

const dotTemplate = `strict {{.GraphType}} {
{{- range $k, $v := .Attributes}}
	{{$k}}="{{$v}}";
{{- end}}
{{- range .Statements}}
	"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}}{{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.SourceWeight}} ]{{end}};
{{- end}}
}
`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], order []string, wrt io.Writer) error {
	desc, err := generateDOT(g, order)
	if err != nil {
		return errors.Wrap(err, "unable to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

// generateDOT lists vertices in insertion order so the output is stable.
func generateDOT(gra graph.Graph[string, string], order []string) (description, error) {
	desc := description{
		GraphType:    "digraph",
		Attributes:   map[string]string{"rankdir": "LR"},
		EdgeOperator: "->",
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, vertex := range order {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := make(map[string]string, len(sourceProperties.Attributes))
		htmlAttributes := make(map[string]string)

		for k, v := range sourceProperties.Attributes {
			if k == "xlabel" {
				htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, html.EscapeString(vertex), html.EscapeString(v))

				continue
			}

			attributes[k] = v
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		})

		targets := make([]string, 0, len(adjacencyMap[vertex]))
		for target := range adjacencyMap[vertex] {
			targets = append(targets, target)
		}

		sort.Strings(targets)

		for _, target := range targets {
			edge := adjacencyMap[vertex][target]
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
