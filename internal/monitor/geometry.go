// Package monitor renders debugging views of the swarm pipeline geometry.
// Output is diagnostic only; nothing in the engine depends on it.
package monitor

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/roadsim/swarm/internal/aabb"
	"github.com/roadsim/swarm/internal/geom"
)

// RenderGeometry writes an HTML scatter chart of one evaluation: road
// triangle chords, the ellipse ring chords, and the resolved crossing
// points. Useful for eyeballing why a ring produced (or failed to produce)
// placement candidates.
func RenderGeometry(w io.Writer, roadBoxes, ringBoxes []*aabb.BBox, sols []geom.Point) error {
	roadData := chordData(roadBoxes)
	ringData := chordData(ringBoxes)

	solData := make([]opts.ScatterData, 0, len(sols))
	for _, pt := range sols {
		solData = append(solData, opts.ScatterData{Value: []interface{}{pt.X, pt.Y}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Swarm Geometry", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Swarm sampling geometry",
			Subtitle: fmt.Sprintf("road segments=%d ring segments=%d crossings=%d", len(roadData), len(ringData), len(solData)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y", NameLocation: "middle", NameGap: 30}),
	)

	scatter.AddSeries("road", roadData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	scatter.AddSeries("ring", ringData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	scatter.AddSeries("crossings", solData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))

	return scatter.Render(w)
}

// chordData flattens leaf-box triangle chord endpoints into scatter points.
func chordData(boxes []*aabb.BBox) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, 2*len(boxes))
	for _, b := range boxes {
		tri := b.Triangle()
		if tri == nil {
			continue
		}
		data = append(data,
			opts.ScatterData{Value: []interface{}{tri.A.X, tri.A.Y}},
			opts.ScatterData{Value: []interface{}{tri.B.X, tri.B.Y}},
		)
	}
	return data
}
