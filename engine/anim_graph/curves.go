package anim_graph

import (
	"github.com/Carmen-Shannon/oxy-animgraph/engine/graph_asset"

	"github.com/tanema/gween/ease"
)

// transitionCurves maps asset curve names to easing functions. Linear maps to nil so
// the weight is used unchanged.
var transitionCurves = map[string]ease.TweenFunc{
	"":                          nil,
	graph_asset.CurveLinear:     nil,
	graph_asset.CurveInQuad:     ease.InQuad,
	graph_asset.CurveOutQuad:    ease.OutQuad,
	graph_asset.CurveInOutQuad:  ease.InOutQuad,
	graph_asset.CurveInOutCubic: ease.InOutCubic,
	graph_asset.CurveInOutSine:  ease.InOutSine,
}

// shapeWeight applies curve to a linear blend weight in [0,1].
func shapeWeight(curve ease.TweenFunc, w float32) float32 {
	if curve == nil {
		return w
	}
	return curve(w, 0, 1, 1)
}
