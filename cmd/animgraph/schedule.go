package main

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/anim_graph"
)

// scheduleEntry sets one parameter before the given tick is evaluated.
type scheduleEntry struct {
	tick  int
	name  string
	value anim_graph.Value
}

// schedule is a list of parameter writes ordered by tick.
type schedule []scheduleEntry

// parseSchedule parses "TICK:NAME=VALUE" flag values. VALUE is true, false or a float.
// Writes for the same tick keep their command line order.
func parseSchedule(args []string) (schedule, error) {
	out := make(schedule, 0, len(args))
	for _, arg := range args {
		tickStr, assign, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("schedule %q: want TICK:NAME=VALUE", arg)
		}
		tick, err := strconv.Atoi(tickStr)
		if err != nil || tick < 1 {
			return nil, fmt.Errorf("schedule %q: tick must be a positive integer", arg)
		}
		name, raw, ok := strings.Cut(assign, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("schedule %q: want TICK:NAME=VALUE", arg)
		}
		v, err := parseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("schedule %q: %w", arg, err)
		}
		out = append(out, scheduleEntry{tick: tick, name: name, value: v})
	}
	slices.SortStableFunc(out, func(a, b scheduleEntry) int { return cmp.Compare(a.tick, b.tick) })
	return out, nil
}

func parseValue(raw string) (anim_graph.Value, error) {
	switch strings.ToLower(raw) {
	case "true":
		return anim_graph.Bool(true), nil
	case "false":
		return anim_graph.Bool(false), nil
	}
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return anim_graph.Value{}, fmt.Errorf("value %q is neither a bool nor a float", raw)
	}
	return anim_graph.Float(float32(f)), nil
}

// apply writes every entry scheduled for tick into params.
func (s schedule) apply(tick int, params *anim_graph.ParameterSet) {
	for _, e := range s {
		if e.tick == tick {
			params.Set(e.name, e.value)
		}
	}
}

// parseClipDurations parses "NAME=SECONDS" flag values.
func parseClipDurations(args []string) (map[string]float32, error) {
	out := make(map[string]float32, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("clip %q: want NAME=SECONDS", arg)
		}
		d, err := strconv.ParseFloat(raw, 32)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("clip %q: duration must be a non-negative number", arg)
		}
		out[name] = float32(d)
	}
	return out, nil
}
