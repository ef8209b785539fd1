package template

import (
	"hexarena/internal/entity"
	"hexarena/internal/errkind"
)

// cfgMap pops recognized fields out of a behaviour's raw YAML map one
// at a time; whatever is left after every pop is an authoring mistake
// the loader refuses to silently ignore.
type cfgMap struct {
	data   map[string]any
	popped map[string]bool
	err    error
}

func cfg(data map[string]any) *cfgMap {
	return &cfgMap{data: data, popped: map[string]bool{}}
}

func (c *cfgMap) pop(key string) (any, bool) {
	c.popped[key] = true
	v, ok := c.data[key]
	return v, ok
}

func (c *cfgMap) setErr(key, msg string) {
	if c.err == nil {
		c.err = errkind.New(errkind.ConfigError, "field %q: %s", key, msg)
	}
}

func (c *cfgMap) float(key string) float64 {
	v, ok := c.pop(key)
	if !ok {
		return 0
	}
	f, ok := toFloat(v)
	if !ok {
		c.setErr(key, "expected a number")
	}
	return f
}

func (c *cfgMap) floatDefault(key string, def float64) float64 {
	if _, ok := c.data[key]; !ok {
		c.popped[key] = true
		return def
	}
	return c.float(key)
}

func (c *cfgMap) int(key string) int {
	return int(c.float(key))
}

func (c *cfgMap) string(key string) string {
	v, ok := c.pop(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		c.setErr(key, "expected a string")
	}
	return s
}

func (c *cfgMap) weightedUnits(key string) []entity.WeightedUnit {
	list, ok := c.popList(key)
	if !ok {
		return nil
	}
	out := make([]entity.WeightedUnit, 0, len(list))
	for _, item := range list {
		m, ok := asMap(item)
		if !ok {
			c.setErr(key, "expected a list of maps")
			continue
		}
		unit, _ := m["unit"].(string)
		weight, _ := toFloat(m["weight"])
		out = append(out, entity.WeightedUnit{Unit: unit, Weight: weight})
	}
	return out
}

func (c *cfgMap) buildOptions(key string) []entity.BuildOption {
	list, ok := c.popList(key)
	if !ok {
		return nil
	}
	out := make([]entity.BuildOption, 0, len(list))
	for _, item := range list {
		m, ok := asMap(item)
		if !ok {
			c.setErr(key, "expected a list of maps")
			continue
		}
		unit, _ := m["unit"].(string)
		out = append(out, entity.BuildOption{Unit: unit, Costs: costsFrom(m["costs"])})
	}
	return out
}

func (c *cfgMap) trainOptions(key string) []entity.TrainOption {
	list, ok := c.popList(key)
	if !ok {
		return nil
	}
	out := make([]entity.TrainOption, 0, len(list))
	for _, item := range list {
		m, ok := asMap(item)
		if !ok {
			c.setErr(key, "expected a list of maps")
			continue
		}
		unit, _ := m["unit"].(string)
		duration, _ := toFloat(m["duration"])
		out = append(out, entity.TrainOption{Unit: unit, Duration: duration, Costs: costsFrom(m["costs"])})
	}
	return out
}

func (c *cfgMap) stringList(key string) []string {
	list, ok := c.popList(key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			c.setErr(key, "expected a list of strings")
			continue
		}
		out = append(out, s)
	}
	return out
}

func (c *cfgMap) popList(key string) ([]any, bool) {
	v, ok := c.pop(key)
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		c.setErr(key, "expected a list")
		return nil, false
	}
	return list, true
}

func (c *cfgMap) remaining() []string {
	out := make([]string, 0)
	for k := range c.data {
		if !c.popped[k] {
			out = append(out, k)
		}
	}
	return out
}

func costsFrom(v any) []entity.ResourceCost {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]entity.ResourceCost, 0, len(list))
	for _, item := range list {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		resource, _ := m["resource"].(string)
		amount, _ := toFloat(m["amount"])
		out = append(out, entity.ResourceCost{Resource: entity.ResourceType(resource), Amount: amount})
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
