// Package template implements C5: loading entity prototypes from YAML
// documents into a name-indexed Catalog of fully-formed, never-ticked
// entity.Entity templates that AddEntity/AddFortress clone on demand.
package template

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"hexarena/internal/entity"
	"hexarena/internal/errkind"
)

// Catalog is a name-indexed set of template entities, ready for
// entity.Entity.Clone.
type Catalog map[string]*entity.Entity

// Instantiate clones name into a live instance, or returns a
// ClientError if name is not in the catalog (a caller-supplied unit
// name from a command is untrusted input, per spec.md §7).
func (c Catalog) Instantiate(name string) (*entity.Entity, error) {
	tmpl, ok := c[name]
	if !ok {
		return nil, errkind.New(errkind.ClientError, "unknown entity template %q", name)
	}
	return tmpl.Clone(), nil
}

// Load parses a YAML document of named entity records into a Catalog.
// An entity whose Type is unrecognized by any registered behaviour
// decoder is skipped with its error reported in skipped, rather than
// failing the whole document, per spec.md §9(a)'s resolved open
// question on malformed template content.
func Load(data []byte) (Catalog, map[string]error) {
	raw := map[string]map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Catalog{}, map[string]error{"<document>": errkind.New(errkind.ConfigError, "parse templates: %v", err)}
	}

	catalog := Catalog{}
	skipped := map[string]error{}
	for name, doc := range raw {
		e, err := build(name, doc)
		if err != nil {
			skipped[name] = err
			continue
		}
		catalog[name] = e
	}
	return catalog, skipped
}

// build pops every top-level field cfgMap knows about; whatever is
// left afterward is a typo'd or unused key and fails this entity's
// load with a ConfigError, same as decode does for behaviour fields.
func build(name string, doc map[string]any) (*entity.Entity, error) {
	fields := cfg(doc)
	hp := fields.int("hp")
	image := fields.string("image")
	images := fields.stringList("images")
	tint := fields.int("tint")
	size := fields.int("size")
	deathVisual := fields.string("death_visual")
	resourceType := fields.string("resource_type")
	visionSize := fields.int("vision_size")
	tags := fields.stringList("tags")
	behaviours, _ := fields.popList("behaviours")

	if fields.err != nil {
		return nil, fmt.Errorf("entity %q: %w", name, fields.err)
	}

	e := &entity.Entity{
		Name:         name,
		HP:           hp,
		MaxHP:        hp,
		ResourceType: entity.ResourceType(resourceType),
		VisionSize:   visionSize,
		Template:     true,
		Render: entity.Render{
			Tint:        tint,
			Size:        size,
			DeathVisual: deathVisual,
		},
		BehaviorsByLabel: map[string]entity.Behavior{},
	}
	if image != "" {
		e.Render.Images = []string{image}
	} else {
		e.Render.Images = images
	}

	for _, tag := range tags {
		bit, err := tagBit(tag)
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", name, err)
		}
		e.Tag |= bit
	}

	for _, item := range behaviours {
		bm, ok := asMap(item)
		if !ok {
			return nil, errkind.New(errkind.ConfigError, "entity %q: behaviour entry must be a map", name)
		}
		bfields := cfg(bm)
		kind := bfields.string("type")
		label := bfields.string("label")
		if bfields.err != nil {
			return nil, fmt.Errorf("entity %q: %w", name, bfields.err)
		}
		delete(bm, "type")
		delete(bm, "label")

		b, err := decode(kind, bm)
		if err != nil {
			return nil, fmt.Errorf("entity %q behaviour %q: %w", name, kind, err)
		}
		e.Behaviors = append(e.Behaviors, b)
		if label != "" {
			e.BehaviorsByLabel[label] = b
		}
	}

	if leftover := fields.remaining(); len(leftover) > 0 {
		return nil, errkind.New(errkind.ConfigError, "entity %q: unrecognized fields %v", name, leftover)
	}
	return e, nil
}

func tagBit(tag string) (entity.Tag, error) {
	switch tag {
	case "unit":
		return entity.Unit, nil
	case "resource":
		return entity.Resource, nil
	case "structure":
		return entity.Structure, nil
	default:
		return 0, errkind.New(errkind.ConfigError, "unknown tag %q", tag)
	}
}
