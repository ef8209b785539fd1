package template

import (
	"hexarena/internal/entity"
	"hexarena/internal/errkind"
)

// decode builds one Behavior from its YAML type tag and the remaining
// inline fields, popping each key it recognizes. Leftover keys after a
// decoder runs are a ConfigError: a typo in a template author's YAML
// should fail loudly rather than silently no-op, per spec.md §9(a).
func decode(kind string, data map[string]any) (entity.Behavior, error) {
	fields := cfg(data)
	var b entity.Behavior
	var err error

	switch kind {
	case "attack":
		b = &entity.Attack{
			Cooldown: entity.Cooldown{Seconds: fields.float("cooldown")},
			MinDamage: fields.int("min_damage"),
			MaxDamage: fields.int("max_damage"),
			Range:     fields.int("range"),
			Visual:    fields.string("visual"),
		}
	case "essential":
		b = &entity.Essential{Label: fields.string("label")}
	case "kill_objective":
		b = &entity.KillObjective{Label: fields.string("label")}
	case "summon":
		b = &entity.Summon{
			Cooldown: entity.Cooldown{Seconds: fields.float("cooldown")},
			Unit:     fields.string("unit"),
			Strength: fields.float("strength"),
		}
	case "summon_pool":
		b = &entity.SummonPool{
			Cooldown: entity.Cooldown{Seconds: fields.float("cooldown")},
			Pool:     fields.weightedUnits("pool"),
			Strength: fields.float("strength"),
		}
	case "empower":
		b = &entity.Empower{
			Cooldown:    entity.Cooldown{Seconds: fields.float("cooldown")},
			TargetLabel: fields.string("target_label"),
			Strength:    fields.float("strength"),
		}
	case "worker":
		b = &entity.Worker{
			Cooldown:      entity.Cooldown{Seconds: fields.float("cooldown")},
			CarryCapacity: fields.float("carry_capacity"),
			GatherRate:    fields.float("gather_rate"),
		}
	case "seek_enemy":
		b = &entity.SeekEnemy{Cooldown: entity.Cooldown{Seconds: fields.float("cooldown")}}
	case "seek_fortress":
		b = &entity.SeekFortress{Cooldown: entity.Cooldown{Seconds: fields.float("cooldown")}}
	case "transmute":
		b = &entity.Transmute{
			Cooldown:   entity.Cooldown{Seconds: fields.float("cooldown")},
			Rate:       fields.float("rate"),
			From:       entity.ResourceType(fields.string("from_resource")),
			To:         entity.ResourceType(fields.string("to_resource")),
			Efficiency: fields.floatDefault("efficiency", 1.0),
		}
	case "build":
		b = &entity.Build{Options: fields.buildOptions("options")}
	case "train":
		b = &entity.Train{Options: fields.trainOptions("options")}
	case "repair":
		b = &entity.Repair{
			Cooldown: entity.Cooldown{Seconds: fields.float("cooldown")},
			Amount:   fields.int("amount"),
			Range:    fields.int("range"),
		}
	case "under_construction":
		b = &entity.UnderConstruction{}
	default:
		return nil, errkind.New(errkind.ConfigError, "unknown behaviour type %q", kind)
	}

	if err = fields.err; err != nil {
		return nil, err
	}
	if leftover := fields.remaining(); len(leftover) > 0 {
		return nil, errkind.New(errkind.ConfigError, "unrecognized fields %v for behaviour %q", leftover, kind)
	}
	return b, nil
}
