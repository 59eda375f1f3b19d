//go:build property

package merge

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// tombstone stands in for nil while generating, since gopter treats a nil
// result as a failed generation.
type tombstone struct{}

// genValue produces structured data up to the given depth. Keys come from a
// small alphabet so generated maps overlap often.
func genValue(depth int) gopter.Gen {
	scalars := []gopter.Gen{
		gen.Const(tombstone{}).Map(func(t tombstone) any { return t }),
		gen.Bool().Map(func(b bool) any { return b }),
		gen.Float64Range(-100, 100).Map(func(f float64) any { return f }),
		gen.AlphaString().Map(func(s string) any { return s }),
	}
	if depth <= 0 {
		return gen.OneGenOf(scalars...)
	}

	return gen.OneGenOf(append(scalars, genMap(depth-1).Map(func(m map[string]any) any { return m }))...)
}

func genMap(depth int) gopter.Gen {
	return gen.MapOf(gen.OneConstOf("a", "b", "c", "d"), genValue(depth))
}

// materialize replaces every tombstone with nil.
func materialize(v any) any {
	switch val := v.(type) {
	case tombstone:
		return nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = materialize(inner)
		}
		return out
	default:
		return v
	}
}

func materializeMap(m map[string]any) map[string]any {
	return materialize(m).(map[string]any)
}

func TestMergeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(2468)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("re-merging the same overlay is idempotent", prop.ForAll(
		func(a, b map[string]any) bool {
			a, b = materializeMap(a), materializeMap(b)
			once := Merge(a, b)
			return reflect.DeepEqual(Merge(once, b), once)
		},
		genMap(2), genMap(2),
	))

	properties.Property("a null overlay key is absent from the result", prop.ForAll(
		func(a map[string]any, key string) bool {
			a = materializeMap(a)
			merged := Merge(a, map[string]any{key: nil}).(map[string]any)
			_, present := merged[key]
			return !present
		},
		genMap(2), gen.OneConstOf("a", "b", "c", "d"),
	))

	properties.Property("keys only in base survive", prop.ForAll(
		func(a, b map[string]any) bool {
			a, b = materializeMap(a), materializeMap(b)
			merged := Merge(a, b).(map[string]any)
			for k, v := range a {
				if _, inOverlay := b[k]; inOverlay {
					continue
				}
				if !reflect.DeepEqual(merged[k], v) {
					return false
				}
			}
			return true
		},
		genMap(2), genMap(2),
	))

	properties.TestingRun(t)
}
