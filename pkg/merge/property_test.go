package merge

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/confctl/confctl/pkg/document"
)

// genValue draws an arbitrary document value with bounded depth.
func genValue(t *rapid.T, depth int) document.Value {
	kinds := []string{"null", "bool", "int", "float", "string"}
	if depth > 0 {
		kinds = append(kinds, "seq", "map")
	}

	switch rapid.SampledFrom(kinds).Draw(t, "kind") {
	case "null":
		return document.Null()
	case "bool":
		return document.Bool(rapid.Bool().Draw(t, "bool"))
	case "int":
		return document.Int(rapid.Int64().Draw(t, "int"))
	case "float":
		return document.Float(rapid.Float64().Draw(t, "float"))
	case "string":
		return document.String(rapid.StringMatching(`[a-z]{0,8}`).Draw(t, "string"))
	case "seq":
		n := rapid.IntRange(0, 4).Draw(t, "seqLen")
		elems := make([]document.Value, n)
		for i := range elems {
			elems[i] = genValue(t, depth-1)
		}
		return document.Seq(elems...)
	default:
		n := rapid.IntRange(0, 4).Draw(t, "mapLen")
		m := document.NewMapping()
		for i := 0; i < n; i++ {
			key := rapid.SampledFrom([]string{"a", "b", "c", "d", "e"}).Draw(t, "key")
			m.Set(key, genValue(t, depth-1))
		}
		return document.Map(m)
	}
}

func genPolicy(t *rapid.T) Policy {
	policy := Policy{
		Lists:        rapid.SampledFrom([]ListStrategy{ListReplace, ListConcatenate}).Draw(t, "lists"),
		Nulls:        rapid.SampledFrom([]NullRule{NullOverrides, NullTransparent}).Draw(t, "nulls"),
		TypeMismatch: MismatchOverlayWins,
	}
	return policy
}

func TestMerge_PropertyTotalUnderOverrideRules(t *testing.T) {
	// With overlay-wins mismatch handling and no union strategy, a merge of
	// any two values must succeed.
	rapid.Check(t, func(t *rapid.T) {
		base := genValue(t, 3)
		overlay := genValue(t, 3)
		policy := genPolicy(t)

		_, err := Merge(base, overlay, policy, document.RootPath())
		require.NoError(t, err)
	})
}

func TestMerge_PropertyIdempotent(t *testing.T) {
	// Merging a value onto itself yields that value, except under concat,
	// which doubles sequences.
	rapid.Check(t, func(t *rapid.T) {
		v := genValue(t, 3)
		policy := genPolicy(t)
		policy.Lists = ListReplace

		result, err := Merge(v, v, policy, document.RootPath())
		require.NoError(t, err)
		require.True(t, result.Equal(v))
	})
}

func TestMerge_PropertyOverlayKeysAlwaysPresent(t *testing.T) {
	// After merging two mappings under null-override rules, every overlay
	// key appears in the result.
	rapid.Check(t, func(t *rapid.T) {
		base := genMapping(t)
		overlay := genMapping(t)
		policy := genPolicy(t)
		policy.Nulls = NullOverrides

		result, err := Merge(base, overlay, policy, document.RootPath())
		require.NoError(t, err)
		require.Equal(t, document.KindMapping, result.Kind())

		for _, key := range overlay.AsMapping().Keys() {
			require.True(t, result.AsMapping().Has(key), "missing overlay key %q", key)
		}
	})
}

func TestMerge_PropertyKeyOrderIsBaseThenOverlay(t *testing.T) {
	// Merged mapping keys are the base's keys in base order followed by the
	// overlay-only keys in overlay order.
	rapid.Check(t, func(t *rapid.T) {
		base := genMapping(t)
		overlay := genMapping(t)

		result, err := Merge(base, overlay, DefaultPolicy(), document.RootPath())
		require.NoError(t, err)

		want := make([]string, 0, result.AsMapping().Len())
		want = append(want, base.AsMapping().Keys()...)
		for _, key := range overlay.AsMapping().Keys() {
			if !base.AsMapping().Has(key) {
				want = append(want, key)
			}
		}
		require.Equal(t, want, result.AsMapping().Keys())
	})
}

func genMapping(t *rapid.T) document.Value {
	n := rapid.IntRange(0, 5).Draw(t, "mapLen")
	m := document.NewMapping()
	for i := 0; i < n; i++ {
		key := rapid.SampledFrom([]string{"a", "b", "c", "d", "e", "f"}).Draw(t, "key")
		m.Set(key, genValue(t, 2))
	}
	return document.Map(m)
}
