// Package merge implements the deep-merge engine that folds layered
// configuration documents into one resolved document. Conflict handling is
// driven entirely by an explicit Policy, so the result is deterministic and
// explainable for any pair of inputs.
package merge

import (
	"fmt"

	"github.com/confctl/confctl/pkg/errors"
)

// ListStrategy selects how two sequences meeting at the same path combine.
type ListStrategy string

const (
	// ListReplace discards the base sequence and keeps the overlay's. The
	// common choice for scalar lists.
	ListReplace ListStrategy = "replace"

	// ListConcatenate appends the overlay's elements after the base's.
	ListConcatenate ListStrategy = "concat"

	// ListUnionByKey matches mapping elements by a key field, deep-merging
	// matched pairs and appending unmatched overlay elements.
	ListUnionByKey ListStrategy = "union"
)

// NullRule selects how an explicit null in the overlay is interpreted.
type NullRule string

const (
	// NullOverrides treats overlay null like any other scalar: it replaces
	// the base value.
	NullOverrides NullRule = "override"

	// NullTransparent treats overlay null as "no override present": the
	// base value survives.
	NullTransparent NullRule = "transparent"
)

// MismatchRule selects how incompatible kinds meeting at a path resolve.
type MismatchRule string

const (
	// MismatchOverlayWins replaces the base value with the overlay outright.
	MismatchOverlayWins MismatchRule = "override"

	// MismatchError fails the merge with a TYPE_CONFLICT error at the path.
	MismatchError MismatchRule = "error"
)

// DefaultMaxDepth bounds merge recursion when the policy does not set one.
// Realistic configuration trees are a few dozen levels deep at most; the
// limit exists to fail cleanly on pathological input.
const DefaultMaxDepth = 1000

// Policy configures conflict resolution for one merge invocation. It is
// pure data; supply it once and it applies uniformly at every path.
type Policy struct {
	// Lists selects the sequence merge strategy.
	Lists ListStrategy

	// Nulls selects the overlay-null behavior.
	Nulls NullRule

	// TypeMismatch selects behavior when incompatible kinds meet.
	TypeMismatch MismatchRule

	// MergeKey names the field that identifies sequence elements. Required
	// by ListUnionByKey, ignored otherwise.
	MergeKey string

	// MaxDepth bounds recursion depth. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultPolicy returns the policy used when the caller selects nothing:
// lists replace, nulls override, mismatched types resolve to the overlay.
func DefaultPolicy() Policy {
	return Policy{
		Lists:        ListReplace,
		Nulls:        NullOverrides,
		TypeMismatch: MismatchOverlayWins,
	}
}

// Validate checks that every policy field holds a known option and that
// ListUnionByKey has a merge key.
func (p Policy) Validate() error {
	switch p.Lists {
	case ListReplace, ListConcatenate, ListUnionByKey:
	default:
		return errors.ValidationError(
			fmt.Sprintf("unknown list strategy %q", p.Lists),
			map[string]interface{}{"list_strategy": string(p.Lists)})
	}
	switch p.Nulls {
	case NullOverrides, NullTransparent:
	default:
		return errors.ValidationError(
			fmt.Sprintf("unknown null rule %q", p.Nulls),
			map[string]interface{}{"null_rule": string(p.Nulls)})
	}
	switch p.TypeMismatch {
	case MismatchOverlayWins, MismatchError:
	default:
		return errors.ValidationError(
			fmt.Sprintf("unknown type-mismatch rule %q", p.TypeMismatch),
			map[string]interface{}{"type_mismatch": string(p.TypeMismatch)})
	}
	if p.Lists == ListUnionByKey && p.MergeKey == "" {
		return errors.ValidationError(
			"list strategy union requires a merge key",
			map[string]interface{}{"list_strategy": string(p.Lists)})
	}
	if p.MaxDepth < 0 {
		return errors.ValidationError(
			"max depth must not be negative",
			map[string]interface{}{"max_depth": p.MaxDepth})
	}
	return nil
}

func (p Policy) maxDepth() int {
	if p.MaxDepth > 0 {
		return p.MaxDepth
	}
	return DefaultMaxDepth
}

// ParseListStrategy maps a user-supplied name to a ListStrategy.
func ParseListStrategy(name string) (ListStrategy, error) {
	switch name {
	case "replace":
		return ListReplace, nil
	case "concat", "concatenate", "append":
		return ListConcatenate, nil
	case "union":
		return ListUnionByKey, nil
	default:
		return "", errors.ValidationError(
			fmt.Sprintf("unknown list strategy %q (expected replace, concat, or union)", name),
			map[string]interface{}{"list_strategy": name})
	}
}

// ParseMismatchRule maps a user-supplied name to a MismatchRule.
func ParseMismatchRule(name string) (MismatchRule, error) {
	switch name {
	case "override":
		return MismatchOverlayWins, nil
	case "error":
		return MismatchError, nil
	default:
		return "", errors.ValidationError(
			fmt.Sprintf("unknown type-conflict rule %q (expected override or error)", name),
			map[string]interface{}{"type_mismatch": name})
	}
}
