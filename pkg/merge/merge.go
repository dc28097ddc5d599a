package merge

import (
	"github.com/confctl/confctl/pkg/document"
	"github.com/confctl/confctl/pkg/errors"
)

// Merge combines overlay onto base under the given policy and returns a new
// value; neither input is modified. The rules, in precedence order:
//
//  1. Overlay null under NullTransparent keeps base.
//  2. Mapping onto mapping merges per key, recursing on keys present in
//     both. Result keys: base's in base order, then overlay-only keys in
//     overlay order.
//  3. Sequence onto sequence combines per the policy's list strategy.
//  4. Same-shaped scalars, or either side null: overlay wins.
//  5. Anything else is a type mismatch, resolved per the policy.
//
// at is the path of the values inside the enclosing documents; it is used
// only for error attribution. Errors carry the path of the offending node.
func Merge(base, overlay document.Value, policy Policy, at document.KeyPath) (document.Value, error) {
	if err := policy.Validate(); err != nil {
		return document.Value{}, err
	}
	return mergeValues(base, overlay, policy, at)
}

func mergeValues(base, overlay document.Value, policy Policy, at document.KeyPath) (document.Value, error) {
	if at.Len() > policy.maxDepth() {
		return document.Value{}, errors.DepthExceededError(at.String(), policy.maxDepth())
	}

	if overlay.IsNull() && policy.Nulls == NullTransparent {
		return base, nil
	}

	if base.Kind() == document.KindMapping && overlay.Kind() == document.KindMapping {
		return mergeMappings(base.AsMapping(), overlay.AsMapping(), policy, at)
	}

	if base.Kind() == document.KindSequence && overlay.Kind() == document.KindSequence {
		return mergeSequences(base, overlay, policy, at)
	}

	if sameShape(base.Kind(), overlay.Kind()) || base.IsNull() || overlay.IsNull() {
		return overlay, nil
	}

	if policy.TypeMismatch == MismatchError {
		return document.Value{}, errors.TypeConflictError(
			at.String(), base.Kind().String(), overlay.Kind().String())
	}
	return overlay, nil
}

// sameShape reports whether two kinds merge without a type conflict. Int and
// float are both numbers; the distinction matters for output fidelity, not
// for compatibility.
func sameShape(a, b document.Kind) bool {
	if a == b {
		return true
	}
	return isNumeric(a) && isNumeric(b)
}

func isNumeric(k document.Kind) bool {
	return k == document.KindInt || k == document.KindFloat
}

func mergeMappings(base, overlay *document.Mapping, policy Policy, at document.KeyPath) (document.Value, error) {
	result := document.NewMapping()

	for _, entry := range base.Entries() {
		overlayVal, ok := overlay.Get(entry.Key)
		if !ok {
			result.Set(entry.Key, entry.Value)
			continue
		}
		merged, err := mergeValues(entry.Value, overlayVal, policy, at.Child(entry.Key))
		if err != nil {
			return document.Value{}, err
		}
		result.Set(entry.Key, merged)
	}

	for _, entry := range overlay.Entries() {
		if !base.Has(entry.Key) {
			result.Set(entry.Key, entry.Value)
		}
	}

	return document.Map(result), nil
}

func mergeSequences(base, overlay document.Value, policy Policy, at document.KeyPath) (document.Value, error) {
	switch policy.Lists {
	case ListReplace:
		return overlay, nil

	case ListConcatenate:
		baseElems, overlayElems := base.Sequence(), overlay.Sequence()
		elems := make([]document.Value, 0, len(baseElems)+len(overlayElems))
		elems = append(elems, baseElems...)
		elems = append(elems, overlayElems...)
		return document.Seq(elems...), nil

	case ListUnionByKey:
		return mergeSequencesByKey(base, overlay, policy, at)

	default:
		return document.Value{}, errors.ValidationError(
			"unknown list strategy",
			map[string]interface{}{"list_strategy": string(policy.Lists)})
	}
}

// mergeSequencesByKey matches mapping elements of the two sequences by the
// policy's merge key. Matched pairs deep-merge in the base element's
// position, unmatched base elements keep their position, and unmatched
// overlay elements append in overlay order.
func mergeSequencesByKey(base, overlay document.Value, policy Policy, at document.KeyPath) (document.Value, error) {
	baseKeys, err := unionKeys(base.Sequence(), policy, at)
	if err != nil {
		return document.Value{}, err
	}
	overlayKeys, err := unionKeys(overlay.Sequence(), policy, at)
	if err != nil {
		return document.Value{}, err
	}

	overlayElems := overlay.Sequence()
	matched := make([]bool, len(overlayElems))

	result := make([]document.Value, 0, len(baseKeys)+len(overlayElems))
	for i, baseElem := range base.Sequence() {
		merged := baseElem
		for j, overlayElem := range overlayElems {
			if matched[j] || !baseKeys[i].Equal(overlayKeys[j]) {
				continue
			}
			matched[j] = true
			merged, err = mergeValues(merged, overlayElem, policy, at.Index(i))
			if err != nil {
				return document.Value{}, err
			}
		}
		result = append(result, merged)
	}

	for j, overlayElem := range overlayElems {
		if !matched[j] {
			result = append(result, overlayElem)
		}
	}

	return document.Seq(result...), nil
}

// unionKeys extracts the merge-key value of every element, failing on any
// element that is not a mapping or lacks the key.
func unionKeys(elems []document.Value, policy Policy, at document.KeyPath) ([]document.Value, error) {
	keys := make([]document.Value, len(elems))
	for i, elem := range elems {
		if elem.Kind() != document.KindMapping {
			return nil, errors.MissingMergeKeyError(
				at.Index(i).String(), policy.MergeKey, elem.Kind().String())
		}
		key, ok := elem.AsMapping().Get(policy.MergeKey)
		if !ok {
			return nil, errors.MissingMergeKeyError(
				at.Index(i).String(), policy.MergeKey, elem.Kind().String())
		}
		keys[i] = key
	}
	return keys, nil
}
