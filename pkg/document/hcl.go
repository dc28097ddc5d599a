package document

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/confctl/confctl/pkg/errors"
)

// DecodeHCL parses an attribute-only HCL document into a Value. Top-level
// attributes keep their source order; attributes of object expressions are
// ordered lexically because cty object types do not record source order.
// HCL is an input format only; there is no matching encoder.
func DecodeHCL(data []byte, filename string) (Value, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return Value{}, errors.ParseError(filename, diags)
	}

	attrs, moreDiags := file.Body.JustAttributes()
	if moreDiags.HasErrors() {
		return Value{}, errors.ParseError(filename, moreDiags)
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	m := NewMapping()
	for _, attr := range ordered {
		ctyVal, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return Value{}, errors.ParseError(filename, valDiags)
		}
		v, err := ctyToValue(ctyVal)
		if err != nil {
			return Value{}, errors.ParseError(filename,
				fmt.Errorf("attribute %q: %w", attr.Name, err))
		}
		m.Set(attr.Name, v)
	}
	return Map(m), nil
}

func ctyToValue(v cty.Value) (Value, error) {
	if v.IsNull() {
		return Null(), nil
	}
	if !v.IsKnown() {
		return Value{}, fmt.Errorf("unknown value")
	}

	ty := v.Type()
	switch {
	case ty == cty.Bool:
		return Bool(v.True()), nil
	case ty == cty.Number:
		return ctyNumberToValue(v)
	case ty == cty.String:
		return String(v.AsString()), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var elems []Value
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			ev, err := ctyToValue(elem)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, ev)
		}
		return Seq(elems...), nil
	case ty.IsObjectType() || ty.IsMapType():
		m := NewMapping()
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			ev, err := ctyToValue(elem)
			if err != nil {
				return Value{}, err
			}
			m.Set(key.AsString(), ev)
		}
		return Map(m), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

func ctyNumberToValue(v cty.Value) (Value, error) {
	bf := v.AsBigFloat()
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return Int(i), nil
		}
	}
	f, _ := bf.Float64()
	return Float(f), nil
}
