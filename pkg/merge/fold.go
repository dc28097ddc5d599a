package merge

import (
	"github.com/confctl/confctl/pkg/document"
	"github.com/confctl/confctl/pkg/errors"
)

// Fold merges an ordered list of documents left to right: the first document
// is the base, each later document overlays the accumulated result. Callers
// supply documents in lowest-to-highest precedence order. A single document
// is returned unchanged. The first merge error aborts the fold; later
// documents are not attempted.
func Fold(docs []document.Value, policy Policy) (document.Value, error) {
	if err := policy.Validate(); err != nil {
		return document.Value{}, err
	}
	if len(docs) == 0 {
		return document.Value{}, errors.ValidationError(
			"at least one document is required", nil)
	}

	result := docs[0]
	for _, doc := range docs[1:] {
		merged, err := mergeValues(result, doc, policy, document.RootPath())
		if err != nil {
			return document.Value{}, err
		}
		result = merged
	}
	return result, nil
}
