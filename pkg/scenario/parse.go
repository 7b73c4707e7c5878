package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/routes64/pkg/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes a raw scenario definition, either JSON or YAML.
func Parse(raw []byte) (*Document, error) {
	doc, _, err := parse(raw)
	return doc, err
}

// parse also returns the keys the decoder did not map, for diagnostics.
func parse(raw []byte) (*Document, []string, error) {
	tree, err := decodeTree(raw)
	if err != nil {
		return nil, nil, newLoadError(fmt.Errorf("%w: malformed document: %v", domain.ErrInvalidScenario, err))
	}
	if tree == nil {
		return nil, nil, newLoadError(fmt.Errorf("%w: empty document", domain.ErrInvalidScenario))
	}

	var doc Document
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &doc,
		Metadata: &md,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(tree); err != nil {
		return nil, nil, newLoadError(fmt.Errorf("%w: %v", domain.ErrInvalidScenario, err))
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, nil, fieldErrors(err)
	}

	unused := append([]string(nil), md.Unused...)
	sort.Strings(unused)
	return &doc, unused, nil
}

// fieldErrors converts validator failures into a LoadError.
func fieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newLoadError(fmt.Errorf("%w: %v", domain.ErrInvalidScenario, err))
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%w: field %s failed %q", domain.ErrInvalidScenario, fe.Namespace(), describeTag(fe)))
	}
	return newLoadError(errs...)
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// decodeTree reads the document into a generic tree.
// JSON documents keep numbers as json.Number; everything else goes through YAML.
func decodeTree(raw []byte) (map[string]any, error) {
	var tree map[string]any
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, err
		}
		return tree, nil
	}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
