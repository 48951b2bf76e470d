package dispatch

import (
	"fmt"
	"net/url"

	"github.com/JakeFAU/brightdata-go/internal/catalog"
	"github.com/JakeFAU/brightdata-go/pkg/bderr"
)

// validate checks params against the spec's declarations and expands a
// list-valued batch parameter into per-item parameter maps. It runs before any
// network call; every offending key is reported in one ValidationError.
func validate(spec catalog.Spec, params map[string]any) ([]map[string]any, error) {
	ve := &bderr.ValidationError{Invalid: map[string]string{}}

	declared := make(map[string]catalog.Param, len(spec.Required)+len(spec.Optional))
	for _, p := range spec.Required {
		declared[p.Name] = p
	}
	for _, p := range spec.Optional {
		declared[p.Name] = p
	}

	for name := range params {
		if _, ok := declared[name]; !ok {
			ve.Invalid[name] = "unknown parameter"
		}
	}

	var batchValues []any
	for _, p := range spec.Required {
		v, ok := params[p.Name]
		if !ok || v == nil {
			ve.Missing = append(ve.Missing, p.Name)
			continue
		}
		if p.Name == spec.BatchParam {
			values, err := expandBatchValue(v)
			if err != nil {
				ve.Invalid[p.Name] = err.Error()
				continue
			}
			if len(values) == 0 {
				ve.Missing = append(ve.Missing, p.Name)
				continue
			}
			for _, item := range values {
				if err := checkKind(p.Kind, item); err != nil {
					ve.Invalid[p.Name] = err.Error()
					break
				}
			}
			batchValues = values
			continue
		}
		if err := checkKind(p.Kind, v); err != nil {
			ve.Invalid[p.Name] = err.Error()
		}
	}

	for _, p := range spec.Optional {
		v, ok := params[p.Name]
		if !ok || v == nil {
			continue
		}
		if err := checkKind(p.Kind, v); err != nil {
			ve.Invalid[p.Name] = err.Error()
		}
	}

	if len(ve.Missing) > 0 || len(ve.Invalid) > 0 {
		return nil, ve
	}

	base := make(map[string]any, len(declared))
	for _, p := range spec.Optional {
		if p.Default != nil {
			base[p.Name] = p.Default
		}
	}
	for name, v := range params {
		base[name] = v
	}

	if batchValues == nil {
		return []map[string]any{base}, nil
	}

	items := make([]map[string]any, len(batchValues))
	for i, value := range batchValues {
		item := make(map[string]any, len(base))
		for k, v := range base {
			item[k] = v
		}
		item[spec.BatchParam] = value
		items[i] = item
	}
	return items, nil
}

// expandBatchValue accepts a scalar or a homogeneous list for the batch
// parameter and returns the individual values.
func expandBatchValue(v any) ([]any, error) {
	switch value := v.(type) {
	case string:
		return []any{value}, nil
	case []string:
		out := make([]any, len(value))
		for i, s := range value {
			out[i] = s
		}
		return out, nil
	case []any:
		return value, nil
	default:
		return []any{value}, nil
	}
}

func checkKind(kind catalog.ParamKind, v any) error {
	switch kind {
	case catalog.KindString:
		if s, ok := v.(string); !ok || s == "" {
			return fmt.Errorf("expected non-empty string, got %T", v)
		}
	case catalog.KindInt:
		switch n := v.(type) {
		case int, int64:
		case float64:
			if n != float64(int64(n)) {
				return fmt.Errorf("expected integer, got %v", n)
			}
		default:
			return fmt.Errorf("expected integer, got %T", v)
		}
	case catalog.KindBool:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", v)
		}
	case catalog.KindURL:
		s, ok := v.(string)
		if !ok || s == "" {
			return fmt.Errorf("expected URL string, got %T", v)
		}
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%q is not a valid http(s) URL", s)
		}
	}
	return nil
}
