package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ternarybob/mathcalc/pkg/calculator"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

// valuesFields flattens form values. When a key repeats the last value
// wins, so a hidden "false" input followed by a checked box reads true.
func valuesFields(vs url.Values) calculator.Fields {
	f := make(calculator.Fields, len(vs))
	for k, v := range vs {
		if len(v) > 0 {
			f[k] = v[len(v)-1]
		}
	}
	return f
}

// formFields reads the submitted form of a page.
func formFields(r *http.Request) (calculator.Fields, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return valuesFields(r.Form), nil
}

// primitive renders a decoded JSON scalar as field text.
func primitive(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}

// jsonFields decodes a flat JSON object of primitives.
func jsonFields(m map[string]any) (calculator.Fields, error) {
	f := make(calculator.Fields, len(m))
	for k, v := range m {
		s, err := primitive(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		f[k] = s
	}
	return f, nil
}

// requestFields reads fields from the query string merged with a JSON or
// form body. Body values win.
func requestFields(r *http.Request) (calculator.Fields, error) {
	f := valuesFields(r.URL.Query())
	if r.Method != http.MethodPost || r.Body == nil {
		return f, nil
	}

	var body calculator.Fields
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
		dec.UseNumber()
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		var err error
		if body, err = jsonFields(m); err != nil {
			return nil, err
		}
	} else {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		body = valuesFields(r.PostForm)
	}
	for k, v := range body {
		f[k] = v
	}
	return f, nil
}
