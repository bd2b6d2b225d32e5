package ingestion

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"ideas-pusher/internal/domain"
)

// decoder keeps numbers as json.Number so string and numeric fields parse the same way.
var decoder = sonic.Config{UseNumber: true}.Froze()

// decodeTickers parses a response body and unwraps the ticker array.
func decodeTickers(body []byte, paths []string) ([]domain.RawTicker, error) {
	var v any
	if err := decoder.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return Unwrap(v, paths)
}

// Unwrap returns the ticker array held by v.
// A bare array is used as is; otherwise each dotted path is tried in order
// and the first one resolving to an array wins.
func Unwrap(v any, paths []string) ([]domain.RawTicker, error) {
	if arr, ok := v.([]any); ok {
		return toTickers(arr), nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrUnexpectedShape, v)
	}
	for _, p := range paths {
		if arr, ok := lookupPath(obj, p); ok {
			return toTickers(arr), nil
		}
	}
	return nil, fmt.Errorf("%w: no array at %v", ErrUnexpectedShape, paths)
}

func lookupPath(obj map[string]any, path string) ([]any, bool) {
	var cur any = obj
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	arr, ok := cur.([]any)
	return arr, ok
}

// toTickers keeps only object elements.
func toTickers(arr []any) []domain.RawTicker {
	out := make([]domain.RawTicker, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, domain.RawTicker(m))
		}
	}
	return out
}
