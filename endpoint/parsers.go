package endpoint

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/certen/evmscan/provider"
)

// noResultPrefixes are the Etherscan-family "empty success" messages: a
// status of "0" paired with one of these messages means zero matching
// records, not an error. This quirk is applied uniformly to every
// envelope-parsed method, not selected per method.
var noResultPrefixes = []string{
	"no transactions found",
	"no records found",
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// EnvelopeParser returns the standard Etherscan-family parser for the
// {status, message, result} envelope shape.
func EnvelopeParser() Parser {
	return func(body []byte) (any, error) {
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, provider.NewError(provider.KindParseError, "", "", "").
				WithErr(fmt.Errorf("endpoint: decoding envelope: %w", err))
		}

		if env.Status == "0" {
			lowerMsg := strings.ToLower(env.Message)
			for _, prefix := range noResultPrefixes {
				if strings.HasPrefix(lowerMsg, prefix) {
					return []any{}, nil
				}
			}
			return nil, provider.NewError(provider.KindProviderError, "", "", "").
				WithRawMessage(env.Message)
		}

		if env.Status != "1" {
			return nil, provider.NewError(provider.KindParseError, "", "", "").
				WithErr(fmt.Errorf("endpoint: unexpected envelope status %q", env.Status))
		}

		var result any
		if len(env.Result) > 0 {
			if err := json.Unmarshal(env.Result, &result); err != nil {
				return nil, provider.NewError(provider.KindParseError, "", "", "").
					WithErr(fmt.Errorf("endpoint: decoding envelope result: %w", err))
			}
		}
		return result, nil
	}
}

// DirectParser returns the response body parsed as raw JSON, unwrapped. It
// is used by REST-style providers whose responses are not enveloped.
func DirectParser() Parser {
	return func(body []byte) (any, error) {
		var result any
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, provider.NewError(provider.KindParseError, "", "", "").
				WithErr(fmt.Errorf("endpoint: decoding direct response: %w", err))
		}
		return result, nil
	}
}

// FieldPick returns a parser extracting one nested field from a direct JSON
// response, addressed by a dot-separated path (e.g. "balance" or
// "data.result"). It is used by REST-style providers whose logical result
// is a single field of a larger object.
func FieldPick(path string) Parser {
	segments := strings.Split(path, ".")
	return func(body []byte) (any, error) {
		var parsed any
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, provider.NewError(provider.KindParseError, "", "", "").
				WithErr(fmt.Errorf("endpoint: decoding response for field-pick %q: %w", path, err))
		}

		cur := parsed
		for _, seg := range segments {
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, provider.NewError(provider.KindParseError, "", "", "").
					WithErr(fmt.Errorf("endpoint: field-pick %q: %q is not an object", path, seg))
			}
			val, ok := obj[seg]
			if !ok {
				return nil, provider.NewError(provider.KindParseError, "", "", "").
					WithErr(fmt.Errorf("endpoint: field-pick %q: missing field %q", path, seg))
			}
			cur = val
		}
		return cur, nil
	}
}
