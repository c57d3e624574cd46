package endpoint

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/certen/evmscan/provider"
)

// Input is everything Dispatch needs to turn a logical call into an HTTP
// request description, with no network dependency.
type Input struct {
	ProviderName string
	ChainDisplay string
	Method       provider.LogicalMethod

	Spec   Spec
	Params map[string]string // caller's logical kwargs

	BaseURL     string
	AuthMode    provider.AuthMode
	AuthKeyName string // query param name (AuthQuery) or header name (AuthHeader)
	APIKey      string
}

// Result is the fully-resolved HTTP request description Dispatch produces.
type Result struct {
	HTTPMethod string
	URL        string
	Headers    map[string]string
}

// Dispatch performs steps (a)-(f) of a logical call with no network
// dependency: rename logical kwargs via the param map, substitute path
// parameters into the path template, merge the remaining kwargs with the
// static query skeleton, and inject the auth credential per the adapter's
// auth mode. Unknown logical parameters (not present in Spec.ParamMap) are
// forwarded under their original names, supporting provider-specific
// extensions. A missing path placeholder fails with KindInvalidArgument
// before any network call.
func Dispatch(in Input) (Result, error) {
	query := make(map[string]string, len(in.Spec.Query)+len(in.Params))
	for k, v := range in.Spec.Query {
		query[k] = v
	}

	pathValues := make(map[string]string, len(in.Spec.PathParams))
	for logicalName, value := range in.Params {
		if in.Spec.PathParams[logicalName] {
			pathValues[logicalName] = value
			continue
		}

		wireName := logicalName
		if renamed, ok := in.Spec.ParamMap[logicalName]; ok {
			wireName = renamed
		}
		query[wireName] = value
	}

	path, err := substitutePath(in.Spec.PathTemplate, pathValues)
	if err != nil {
		return Result{}, provider.NewError(provider.KindInvalidArgument, in.ProviderName, in.ChainDisplay, in.Method).WithErr(err)
	}

	switch in.AuthMode {
	case provider.AuthQuery:
		if in.APIKey == "" {
			return Result{}, provider.NewError(provider.KindAuthRequired, in.ProviderName, in.ChainDisplay, in.Method)
		}
		query[in.AuthKeyName] = in.APIKey
	case provider.AuthHeader, provider.AuthNone:
		// handled below / not required
	}

	u := strings.TrimRight(in.BaseURL, "/") + path
	if len(query) > 0 {
		values := url.Values{}
		for k, v := range query {
			values.Set(k, v)
		}
		u += "?" + values.Encode()
	}

	headers := map[string]string{}
	if in.AuthMode == provider.AuthHeader {
		if in.APIKey == "" {
			return Result{}, provider.NewError(provider.KindAuthRequired, in.ProviderName, in.ChainDisplay, in.Method)
		}
		headers[in.AuthKeyName] = in.APIKey
	}

	httpMethod := in.Spec.HTTPMethod
	if httpMethod == "" {
		httpMethod = "GET"
	}

	return Result{HTTPMethod: httpMethod, URL: u, Headers: headers}, nil
}

func substitutePath(template string, values map[string]string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(template) {
		if template[i] != '{' {
			b.WriteByte(template[i])
			i++
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			return "", fmt.Errorf("endpoint: unterminated path placeholder in %q", template)
		}
		name := template[i+1 : i+end]
		val, ok := values[name]
		if !ok {
			return "", fmt.Errorf("endpoint: missing required path parameter %q", name)
		}
		b.WriteString(url.PathEscape(val))
		i += end + 1
	}
	return b.String(), nil
}
