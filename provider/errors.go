package provider

import "fmt"

// ErrorKind is the stable, machine-readable taxonomy every Error carries.
type ErrorKind string

const (
	KindUnknownChain              ErrorKind = "UNKNOWN_CHAIN"
	KindUnknownProvider           ErrorKind = "UNKNOWN_PROVIDER"
	KindChainNotSupportedByProvider ErrorKind = "CHAIN_NOT_SUPPORTED_BY_PROVIDER"
	KindMethodNotSupported        ErrorKind = "METHOD_NOT_SUPPORTED"
	KindInvalidArgument           ErrorKind = "INVALID_ARGUMENT"
	KindAuthRequired              ErrorKind = "AUTH_REQUIRED"
	KindRateLimited               ErrorKind = "RATE_LIMITED"
	KindProviderError             ErrorKind = "PROVIDER_ERROR"
	KindTransportError            ErrorKind = "TRANSPORT_ERROR"
	KindParseError                ErrorKind = "PARSE_ERROR"
	KindCanceled                  ErrorKind = "CANCELED"
	KindPartialHarvest            ErrorKind = "PARTIAL_HARVEST"
)

// Error is the one exported error type this module raises from adapter and
// client code. It always carries a Kind, the provider and chain involved
// (when known), and the logical method being dispatched, plus an optional
// wrapped cause and the provider's raw message for KindProviderError.
type Error struct {
	Kind        ErrorKind
	Provider    string
	Chain       string // chain display name, when known
	Method      LogicalMethod
	RawMessage  string // provider's verbatim message, set for KindProviderError
	Err         error  // wrapped cause, if any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: provider=%s chain=%s method=%s", e.Kind, e.Provider, e.Chain, e.Method)
	if e.RawMessage != "" {
		msg += fmt.Sprintf(" provider_message=%q", e.RawMessage)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is(err1, err2) for two *Error values, matching on Kind
// alone and ignoring every other field. A bare ErrorKind is not an error, so
// errors.Is(err, KindX) is not supported; callers match a kind with a type
// assertion to *Error and a comparison of its Kind field.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// NewError constructs an Error with the given kind and context.
func NewError(kind ErrorKind, providerName string, chain string, method LogicalMethod) *Error {
	return &Error{Kind: kind, Provider: providerName, Chain: chain, Method: method}
}

// WithErr attaches a wrapped cause and returns the receiver for chaining.
func (e *Error) WithErr(err error) *Error {
	e.Err = err
	return e
}

// WithRawMessage attaches the provider's verbatim error message and returns
// the receiver for chaining.
func (e *Error) WithRawMessage(msg string) *Error {
	e.RawMessage = msg
	return e
}

// StampContext fills in Provider/Chain/Method on err if it is an *Error with
// those fields still blank. Parsers build Errors with no knowledge of which
// provider/chain/method they are running under; the adapter fills it in
// after the fact.
func StampContext(err error, providerName, chain string, method LogicalMethod) {
	perr, ok := err.(*Error)
	if !ok || perr.Provider != "" {
		return
	}
	perr.Provider = providerName
	perr.Chain = chain
	perr.Method = method
}
