package order

// Code identifies a validation failure. Codes travel inside function-call
// results so the agent can phrase a reply without extra lookups.
type Code string

const (
	CodeNoPendingItem          Code = "no_pending_item"
	CodeUnknownFlavor          Code = "unknown_flavor"
	CodeUnavailableTopping     Code = "unavailable_topping"
	CodeUnavailableAddon       Code = "unavailable_addon"
	CodeMissingRequiredTopping Code = "missing_required_topping"
	CodeCartFull               Code = "cart_full"
	CodeIndexOutOfRange        Code = "index_out_of_range"
	CodeEmptyCart              Code = "empty_cart"
	CodeDrinkLimitExceeded     Code = "drink_limit_exceeded"
	CodePendingOrderNotFound   Code = "pending_order_not_found"
)

// ValidationError is a caller-facing failure. It never terminates the call;
// the dispatch layer turns it into an {ok:false, ...} result.
type ValidationError struct {
	Code    Code
	Message string
	// Context carries the offending value, limits, counts - whatever the
	// language layer needs to phrase the failure.
	Context map[string]any
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(code Code, msg string, ctx map[string]any) *ValidationError {
	return &ValidationError{Code: code, Message: msg, Context: ctx}
}
