package policy

import "strings"

// ActionType enumerates what to do about a generation failure
type ActionType string

const (
	ActionUseDefault ActionType = "useDefault"
	ActionRetry      ActionType = "retry"
	ActionAbort      ActionType = "abort"
	ActionFail       ActionType = "fail"
)

// FallbackAction is the outcome of a matched fallback strategy
type FallbackAction struct {
	Type         ActionType
	DefaultValue string // content substituted when Type is ActionUseDefault
}

// FallbackStrategy pairs an error predicate with the action taken when it
// matches. Strategies are evaluated in order, first match wins.
type FallbackStrategy struct {
	Matches func(error) bool
	Action  FallbackAction
}

// MessageContains builds a predicate matching errors whose message
// contains substr.
func MessageContains(substr string) func(error) bool {
	return func(err error) bool {
		return err != nil && strings.Contains(err.Error(), substr)
	}
}

// UseDefault builds a strategy substituting defaultValue for errors
// matched by predicate.
func UseDefault(predicate func(error) bool, defaultValue string) FallbackStrategy {
	return FallbackStrategy{
		Matches: predicate,
		Action:  FallbackAction{Type: ActionUseDefault, DefaultValue: defaultValue},
	}
}

// RetryOn builds a strategy requesting a retry for matching errors
func RetryOn(predicate func(error) bool) FallbackStrategy {
	return FallbackStrategy{
		Matches: predicate,
		Action:  FallbackAction{Type: ActionRetry},
	}
}

// AbortOn builds a strategy aborting immediately for matching errors
func AbortOn(predicate func(error) bool) FallbackStrategy {
	return FallbackStrategy{
		Matches: predicate,
		Action:  FallbackAction{Type: ActionAbort},
	}
}
