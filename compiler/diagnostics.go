package compiler

import (
	"fmt"
	"go/token"
)

// Diagnostic codes (SELQ001-SELQ099)
const (
	// Selector usage rules (SELQ001-SELQ004)
	CodeOnlyStaticLambda              = "SELQ001" // selector captures enclosing state
	CodeOpenLambdaIsNotAllowed        = "SELQ002" // selector returns its own parameter unmodified
	CodeDontUseOutScopeValues         = "SELQ003" // identifier bound by another selector scope
	CodeUnsupportedSelectorExpression = "SELQ004" // expression shape outside the selector language
)

// Severity grades a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic reports a selector that violates a usage rule. Diagnostics are
// recorded per call site and never abort sibling compilations.
type Diagnostic struct {
	Code     string
	Severity Severity
	Message  string
	Pos      token.Position
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: [%s] %s", d.Pos, d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

func errorf(code string, pos token.Position, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}
