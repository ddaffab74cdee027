package internal

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// VarSource provides variable lookups for expression evaluation. It is the
// only window an expression has into the outside world: no file, process, or
// network capability is reachable from within an expression.
type VarSource interface {
	Get(name string) (any, bool)
}

// BuiltinFunc is a builtin callable usable inside expressions.
type BuiltinFunc func(args []any) (any, error)

// BuiltinNameDefined is the single builtin predicate exposed to expressions.
const BuiltinNameDefined = "defined"

// ExprEvaluator evaluates expression AST nodes against a variable source and
// a fixed set of builtins.
type ExprEvaluator struct {
	vars     VarSource
	builtins map[string]BuiltinFunc
}

// NewExprEvaluator creates a new expression evaluator
func NewExprEvaluator(vars VarSource, builtins map[string]BuiltinFunc) *ExprEvaluator {
	return &ExprEvaluator{
		vars:     vars,
		builtins: builtins,
	}
}

// Evaluate evaluates an expression and returns the result
func (e *ExprEvaluator) Evaluate(node ExprNode) (any, error) {
	if node == nil {
		return nil, NewExprEvalError(ErrMsgExprNilNode, "")
	}

	switch n := node.(type) {
	case *LiteralNode:
		return n.Value, nil

	case *IdentifierNode:
		return e.evaluateIdentifier(n)

	case *UnaryNode:
		return e.evaluateUnary(n)

	case *BinaryNode:
		return e.evaluateBinary(n)

	case *CallNode:
		return e.evaluateCall(n)

	default:
		return nil, NewExprEvalError(ErrMsgExprUnknownNodeType, fmt.Sprintf("%T", node))
	}
}

// EvaluateBool evaluates an expression and coerces the result to a boolean
func (e *ExprEvaluator) EvaluateBool(node ExprNode) (bool, error) {
	result, err := e.Evaluate(node)
	if err != nil {
		return false, err
	}
	return IsTruthy(result), nil
}

// evaluateIdentifier looks up a variable from the variable source. Unlike a
// template context lookup, an unknown name is a hard error: conditional
// directives must not silently treat typos as false.
func (e *ExprEvaluator) evaluateIdentifier(node *IdentifierNode) (any, error) {
	if e.vars == nil {
		return nil, NewExprEvalError(ErrMsgExprNoVarSource, node.Name)
	}

	val, found := e.vars.Get(node.Name)
	if !found {
		return nil, NewUnboundVariableError(node.Name)
	}
	return val, nil
}

// evaluateUnary evaluates a unary operation
func (e *ExprEvaluator) evaluateUnary(node *UnaryNode) (any, error) {
	right, err := e.Evaluate(node.Right)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case ExprTokenTypeNot:
		return !IsTruthy(right), nil
	case ExprTokenTypeMinus:
		num, ok := toNumber(right)
		if !ok {
			return nil, NewExprEvalError(ErrMsgExprTypeMismatch, fmt.Sprintf("cannot negate %T", right))
		}
		return -num, nil
	default:
		return nil, NewExprEvalError(ErrMsgExprUnknownOperator, string(node.Op))
	}
}

// evaluateBinary evaluates a binary operation
func (e *ExprEvaluator) evaluateBinary(node *BinaryNode) (any, error) {
	// Short-circuit evaluation for logical operators
	if node.Op == ExprTokenTypeAnd {
		left, err := e.Evaluate(node.Left)
		if err != nil {
			return nil, err
		}
		if !IsTruthy(left) {
			return false, nil // Short-circuit: false && x = false
		}
		right, err := e.Evaluate(node.Right)
		if err != nil {
			return nil, err
		}
		return IsTruthy(right), nil
	}

	if node.Op == ExprTokenTypeOr {
		left, err := e.Evaluate(node.Left)
		if err != nil {
			return nil, err
		}
		if IsTruthy(left) {
			return true, nil // Short-circuit: true || x = true
		}
		right, err := e.Evaluate(node.Right)
		if err != nil {
			return nil, err
		}
		return IsTruthy(right), nil
	}

	// Evaluate both sides for other operators
	left, err := e.Evaluate(node.Left)
	if err != nil {
		return nil, err
	}

	right, err := e.Evaluate(node.Right)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case ExprTokenTypeEq:
		return compareEqual(left, right), nil
	case ExprTokenTypeNeq:
		return !compareEqual(left, right), nil
	case ExprTokenTypeLt:
		return compareLess(left, right)
	case ExprTokenTypeGt:
		return compareGreater(left, right)
	case ExprTokenTypeLte:
		result, err := compareGreater(left, right)
		if err != nil {
			return nil, err
		}
		return !result, nil
	case ExprTokenTypeGte:
		result, err := compareLess(left, right)
		if err != nil {
			return nil, err
		}
		return !result, nil
	case ExprTokenTypeIn:
		return evaluateMembership(left, right)
	case ExprTokenTypePlus, ExprTokenTypeMinus, ExprTokenTypeStar, ExprTokenTypeSlash, ExprTokenTypePercent:
		return evaluateArithmetic(node.Op, left, right)
	default:
		return nil, NewExprEvalError(ErrMsgExprUnknownOperator, string(node.Op))
	}
}

// evaluateCall evaluates a builtin call
func (e *ExprEvaluator) evaluateCall(node *CallNode) (any, error) {
	fn, ok := e.builtins[node.Name]
	if !ok {
		return nil, NewExprEvalError(ErrMsgExprUnknownBuiltin, node.Name)
	}

	// Evaluate arguments
	args := make([]any, len(node.Args))
	for i, argNode := range node.Args {
		val, err := e.Evaluate(argNode)
		if err != nil {
			// The common mistake of writing defined(NAME) instead of
			// defined('NAME') surfaces here as an unbound variable.
			var unbound *UnboundVariableError
			if errors.As(err, &unbound) && node.Name == BuiltinNameDefined {
				if _, isIdent := argNode.(*IdentifierNode); isIdent {
					unbound.Hint = fmt.Sprintf("perhaps you want `defined('%s')` instead of `defined(%s)`", unbound.Name, unbound.Name)
				}
			}
			return nil, err
		}
		args[i] = val
	}

	return fn(args)
}

// evaluateArithmetic evaluates an arithmetic operation. Plus doubles as
// string concatenation when both operands are strings.
func evaluateArithmetic(op ExprTokenType, left, right any) (any, error) {
	if op == ExprTokenTypePlus {
		lStr, lIsStr := left.(string)
		rStr, rIsStr := right.(string)
		if lIsStr && rIsStr {
			return lStr + rStr, nil
		}
	}

	lNum, lOK := toNumber(left)
	rNum, rOK := toNumber(right)
	if !lOK || !rOK {
		return nil, NewExprEvalError(ErrMsgExprTypeMismatch, fmt.Sprintf("cannot apply arithmetic to %T and %T", left, right))
	}

	switch op {
	case ExprTokenTypePlus:
		return lNum + rNum, nil
	case ExprTokenTypeMinus:
		return lNum - rNum, nil
	case ExprTokenTypeStar:
		return lNum * rNum, nil
	case ExprTokenTypeSlash:
		if rNum == 0 {
			return nil, NewExprEvalError(ErrMsgExprDivisionByZero, "")
		}
		return lNum / rNum, nil
	case ExprTokenTypePercent:
		if rNum == 0 {
			return nil, NewExprEvalError(ErrMsgExprDivisionByZero, "")
		}
		return math.Mod(lNum, rNum), nil
	default:
		return nil, NewExprEvalError(ErrMsgExprUnknownOperator, string(op))
	}
}

// evaluateMembership evaluates `a in b` as substring containment over the
// string forms of both operands.
func evaluateMembership(left, right any) (any, error) {
	lStr, lOK := toString(left)
	rStr, rOK := toString(right)
	if !lOK || !rOK {
		return nil, NewExprEvalError(ErrMsgExprTypeMismatch, fmt.Sprintf("cannot test membership of %T in %T", left, right))
	}
	return strings.Contains(rStr, lStr), nil
}

// Comparison helper functions

// compareEqual checks if two values are equal
func compareEqual(a, b any) bool {
	// Handle nil cases
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	// Try numeric comparison
	aNum, aIsNum := toNumber(a)
	bNum, bIsNum := toNumber(b)
	if aIsNum && bIsNum {
		return aNum == bNum
	}

	// Try string comparison
	aStr, aIsStr := a.(string)
	bStr, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return aStr == bStr
	}

	// Try boolean comparison
	aBool, aIsBool := a.(bool)
	bBool, bIsBool := b.(bool)
	if aIsBool && bIsBool {
		return aBool == bBool
	}

	// Fallback to direct comparison
	return a == b
}

// compareLess checks if a < b
func compareLess(a, b any) (bool, error) {
	// Try numeric comparison
	aNum, aIsNum := toNumber(a)
	bNum, bIsNum := toNumber(b)
	if aIsNum && bIsNum {
		return aNum < bNum, nil
	}

	// Try string comparison
	aStr, aIsStr := a.(string)
	bStr, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return aStr < bStr, nil
	}

	return false, NewExprEvalError(ErrMsgExprTypeMismatch, fmt.Sprintf("cannot compare %T and %T", a, b))
}

// compareGreater checks if a > b
func compareGreater(a, b any) (bool, error) {
	// Try numeric comparison
	aNum, aIsNum := toNumber(a)
	bNum, bIsNum := toNumber(b)
	if aIsNum && bIsNum {
		return aNum > bNum, nil
	}

	// Try string comparison
	aStr, aIsStr := a.(string)
	bStr, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return aStr > bStr, nil
	}

	return false, NewExprEvalError(ErrMsgExprTypeMismatch, fmt.Sprintf("cannot compare %T and %T", a, b))
}

// toNumber attempts to convert a value to float64
func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	default:
		return 0, false
	}
}

// toString attempts to convert a value to its textual form
func toString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), true
	default:
		return "", false
	}
}

// IsTruthy reports whether a value counts as true in boolean context:
// non-zero numbers, non-empty strings and true are truthy; nil is falsy.
func IsTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case float32:
		return val != 0
	default:
		return true
	}
}

// UnboundVariableError reports a reference to a variable that is not present
// in the variable table.
type UnboundVariableError struct {
	Name string
	Hint string
}

// NewUnboundVariableError creates a new unbound variable error
func NewUnboundVariableError(name string) *UnboundVariableError {
	return &UnboundVariableError{Name: name}
}

// Error implements the error interface
func (e *UnboundVariableError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("name '%s' is not defined (%s)", e.Name, e.Hint)
	}
	return fmt.Sprintf("name '%s' is not defined", e.Name)
}

// ExprEvalError represents an expression evaluation error
type ExprEvalError struct {
	Message string
	Detail  string
}

// NewExprEvalError creates a new expression evaluation error
func NewExprEvalError(message, detail string) *ExprEvalError {
	return &ExprEvalError{
		Message: message,
		Detail:  detail,
	}
}

// Error implements the error interface
func (e *ExprEvalError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Expression evaluator error messages
const (
	ErrMsgExprNilNode         = "nil expression node"
	ErrMsgExprUnknownNodeType = "unknown expression node type"
	ErrMsgExprNoVarSource     = "no variable table available for lookup"
	ErrMsgExprUnknownOperator = "unknown operator"
	ErrMsgExprUnknownBuiltin  = "unknown builtin"
	ErrMsgExprTypeMismatch    = "type mismatch"
	ErrMsgExprDivisionByZero  = "division by zero"
)

// EvaluateExpression is a convenience function that parses and evaluates an expression string
func EvaluateExpression(expr string, vars VarSource, builtins map[string]BuiltinFunc) (any, error) {
	node, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}

	evaluator := NewExprEvaluator(vars, builtins)
	return evaluator.Evaluate(node)
}

// EvaluateExpressionBool is a convenience function that parses and evaluates an expression as a boolean
func EvaluateExpressionBool(expr string, vars VarSource, builtins map[string]BuiltinFunc) (bool, error) {
	node, err := ParseExpression(expr)
	if err != nil {
		return false, err
	}

	evaluator := NewExprEvaluator(vars, builtins)
	return evaluator.EvaluateBool(node)
}
