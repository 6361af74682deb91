package binding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Usage errors surfaced for malformed binding requests. Match with errors.Is.
var (
	ErrNameMissing = errors.New("binding: field name is required")
	ErrBadArgument = errors.New("binding: unsupported argument shape")
)

// Request is the normalized form of a binding call. Callers can pass it
// directly instead of the shorthand argument shapes.
type Request struct {
	Name string

	// OwnValue is the field's intrinsic value, meaningful for checkbox and
	// radio inputs. HasOwnValue distinguishes "no own value" from an empty
	// one.
	OwnValue    string
	HasOwnValue bool

	Options Options
}

// ParseArgs normalizes the variadic shorthand used when requesting bindings.
// Accepted shapes, matched exhaustively:
//
//	ParseArgs(name)
//	ParseArgs(name, ownValue)          // string, bool, or numeric own value
//	ParseArgs(name, options)           // Options or *Options
//	ParseArgs(name, ownValue, options)
//	ParseArgs(request)                 // Request or *Request
//
// A missing or blank name is a usage error, never a silent default.
func ParseArgs(args ...any) (Request, error) {
	if len(args) == 0 {
		return Request{}, ErrNameMissing
	}

	switch first := args[0].(type) {
	case Request:
		if len(args) > 1 {
			return Request{}, fmt.Errorf("%w: Request takes no extra arguments", ErrBadArgument)
		}
		return validated(first)
	case *Request:
		if first == nil {
			return Request{}, ErrNameMissing
		}
		if len(args) > 1 {
			return Request{}, fmt.Errorf("%w: Request takes no extra arguments", ErrBadArgument)
		}
		return validated(*first)
	case string:
		req := Request{Name: first}
		return parseTail(req, args[1:])
	default:
		return Request{}, fmt.Errorf("%w: first argument must be a name or Request, got %T", ErrBadArgument, args[0])
	}
}

func parseTail(req Request, rest []any) (Request, error) {
	switch len(rest) {
	case 0:
		return validated(req)
	case 1:
		if opts, ok := asOptions(rest[0]); ok {
			req.Options = opts
			return validated(req)
		}
		own, ok := asOwnValue(rest[0])
		if !ok {
			return Request{}, fmt.Errorf("%w: second argument must be an own value or Options, got %T", ErrBadArgument, rest[0])
		}
		req.OwnValue = own
		req.HasOwnValue = true
		return validated(req)
	case 2:
		own, ok := asOwnValue(rest[0])
		if !ok {
			return Request{}, fmt.Errorf("%w: second argument must be an own value, got %T", ErrBadArgument, rest[0])
		}
		opts, ok := asOptions(rest[1])
		if !ok {
			return Request{}, fmt.Errorf("%w: third argument must be Options, got %T", ErrBadArgument, rest[1])
		}
		req.OwnValue = own
		req.HasOwnValue = true
		req.Options = opts
		return validated(req)
	default:
		return Request{}, fmt.Errorf("%w: too many arguments (%d)", ErrBadArgument, len(rest)+1)
	}
}

func validated(req Request) (Request, error) {
	if strings.TrimSpace(req.Name) == "" {
		return Request{}, ErrNameMissing
	}
	return req, nil
}

func asOptions(arg any) (Options, bool) {
	switch typed := arg.(type) {
	case Options:
		return typed, true
	case *Options:
		if typed == nil {
			return Options{}, true
		}
		return *typed, true
	default:
		return Options{}, false
	}
}

// asOwnValue classifies an own-value argument by shape: primitives are own
// values, structured configuration is not. The stringified form is what the
// DOM value attribute carries.
func asOwnValue(arg any) (string, bool) {
	switch typed := arg.(type) {
	case string:
		return typed, true
	case bool:
		return strconv.FormatBool(typed), true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	default:
		return "", false
	}
}
