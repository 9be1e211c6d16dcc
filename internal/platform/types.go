package platform

import (
	"errors"
	"fmt"
)

// Attribute names understood by the accessibility service.
const (
	AttrTitle    = "AXTitle"
	AttrChildren = "AXChildren"
	AttrMenuBar  = "AXMenuBar"
)

// Focus-change notifications observed in watch mode.
const (
	NotifyFocusedApplicationChanged = "AXFocusedApplicationChanged"
	NotifyFocusedWindowChanged      = "AXFocusedWindowChanged"
)

// Kind tags the dynamic type of an attribute value.
type Kind int

const (
	KindOther Kind = iota
	KindText
	KindCollection
	KindElement
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCollection:
		return "collection"
	case KindElement:
		return "element"
	default:
		return "other"
	}
}

// Errors a backend reports when text cannot be decoded.
var (
	ErrTextConversion = errors.New("unable to convert text to UTF-8")
	ErrTextAllocation = errors.New("text buffer allocation failed")
)

// Value is an attribute value decoded once at the OS boundary.
//
// Exactly one of Text, Items or Element is meaningful, selected by Kind.
// For KindText, DecodeErr is set when the text could not be converted.
// For KindOther, TypeName describes the foreign type.
type Value struct {
	Kind      Kind
	Text      string
	DecodeErr error
	Items     []Element
	Element   Element
	TypeName  string

	release func()
}

// NewValue returns v with release attached. Backends use it to tie the
// value's lifetime to the underlying OS reference.
func NewValue(v Value, release func()) Value {
	v.release = release
	return v
}

// Release frees the OS reference backing the value. Items of a collection
// are borrowed from it and must not be used afterwards.
func (v Value) Release() {
	if v.release != nil {
		v.release()
	}
}

// AXError is an accessibility API error code.
type AXError int

const (
	AXErrorSuccess                           AXError = 0
	AXErrorFailure                           AXError = -25200
	AXErrorIllegalArgument                   AXError = -25201
	AXErrorInvalidUIElement                  AXError = -25202
	AXErrorInvalidUIElementObserver          AXError = -25203
	AXErrorCannotComplete                    AXError = -25204
	AXErrorAttributeUnsupported              AXError = -25205
	AXErrorActionUnsupported                 AXError = -25206
	AXErrorNotificationUnsupported           AXError = -25207
	AXErrorNotImplemented                    AXError = -25208
	AXErrorNotificationAlreadyRegistered     AXError = -25209
	AXErrorNotificationNotRegistered         AXError = -25210
	AXErrorAPIDisabled                       AXError = -25211
	AXErrorNoValue                           AXError = -25212
	AXErrorParameterizedAttributeUnsupported AXError = -25213
	AXErrorNotEnoughPrecision                AXError = -25214
)

var axErrorNames = map[AXError]string{
	AXErrorSuccess:                           "success",
	AXErrorFailure:                           "failure",
	AXErrorIllegalArgument:                   "illegal argument",
	AXErrorInvalidUIElement:                  "invalid UI element",
	AXErrorInvalidUIElementObserver:          "invalid UI element observer",
	AXErrorCannotComplete:                    "cannot complete",
	AXErrorAttributeUnsupported:              "attribute unsupported",
	AXErrorActionUnsupported:                 "action unsupported",
	AXErrorNotificationUnsupported:           "notification unsupported",
	AXErrorNotImplemented:                    "not implemented",
	AXErrorNotificationAlreadyRegistered:     "notification already registered",
	AXErrorNotificationNotRegistered:         "notification not registered",
	AXErrorAPIDisabled:                       "API disabled",
	AXErrorNoValue:                           "no value",
	AXErrorParameterizedAttributeUnsupported: "parameterized attribute unsupported",
	AXErrorNotEnoughPrecision:                "not enough precision",
}

func (e AXError) Error() string {
	if name, ok := axErrorNames[e]; ok {
		return fmt.Sprintf("accessibility error %d (%s)", int(e), name)
	}
	return fmt.Sprintf("accessibility error %d", int(e))
}

// Code returns the numeric error code carried by err, or 0 when err does
// not wrap an AXError.
func Code(err error) int {
	var axErr AXError
	if errors.As(err, &axErr) {
		return int(axErr)
	}
	return 0
}
