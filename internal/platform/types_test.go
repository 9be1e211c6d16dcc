package platform

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAXError_KnownCode(t *testing.T) {
	msg := AXErrorNoValue.Error()
	if !strings.Contains(msg, "-25212") {
		t.Errorf("message %q should contain the numeric code", msg)
	}
	if !strings.Contains(msg, "no value") {
		t.Errorf("message %q should contain the symbolic name", msg)
	}
}

func TestAXError_UnknownCode(t *testing.T) {
	got := AXError(-1).Error()
	if got != "accessibility error -1" {
		t.Errorf("got %q", got)
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 0},
		{"direct", AXErrorAPIDisabled, -25211},
		{"wrapped", fmt.Errorf("menu bar: %w", AXErrorNoValue), -25212},
	}
	for _, tt := range tests {
		if got := Code(tt.err); got != tt.want {
			t.Errorf("%s: Code = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestValue_ReleaseCallsOnce(t *testing.T) {
	calls := 0
	v := NewValue(Value{Kind: KindText, Text: "File"}, func() { calls++ })
	v.Release()
	if calls != 1 {
		t.Errorf("release called %d times, want 1", calls)
	}
}

func TestValue_ReleaseWithoutFunc(t *testing.T) {
	// Zero values come back from failed fetches and must be safe to release.
	var v Value
	v.Release()
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindText, "text"},
		{KindCollection, "collection"},
		{KindElement, "element"},
		{KindOther, "other"},
		{Kind(42), "other"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}
