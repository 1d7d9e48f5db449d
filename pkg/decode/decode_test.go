package decode_test

import (
	"testing"

	"github.com/JaimeStill/agent-instances/pkg/decode"
)

type authInfo struct {
	Token  string `json:"token"`
	Header string `json:"header"`
}

func TestFromMap(t *testing.T) {
	got, err := decode.FromMap[authInfo](map[string]any{"token": "abc", "extra": 1})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}
	if got.Token != "abc" || got.Header != "" {
		t.Errorf("FromMap() = %+v", got)
	}

	empty, err := decode.FromMap[authInfo](nil)
	if err != nil {
		t.Fatalf("FromMap(nil) error = %v", err)
	}
	if empty != (authInfo{}) {
		t.Errorf("FromMap(nil) = %+v, want zero", empty)
	}

	if _, err := decode.FromMap[authInfo](map[string]any{"token": 42}); err == nil {
		t.Error("FromMap() should fail on mismatched types")
	}
}
