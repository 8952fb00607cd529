package types_test

import (
	"encoding/json"
	"testing"

	"github.com/localnerve/aptwatch/internal/types"
)

func TestFlexIntUnmarshal(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"number", `7`, 7, false},
		{"quoted number", `"7"`, 7, false},
		{"empty string", `""`, 0, false},
		{"garbage string", `"seven"`, 0, true},
		{"wrong type", `[7]`, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f types.FlexInt
			err := json.Unmarshal([]byte(tc.input), &f)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected an error for %s", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if f.Int() != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, f.Int())
			}
		})
	}
}

func TestFlexListUnmarshal(t *testing.T) {
	var list types.FlexList[string]
	if err := json.Unmarshal([]byte(`["a","b"]`), &list); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(list) != 2 || list[0] != "a" {
		t.Errorf("Expected [a b], got %v", list)
	}

	list = nil
	if err := json.Unmarshal([]byte(`"solo"`), &list); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(list) != 1 || list[0] != "solo" {
		t.Errorf("Expected [solo], got %v", list)
	}
}
