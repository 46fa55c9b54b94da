package jsonx

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want []string
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"null string", "null", nil},
		{"json string", `["0.7","0.3"]`, []string{"0.7", "0.3"}},
		{"json numbers", `[0.7, 0.3]`, []string{"0.7", "0.3"}},
		{"broken json", `["0.7",`, nil},
		{"comma joined", `123, 456`, []string{"123", "456"}},
		{"array", []interface{}{"a", json.Number("12"), "b"}, []string{"a", "12", "b"}},
		{"long token id keeps precision", `["71321045679252212594626385532706912750332728571942532289631379312455583992563"]`,
			[]string{"71321045679252212594626385532706912750332728571942532289631379312455583992563"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StringList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StringList(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFloatAndBool(t *testing.T) {
	var obj Object
	if err := Decode([]byte(`{"a": 12.5, "b": "3.25", "c": "x", "d": true, "e": "false"}`), &obj); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f, ok := Float(obj, "a"); !ok || f != 12.5 {
		t.Errorf("Float(a) = %v, %v", f, ok)
	}
	if f, ok := Float(obj, "b"); !ok || f != 3.25 {
		t.Errorf("Float(b) = %v, %v", f, ok)
	}
	if _, ok := Float(obj, "c"); ok {
		t.Error("Float(c) should fail")
	}
	if _, ok := Float(obj, "missing"); ok {
		t.Error("Float(missing) should fail")
	}
	if !Bool(obj, "d", false) || Bool(obj, "e", true) {
		t.Error("Bool parsing mismatch")
	}
	if !Bool(obj, "missing", true) {
		t.Error("Bool should fall back to default")
	}
	if got := String(obj, "a"); got != "12.5" {
		t.Errorf("String(a) = %q", got)
	}
}

func TestNumberUnmarshal(t *testing.T) {
	var levels []struct {
		Price Number `json:"price"`
	}
	if err := json.Unmarshal([]byte(`[{"price":"0.48"},{"price":0.5},{"price":"abc"},{"price":null}]`), &levels); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []Number{0.48, 0.5, 0, 0}
	for i, l := range levels {
		if l.Price != want[i] {
			t.Errorf("level %d price = %v, want %v", i, l.Price, want[i])
		}
	}
}
