package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestAnswerValueUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		data string
		want AnswerValue
	}{
		{"string", `"hello"`, StringAnswer("hello")},
		{"numeric string stays string", `"4"`, StringAnswer("4")},
		{"integer", `4`, NumberAnswer(4)},
		{"float", `4.5`, NumberAnswer(4.5)},
		{"bool true", `true`, BoolAnswer(true)},
		{"bool false", `false`, BoolAnswer(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got AnswerValue
			if err := json.Unmarshal([]byte(tt.data), &got); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.data, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.data, got, tt.want)
			}
		})
	}

	var v AnswerValue
	if err := json.Unmarshal([]byte(`{"nested":1}`), &v); err == nil {
		t.Error("objects must be rejected as answer values")
	}
}

func TestAnswerValueString(t *testing.T) {
	tests := []struct {
		name  string
		value AnswerValue
		want  string
	}{
		{"plain string", StringAnswer("agree"), "agree"},
		{"integer drops decimals", NumberAnswer(4), "4"},
		{"float keeps precision", NumberAnswer(4.5), "4.5"},
		{"bool", BoolAnswer(true), "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnswerValueFloat(t *testing.T) {
	tests := []struct {
		name   string
		value  AnswerValue
		want   float64
		wantOK bool
	}{
		{"number", NumberAnswer(4.5), 4.5, true},
		{"numeric string", StringAnswer("4"), 4, true},
		{"padded numeric string", StringAnswer("  3.5 "), 3.5, true},
		{"text", StringAnswer("agree"), 0, false},
		{"empty", StringAnswer(""), 0, false},
		{"nan", NumberAnswer(math.NaN()), 0, false},
		{"inf", NumberAnswer(math.Inf(1)), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Float()
			if ok != tt.wantOK {
				t.Fatalf("Float() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Float() = %f, want %f", got, tt.want)
			}
		})
	}

	// bool 走字符串化路径："true" 不是数值
	if _, ok := BoolAnswer(true).Float(); ok {
		t.Error("boolean answers must not parse as numbers")
	}
}

func TestAnswerValueScanRoundTrip(t *testing.T) {
	v := NumberAnswer(4.5)
	stored, err := v.Value()
	if err != nil {
		t.Fatalf("Value(): %v", err)
	}

	var scanned AnswerValue
	if err := scanned.Scan(stored); err != nil {
		t.Fatalf("Scan(): %v", err)
	}

	// 落库后类型标签不还原，但字符串形式和数值解析结果一致
	if scanned.String() != v.String() {
		t.Errorf("String() after scan = %q, want %q", scanned.String(), v.String())
	}
	f, ok := scanned.Float()
	if !ok || f != 4.5 {
		t.Errorf("Float() after scan = %f/%v, want 4.5/true", f, ok)
	}
}

func TestMakeCompositeKey(t *testing.T) {
	if got := MakeCompositeKey("v1", "q1"); got != "v1_q1" {
		t.Errorf("MakeCompositeKey = %q, want v1_q1", got)
	}

	// 同题号不同视频必须是不同键
	if MakeCompositeKey("v1", "q1") == MakeCompositeKey("v2", "q1") {
		t.Error("composite keys must be distinct across videos")
	}
}
