package valueobject

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRawRecord_Lookup(t *testing.T) {
	blank := "   "
	value := "Dra. Rojas"
	record := RawRecord{
		"nil":      nil,
		"empty":    "",
		"spaces":   "  ",
		"bytes":    []byte(" "),
		"ptrNil":   (*string)(nil),
		"ptrBlank": &blank,
		"ptr":      &value,
		"zero":     0,
		"text":     "ok",
	}

	tests := []struct {
		key    string
		wantOK bool
	}{
		{"missing", false},
		{"nil", false},
		{"empty", false},
		{"spaces", false},
		{"bytes", false},
		{"ptrNil", false},
		{"ptrBlank", false},
		{"ptr", true},
		{"zero", true},
		{"text", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, ok := record.Lookup(tt.key)
			if ok != tt.wantOK {
				t.Errorf("expected ok=%v, got %v", tt.wantOK, ok)
			}
		})
	}

	if v, _ := record.Lookup("ptr"); v != "Dra. Rojas" {
		t.Errorf("expected dereferenced pointer value, got %v", v)
	}
}

func TestFieldChain_FirstPresentWins(t *testing.T) {
	chain := FieldChain{"amount", "total", "precio", "monto"}

	t.Run("skips blank candidates", func(t *testing.T) {
		record := RawRecord{"amount": "", "total": nil, "precio": "19,35", "monto": 99}
		if got := chain.Float(record); got != 19.35 {
			t.Errorf("expected 19.35, got %v", got)
		}
	})

	t.Run("absent chain yields zero", func(t *testing.T) {
		if got := chain.Float(RawRecord{"other": 5}); got != 0 {
			t.Errorf("expected 0, got %v", got)
		}
	})

	t.Run("string fallback", func(t *testing.T) {
		names := FieldChain{"patient_name", "paciente"}
		if got := names.String(RawRecord{"paciente": "  Ana  "}, "Paciente General"); got != "Ana" {
			t.Errorf("expected trimmed value, got %q", got)
		}
		if got := names.String(RawRecord{}, "Paciente General"); got != "Paciente General" {
			t.Errorf("expected fallback, got %q", got)
		}
	})

	t.Run("int rounds and falls back", func(t *testing.T) {
		durations := FieldChain{"duration", "duracion"}
		if got := durations.Int(RawRecord{"duracion": "44.6"}, 30); got != 45 {
			t.Errorf("expected 45, got %d", got)
		}
		if got := durations.Int(RawRecord{"duration": "n/a"}, 30); got != 30 {
			t.Errorf("expected fallback 30, got %d", got)
		}
	})
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"float", 12.5, 12.5},
		{"int64", int64(7), 7},
		{"json number", json.Number("3.25"), 3.25},
		{"decimal", decimal.RequireFromString("150.40"), 150.40},
		{"currency string", "S/ 1,234.50", 1234.50},
		{"comma decimal", "19,35", 19.35},
		{"comma single decimal", "7,5", 7.5},
		{"comma thousands", "1,500", 1500},
		{"currency comma thousands", "S/ 2,350", 2350},
		{"millions", "1,250,000", 1250000},
		{"negative thousands", "-3,400", -3400},
		{"thousands with cents", "12,345.67", 12345.67},
		{"bad grouping", "12,34,5", 0},
		{"comma and dot misplaced", "1,23.45", 0},
		{"trailing comma", "15,", 0},
		{"bytes", []byte("42"), 42},
		{"garbage", "abc", 0},
		{"bool", true, 0},
		{"nan", math.NaN(), 0},
		{"infinity", math.Inf(1), 0},
		{"negative passes through", -8.5, -8.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToFloat(tt.input); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	if _, ok := ParseAmount("not a number"); ok {
		t.Error("expected non-numeric input to be rejected")
	}
	if _, ok := ParseAmount(math.Inf(-1)); ok {
		t.Error("expected infinity to be rejected")
	}
	if v, ok := ParseAmount("250"); !ok || v != 250 {
		t.Errorf("expected 250, got %v (ok=%v)", v, ok)
	}
}
