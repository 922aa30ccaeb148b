package types

import (
	"errors"
	"math/big"
	"testing"

	"github.com/goccy/go-json"
)

func TestNewWad(t *testing.T) {
	tests := []struct {
		name    string
		value   *big.Int
		wantErr bool
	}{
		{
			name:    "zero",
			value:   big.NewInt(0),
			wantErr: false,
		},
		{
			name:    "positive",
			value:   big.NewInt(100),
			wantErr: false,
		},
		{
			name:    "negative",
			value:   big.NewInt(-1),
			wantErr: true,
		},
		{
			name:    "nil",
			value:   nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWad(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewWad() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && w.Int().Cmp(tt.value) != 0 {
				t.Errorf("NewWad() value = %s, want %s", w.Int(), tt.value)
			}
		})
	}
}

func TestWad_Immutability(t *testing.T) {
	value := big.NewInt(100)
	w := MustWad(value)

	// Mutating the input must not affect the Wad.
	value.SetInt64(999)
	if w.Int().Int64() != 100 {
		t.Errorf("Wad changed after input mutation: %s", w.Int())
	}

	// Mutating the accessor result must not affect the Wad.
	w.Int().SetInt64(7)
	if w.Int().Int64() != 100 {
		t.Errorf("Wad changed after accessor mutation: %s", w.Int())
	}
}

func TestWad_Sub(t *testing.T) {
	a := MustWad(big.NewInt(100))
	b := MustWad(big.NewInt(30))

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub() failed: %v", err)
	}
	if diff.Int().Int64() != 70 {
		t.Errorf("Sub() = %s, want 70", diff.Int())
	}

	_, err = b.Sub(a)
	if !errors.Is(err, ErrNegativeWad) {
		t.Errorf("Sub() underflow error = %v, want ErrNegativeWad", err)
	}
}

func TestWad_ZeroValue(t *testing.T) {
	var w Wad

	if !w.IsZero() {
		t.Error("zero-value Wad should be zero")
	}
	if w.Int().Sign() != 0 {
		t.Errorf("zero-value Wad Int() = %s, want 0", w.Int())
	}
	if !w.Equal(MustWad(big.NewInt(0))) {
		t.Error("zero-value Wad should equal explicit zero")
	}
}

func TestWad_String(t *testing.T) {
	tests := []struct {
		name  string
		value *big.Int
		want  string
	}{
		{
			name:  "one_eth",
			value: new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil),
			want:  "1.000000000000000000",
		},
		{
			name:  "small",
			value: big.NewInt(100),
			want:  "0.000000000000000100",
		},
		{
			name:  "zero",
			value: big.NewInt(0),
			want:  "0.000000000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustWad(tt.value).String()
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWad_JSON(t *testing.T) {
	w := MustWad(big.NewInt(100))

	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if string(data) != "100" {
		t.Errorf("Marshal() = %s, want bare number 100", data)
	}

	var back Wad
	err = json.Unmarshal(data, &back)
	if err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if !back.Equal(w) {
		t.Errorf("round-trip = %s, want %s", back.Int(), w.Int())
	}

	err = json.Unmarshal([]byte("-5"), &back)
	if err == nil {
		t.Error("Unmarshal() accepted a negative value")
	}
}
