package core

import "testing"

func TestParseScore(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Score
	}{
		{name: "single digit", input: "4", want: Present(4)},
		{name: "two digits", input: "12", want: Present(12)},
		{name: "zero is a score", input: "0", want: Present(0)},
		{name: "out of range still accepted", input: "27", want: Present(27)},
		{name: "leading zero", input: "07", want: Present(7)},
		{name: "full-width digits", input: "７２", want: Present(72)},

		{name: "question mark", input: "?", want: Missing},
		{name: "empty", input: "", want: Missing},
		{name: "dash", input: "-", want: Missing},
		{name: "negative", input: "-4", want: Missing},
		{name: "plus sign", input: "+4", want: Missing},
		{name: "trailing period", input: "8.", want: Missing},
		{name: "letter misread", input: "l4", want: Missing},
		{name: "arabic-indic digit", input: "٤", want: Missing},
		{name: "overflow", input: "99999999999999999999999", want: Missing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseScore(tt.input); got != tt.want {
				t.Errorf("ParseScore(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsPlayerName(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Alice", true},
		{"José", true},
		{"O'Brien", true},
		{"J3", true},
		{"Łukasz", true},
		{"42", false},
		{"?", false},
		{"--", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsPlayerName(tt.input); got != tt.want {
			t.Errorf("IsPlayerName(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestScore_String(t *testing.T) {
	if got := Present(5).String(); got != "5" {
		t.Errorf("Present(5).String() = %q", got)
	}
	if got := Missing.String(); got != MissingMarker {
		t.Errorf("Missing.String() = %q, want %q", got, MissingMarker)
	}
}

func TestScore_JSON(t *testing.T) {
	b, err := Missing.MarshalJSON()
	if err != nil || string(b) != "null" {
		t.Errorf("Missing.MarshalJSON() = %s, %v", b, err)
	}

	var s Score
	if err := s.UnmarshalJSON([]byte("0")); err != nil {
		t.Fatalf("UnmarshalJSON(0): %v", err)
	}
	if s != Present(0) {
		t.Errorf("UnmarshalJSON(0) = %+v, want present zero", s)
	}

	if err := s.UnmarshalJSON([]byte("null")); err != nil {
		t.Fatalf("UnmarshalJSON(null): %v", err)
	}
	if s.Valid {
		t.Error("UnmarshalJSON(null) should be missing")
	}

	if err := s.UnmarshalJSON([]byte(`"4"`)); err == nil {
		t.Error("UnmarshalJSON of a string should fail")
	}
}

func TestScore_SQL(t *testing.T) {
	v, err := Missing.Value()
	if err != nil || v != nil {
		t.Errorf("Missing.Value() = %v, %v; want nil", v, err)
	}
	v, _ = Present(3).Value()
	if v != int64(3) {
		t.Errorf("Present(3).Value() = %v", v)
	}
	if s := Present(3); s.Int != 3 || !s.Valid {
		t.Errorf("Present(3) = %+v, want Int 3 and Valid", s)
	}

	tests := []struct {
		src  any
		want Score
	}{
		{nil, Missing},
		{int64(5), Present(5)},
		{int32(6), Present(6)},
		{[]byte("7"), Present(7)},
	}
	for _, tt := range tests {
		var s Score
		if err := s.Scan(tt.src); err != nil {
			t.Errorf("Scan(%v): %v", tt.src, err)
			continue
		}
		if s != tt.want {
			t.Errorf("Scan(%v) = %+v, want %+v", tt.src, s, tt.want)
		}
	}

	var s Score
	if err := s.Scan("x"); err == nil {
		t.Error("Scan(string) should fail")
	}
}
