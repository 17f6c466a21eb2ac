package bytesize

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  ByteSize
	}{
		{"1024", 1024},
		{"1048576", 1048576},
		{"1Ki", 1024},
		{"1Mi", 1024 * 1024},
		{"1MiB", 1024 * 1024},
		{"2Gi", 2 * 1024 * 1024 * 1024},
		{"1MB", 1000 * 1000},
		{"500Ki", 500 * 1024},
		{"0", 0},
		{" 64 Ki ", 64 * 1024},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1Xi", "-5", "1.2.3Mi"} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", input)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		size ByteSize
		want string
	}{
		{1024, "1Ki"},
		{1048576, "1Mi"},
		{2 * GiB, "2Gi"},
		{1500, "1500"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := tt.size.String(); got != tt.want {
			t.Errorf("ByteSize(%d).String() = %q, want %q", uint64(tt.size), got, tt.want)
		}
	}
}

func TestRoundTripText(t *testing.T) {
	var b ByteSize
	if err := b.UnmarshalText([]byte("16Mi")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if b != 16*MiB {
		t.Errorf("UnmarshalText = %d, want %d", b, 16*MiB)
	}

	text, err := b.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(text) != "16Mi" {
		t.Errorf("MarshalText = %q, want %q", text, "16Mi")
	}
}
