package sizefmt

import "testing"

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "zero", n: 0, want: "0 B"},
		{name: "bytes", n: 512, want: "512 B"},
		{name: "kilobyte boundary", n: 1024, want: "1 KB"},
		{name: "fractional kilobytes", n: 1536, want: "1.5 KB"},
		{name: "megabytes", n: 5 << 20, want: "5 MB"},
		{name: "fractional megabytes", n: 1572864, want: "1.5 MB"},
		{name: "gigabytes", n: 3 << 30, want: "3 GB"},
		{name: "terabyte cap", n: 2 << 40, want: "2 TB"},
		{name: "negative clamps to zero", n: -42, want: "0 B"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Format(tt.n); got != tt.want {
				t.Errorf("Format(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "numeric string formatted", input: "1572864", want: "1.5 MB"},
		{name: "pre-formatted passthrough", input: "3.4 MB", want: "3.4 MB"},
		{name: "empty passthrough", input: "", want: ""},
		{name: "garbage passthrough", input: "abc", want: "abc"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatString(tt.input); got != tt.want {
				t.Errorf("FormatString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
