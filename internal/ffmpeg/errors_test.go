package ffmpeg

import (
	"testing"
)

func TestTail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			n:     5,
			want:  "",
		},
		{
			name:  "fewer lines than n",
			input: "one\ntwo",
			n:     5,
			want:  "one\ntwo",
		},
		{
			name:  "more lines than n",
			input: "one\ntwo\nthree\nfour",
			n:     2,
			want:  "three\nfour",
		},
		{
			name:  "trailing newline ignored",
			input: "one\ntwo\n",
			n:     2,
			want:  "one\ntwo",
		},
		{
			name:  "blank lines skipped",
			input: "one\n\n\ntwo\n\nthree",
			n:     2,
			want:  "two\nthree",
		},
		{
			name:  "zero n",
			input: "one\ntwo",
			n:     0,
			want:  "",
		},
		{
			name:  "negative n",
			input: "one",
			n:     -1,
			want:  "",
		},
		{
			name:  "only blank lines",
			input: "\n\n\n",
			n:     3,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tail(tt.input, tt.n)
			if got != tt.want {
				t.Errorf("Tail(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
			}
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	err := &ExitError{Code: 187, Tail: "some diagnostics"}

	want := "conversion failed with exit code 187"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
