package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "FirstExample", input: "4 1\n30 3 7 20\n", want: "10 30\n"},
		{name: "SecondExample", input: "2 2\n4 6\n", want: "2 2\n"},
		{
			name:  "DecreasingCapacities",
			input: "10 7\n100000000 99999999 10000000 1000000 900000 90000 9000 800 80 777\n",
			want:  "61 14285714\n",
		},
		{name: "SingleTank", input: "1 1\n1\n", want: "1 1\n"},
		{name: "FastInflow", input: "1 100000\n1\n", want: "0 0\n"},
		{name: "TokensAcrossLines", input: "5\n7\n7 7\n7\n7 7", want: "1 1\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			code := run(strings.NewReader(tc.input), &stdout, &stderr, zaptest.NewLogger(t))
			if code != 0 {
				t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr.String())
			}
			if stdout.String() != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, stdout.String())
			}
			if stderr.Len() != 0 {
				t.Fatalf("expected empty stderr, got %q", stderr.String())
			}
		})
	}
}

func TestRunLargestInput(t *testing.T) {
	t.Parallel()

	var in strings.Builder
	in.WriteString("100000 100000\n")
	for i := 0; i < 100_000; i++ {
		in.WriteString("1000000000 ")
	}

	var stdout, stderr bytes.Buffer
	if code := run(strings.NewReader(in.String()), &stdout, &stderr, zaptest.NewLogger(t)); code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr.String())
	}
	if stdout.String() != "10000 10000\n" {
		t.Fatalf("unexpected output %q", stdout.String())
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{name: "Empty", input: "", contains: []string{"expected at least tank count and inflow rate"}},
		{name: "ZeroTanks", input: "0 1", contains: []string{"tankCount=0"}},
		{name: "TooManyTanks", input: "100001 1", contains: []string{"tankCount=100001"}},
		{name: "ZeroInflow", input: "1 0 1", contains: []string{"inflowRate=0"}},
		{name: "InflowTooHigh", input: "1 100001 1", contains: []string{"inflowRate=100001"}},
		{name: "CountMismatch", input: "3 1 1 1", contains: []string{"expected 3 capacities, got 2"}},
		{name: "ZeroCapacity", input: "1 1 0", contains: []string{"capacity[0]=0"}},
		{name: "CapacityTooLarge", input: "1 1 1000000001", contains: []string{"capacity[0]=1000000001"}},
		{
			name:  "AggregatesViolations",
			input: "two 0 1 x",
			contains: []string{
				`tankCount must be an integer (got "two")`,
				"inflowRate=0",
				`capacity[1] must be an integer (got "x")`,
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			code := run(strings.NewReader(tc.input), &stdout, &stderr, zaptest.NewLogger(t))
			if code == 0 {
				t.Fatalf("expected non-zero exit status")
			}
			if stdout.Len() != 0 {
				t.Fatalf("expected no output on failure, got %q", stdout.String())
			}
			msg := stderr.String()
			if !strings.HasPrefix(msg, "Input error: input validation failed:") {
				t.Fatalf("unexpected error prefix %q", msg)
			}
			for _, want := range tc.contains {
				if !strings.Contains(msg, want) {
					t.Fatalf("expected %q in %q", want, msg)
				}
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed pipe")
}

func TestRunReportsWriteFailure(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	if code := run(strings.NewReader("1 1 1"), failingWriter{}, &stderr, zaptest.NewLogger(t)); code != 1 {
		t.Fatalf("expected exit 1 on write failure, got %d", code)
	}
}

func TestReadTokens(t *testing.T) {
	t.Parallel()

	got, err := readTokens(strings.NewReader(" 4\t1\r\n30  3\n7 20 \n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"4", "1", "30", "3", "7", "20"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
