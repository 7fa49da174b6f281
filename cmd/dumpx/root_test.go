package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perr "dumpx/internal/platform/errors"
	"dumpx/internal/platform/testkit"
)

func dump(t *testing.T) string {
	t.Helper()
	return testkit.WriteDump(t, "Posts.xml", testkit.Dump(
		testkit.Row("Id", "1", "PostTypeId", "1", "Score", "5", "CreationDate", "2014-01-01T00:00:00.000", "Title", "five", "Tags", "&lt;algebra&gt;"),
		testkit.Row("Id", "2", "PostTypeId", "1", "Score", "10", "CreationDate", "2015-01-01T00:00:00.000", "Title", "ten", "Tags", "&lt;Calculus&gt;"),
		testkit.Row("Id", "3", "PostTypeId", "2", "Score", "15", "CreationDate", "2016-01-01T00:00:00.000"),
		testkit.Row("Id", "4", "PostTypeId", "1", "Score", "20", "CreationDate", "2017-01-01T00:00:00.000", "Title", "twenty", "Tags", "&lt;calculus&gt;&lt;homework&gt;"),
	), testkit.Plain)
}

func runCLI(t *testing.T, args ...string) (int, string) {
	t.Helper()
	testkit.Serial(t)
	var buf bytes.Buffer
	testkit.Swap[io.Writer](t, &stderr, &buf)
	return run(context.Background(), args), buf.String()
}

func TestRun_TopicsToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "topics.xml")
	code, msg := runCLI(t, dump(t), "2", "--questions-only", "--min-score", "6", "-o", out)
	if code != perr.ExitOK {
		t.Fatalf("exit = %d (%s)", code, msg)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	testkit.MustContain(t, s, `<Topic number="A.1">`)
	testkit.MustContain(t, s, "<Title>ten</Title>")
	testkit.MustContain(t, s, "<Title>twenty</Title>")
	if strings.Contains(s, "five") {
		t.Fatalf("score filter not applied:\n%s", s)
	}
}

func TestRun_FlatTagsAndYears(t *testing.T) {
	out := filepath.Join(t.TempDir(), "posts.xml")
	code, msg := runCLI(t, dump(t), "5",
		"-f", "flat", "--fields", "Id,Tags",
		"--include-tags", "CALCULUS", "--exclude-tags", "homework",
		"--years", "2014,2015", "-o", out)
	if code != perr.ExitOK {
		t.Fatalf("exit = %d (%s)", code, msg)
	}
	b, _ := os.ReadFile(out)
	s := string(b)
	testkit.MustContain(t, s, `Id="2"`)
	if strings.Contains(s, `Id="4"`) || strings.Contains(s, `Id="1"`) || strings.Contains(s, "Score=") {
		t.Fatalf("unexpected rows or fields:\n%s", s)
	}
}

func TestRun_ProfileWithFlagOverride(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "p.yaml")
	if err := os.WriteFile(profile, []byte("questions_only: true\nmin_score: 100\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "o.xml")
	code, msg := runCLI(t, dump(t), "1", "--profile", profile, "--min-score", "20", "-o", out)
	if code != perr.ExitOK {
		t.Fatalf("exit = %d (%s)", code, msg)
	}
	b, _ := os.ReadFile(out)
	testkit.MustContain(t, string(b), "<Title>twenty</Title>")
}

func TestRun_FlagReplacesProfileSwitch(t *testing.T) {
	cases := []struct {
		name    string
		profile string
		flag    string
		want    string
	}{
		{"answers-only over questions_only", "questions_only: true\n", "--answers-only", "<Answer>"},
		{"no-accepted over has_accepted", "has_accepted: true\nquestions_only: true\n", "--no-accepted", "<Title>five</Title>"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			profile := filepath.Join(dir, "p.yaml")
			if err := os.WriteFile(profile, []byte(c.profile), 0o600); err != nil {
				t.Fatal(err)
			}
			out := filepath.Join(dir, "o.xml")
			code, msg := runCLI(t, dump(t), "1", "--profile", profile, c.flag, "-o", out)
			if code != perr.ExitOK {
				t.Fatalf("exit = %d (%s)", code, msg)
			}
			b, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			testkit.MustContain(t, string(b), c.want)
		})
	}
}

func TestRun_ExitCodes(t *testing.T) {
	in := dump(t)
	out := filepath.Join(t.TempDir(), "x.xml")

	cases := []struct {
		name string
		args []string
		want int
	}{
		{"exhausted is success", []string{in, "3", "--min-score", "100", "-o", out}, perr.ExitOK},
		{"both post types", []string{in, "3", "--questions-only", "--answers-only", "-o", out}, perr.ExitUsage},
		{"zero count", []string{in, "0", "-o", out}, perr.ExitUsage},
		{"count not a number", []string{in, "many", "-o", out}, perr.ExitUsage},
		{"missing args", []string{in}, perr.ExitUsage},
		{"unknown flag", []string{in, "3", "--bogus"}, perr.ExitUsage},
		{"bad years", []string{in, "3", "--years", "2015,soon", "-o", out}, perr.ExitUsage},
		{"missing input", []string{filepath.Join(t.TempDir(), "nope.xml"), "3", "-o", out}, perr.ExitUsage},
		{"unknown format", []string{in, "3", "-f", "csv", "-o", out}, perr.ExitUsage},
		{"fields with topics", []string{in, "3", "--fields", "Id", "-o", out}, perr.ExitUsage},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, msg := runCLI(t, c.args...)
			if code != c.want {
				t.Fatalf("exit = %d, want %d (%s)", code, c.want, msg)
			}
			if c.want != perr.ExitOK && !strings.HasPrefix(msg, "dumpx: ") {
				t.Fatalf("error not reported on stderr: %q", msg)
			}
		})
	}
}

func TestRun_BrokenInputWritesNothing(t *testing.T) {
	in := testkit.WriteDump(t, "bad.xml", `<posts><row Id="1" Score="3"/><row Id=`, testkit.Plain)
	out := filepath.Join(t.TempDir(), "x.xml")
	code, _ := runCLI(t, in, "5", "-o", out)
	if code != perr.ExitFailed {
		t.Fatalf("exit = %d, want %d", code, perr.ExitFailed)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output should not exist, stat err = %v", err)
	}
}
