package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/blindcard/pkg/buildinfo"
	"github.com/matzehuels/blindcard/pkg/letter"
)

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv(configEnv, "")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

// testConfig writes a config that renders with the canvas and embedded fonts.
func testConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blindcard.toml")
	body := "[render]\nrasterizer = \"canvas\"\n\n[fonts]\nskip_system = true\n\n" + extra
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

var testRecord = letter.Record{From: "지민", To: "서연", Message: "생일 축하해"}

func TestEncodeQuiet(t *testing.T) {
	out, _, err := run(t, "encode", "--from", "지민", "--to", "서연", "-q", "생일", "축하해")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := letter.Encode(testRecord) + "\n"; out != want {
		t.Errorf("encode output = %q, want %q", out, want)
	}
}

func TestEncodeURLs(t *testing.T) {
	out, _, err := run(t, "encode", "--base-url", "https://cards.example/", "-m", "고마워", "--theme", "rose")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	token := letter.Encode(letter.Record{Message: "고마워", Theme: "rose"})
	for _, want := range []string{
		token,
		"https://cards.example/blind?d=" + token,
		"https://cards.example/api/blind/og/" + token,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, _, err := run(t, "encode", "--from", "a"); err == nil {
		t.Error("encode without message: want error")
	}
	if _, _, err := run(t, "encode", "-m", strings.Repeat("가", 2001)); err == nil {
		t.Error("encode with oversized message: want error")
	}
}

func TestDecodeJSON(t *testing.T) {
	out, _, err := run(t, "decode", "--json", letter.Encode(testRecord))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var got decodedLetter
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if got.Record != testRecord {
		t.Errorf("record = %+v, want %+v", got.Record, testRecord)
	}
	if got.Header != "지민님이 서연님에게" {
		t.Errorf("header = %q", got.Header)
	}
	if got.Masked != "■일 ■■■" {
		t.Errorf("masked = %q", got.Masked)
	}
}

func TestDecodeText(t *testing.T) {
	out, _, err := run(t, "decode", letter.Encode(testRecord))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, want := range []string{"지민님이 서연님에게", "■일 ■■■", "생일 축하해"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDecodeNotFound(t *testing.T) {
	for _, token := range []string{"garbage!", letter.Encode(letter.Record{From: "a"})} {
		_, _, err := run(t, "decode", token)
		if err != errNotFound {
			t.Errorf("decode %q error = %v, want %v", token, err, errNotFound)
		}
	}
}

func TestReveal(t *testing.T) {
	out, _, err := run(t, "reveal", "hello", "world")
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	for _, want := range []string{"■■■l■ ■■r■■", "2 of 11 characters"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "longer than") {
		t.Errorf("short message reported as truncated:\n%s", out)
	}
}

func TestRevealTruncated(t *testing.T) {
	msg := strings.TrimSpace(strings.Repeat("가나다라마바사 ", 30))
	out, _, err := run(t, "reveal", "--variant", "interactive", msg)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if !strings.Contains(out, "longer than 5 lines") {
		t.Errorf("output missing truncation warning:\n%s", out)
	}
}

func TestRevealUnknownVariant(t *testing.T) {
	if _, _, err := run(t, "reveal", "--variant", "poster", "hi"); err == nil {
		t.Error("reveal with unknown variant: want error")
	}
}

func TestRenderFiles(t *testing.T) {
	cfg := testConfig(t, "")
	token := letter.Encode(testRecord)
	dir := t.TempDir()

	tests := []struct {
		format string
		prefix string
	}{
		{"png", "\x89PNG"},
		{"svg", "<svg"},
		{"json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(dir, "card."+tt.format)
			out, _, err := run(t, "render", token, "--config", cfg, "--format", tt.format, "-o", path, "--no-cache")
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, []byte(tt.prefix)) {
				t.Errorf("file starts with %.10q, want %q", data, tt.prefix)
			}
			if !strings.Contains(out, path) {
				t.Errorf("output does not name the file:\n%s", out)
			}
		})
	}
}

func TestRenderDataURLToStdout(t *testing.T) {
	cfg := testConfig(t, "")
	out, _, err := run(t, "render", letter.Encode(testRecord), "--config", cfg,
		"--variant", "interactive", "--backend", "canvas", "--format", "dataurl", "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "data:image/png;base64,") {
		t.Errorf("stdout = %.40q, want data URL", out)
	}
}

func TestRenderPlaceholderWarning(t *testing.T) {
	cfg := testConfig(t, "")
	path := filepath.Join(t.TempDir(), "card.svg")
	_, errOut, err := run(t, "render", "not-a-token", "--config", cfg, "-f", "svg", "-o", path, "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(errOut, "placeholder") {
		t.Errorf("stderr missing placeholder warning:\n%s", errOut)
	}
}

func TestRenderInvalidOptions(t *testing.T) {
	cfg := testConfig(t, "")
	token := letter.Encode(testRecord)
	for _, args := range [][]string{
		{"--format", "gif"},
		{"--backend", "canvas", "--format", "svg"},
		{"--variant", "poster"},
	} {
		full := append([]string{"render", token, "--config", cfg, "--no-cache", "-o", filepath.Join(t.TempDir(), "x")}, args...)
		if _, _, err := run(t, full...); err == nil {
			t.Errorf("render %v: want error", args)
		}
	}
}

func TestRenderCacheAndClear(t *testing.T) {
	cacheDir := t.TempDir()
	cfg := testConfig(t, "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n")
	token := letter.Encode(testRecord)
	path := filepath.Join(t.TempDir(), "card.svg")

	first, _, err := run(t, "render", token, "--config", cfg, "-f", "svg", "-o", path)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	if !strings.Contains(first, iconFresh) {
		t.Errorf("first render not fresh:\n%s", first)
	}

	second, _, err := run(t, "render", token, "--config", cfg, "-f", "svg", "-o", path)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !strings.Contains(second, iconCached) {
		t.Errorf("second render not cached:\n%s", second)
	}

	out, _, err := run(t, "cache", "path", "--config", cfg)
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(cacheDir) {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), cacheDir)
	}

	out, _, err = run(t, "cache", "clear", "--config", cfg)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output:\n%s", out)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, _, err := run(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s does not mention %s", shell, appName)
		}
	}
	if _, _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh: want error")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, buildinfo.Version) {
		t.Errorf("--version output = %q, want %q", out, buildinfo.Version)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte(`log_level = "loud"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "render", "x", "--config", path); err == nil {
		t.Error("render with invalid config: want error")
	}
}
