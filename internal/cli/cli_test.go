package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/depgraph/pkg/dag/transform"
	deperrors "github.com/matzehuels/depgraph/pkg/errors"
	depio "github.com/matzehuels/depgraph/pkg/io"
	"github.com/matzehuels/depgraph/pkg/match"
	"github.com/matzehuels/depgraph/pkg/observability"
)

const sampleFile = `digraph {
"eal" [dpdk_componentType="lib"]
"ring" -> { "eal" } [dpdk_componentType="lib"]
"ethdev" -> { "ring", "eal" } [dpdk_componentType="lib"]
"net_ice" -> { "ethdev" } [dpdk_componentType="drivers"]
"net_iavf" -> { "ethdev" } [dpdk_componentType="drivers"]
"common_iavf" -> { "eal" } [dpdk_componentType="drivers"]
"dpdk-testpmd" -> { "net_ice" } [dpdk_componentType="app"]
}
`

// isolate points the config and cache directories at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

type result struct {
	stdout string
	stderr string
	log    string
	err    error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Cleanup(observability.Reset)

	var out, errOut, logOut bytes.Buffer
	c := New(&logOut, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return result{out.String(), errOut.String(), logOut.String(), err}
}

func writeSample(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "deps.dot")
	if err := os.WriteFile(path, []byte(sampleFile), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// =============================================================================
// append
// =============================================================================

func TestAppend(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "deps.dot")

	calls := [][]string{
		{"append", "--type", "lib", path, "eal"},
		{"append", "--type", "lib", path, "ring", "eal"},
		{"append", "--type", "drivers", "--optional", "--display-name", "ice", path, "net_ice", "ring"},
	}
	for _, args := range calls {
		if r := run(t, "", args...); r.err != nil {
			t.Fatalf("%v: %v", args, r.err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "digraph {\n" +
		`"eal" [dpdk_componentType="lib"]` + "\n" +
		`"ring" -> { "eal" } [dpdk_componentType="lib"]` + "\n" +
		`"net_ice" -> { "ring" } [dpdk_componentType="drivers",style="dotted",dpdk_displayName="ice"]` + "\n" +
		"}\n"
	if string(data) != want {
		t.Errorf("graph file =\n%s\nwant\n%s", data, want)
	}

	if r := run(t, "", "append", "--reset", path); r.err != nil {
		t.Fatalf("reset: %v", r.err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file should be deleted after reset, stat error = %v", err)
	}
	if r := run(t, "", "append", "--reset", path); r.err != nil {
		t.Errorf("reset of a missing file: %v", r.err)
	}
}

func TestAppend_Errors(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "deps.dot")

	tests := []struct {
		name string
		args []string
	}{
		{"missing type", []string{"append", path, "eal"}},
		{"missing component", []string{"append", "--type", "lib", path}},
		{"bad name", []string{"append", "--type", "lib", path, `e"al`}},
		{"reset extra args", []string{"append", "--reset", path, "eal"}},
		{"flags without file", []string{"append", "--type", "lib"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r := run(t, "", tt.args...); r.err == nil {
				t.Errorf("%v: want error", tt.args)
			}
		})
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("failed appends should not create the file")
	}
}

func TestAppend_BuildRoot(t *testing.T) {
	dir := isolate(t)
	t.Setenv(buildRootEnv, dir)

	if r := run(t, "", "append", "--type", "lib", "-", "eal"); r.err != nil {
		t.Fatal(r.err)
	}
	if _, err := os.Stat(filepath.Join(dir, "deps.dot")); err != nil {
		t.Errorf("deps.dot not created in build root: %v", err)
	}

	if r := run(t, "", "append"); r.err != nil {
		t.Fatalf("append without arguments: %v", r.err)
	}
	if _, err := os.Stat(filepath.Join(dir, "deps.dot")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("append without arguments should delete deps.dot, stat error = %v", err)
	}

	t.Setenv(buildRootEnv, "")
	if r := run(t, "", "append", "--type", "lib", "-", "eal"); r.err == nil {
		t.Error("want error when the build root is unset")
	}
	if r := run(t, "", "append"); r.err == nil {
		t.Error("want error for a bare reset when the build root is unset")
	}
}

// =============================================================================
// draw
// =============================================================================

func TestDraw(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)

	r := run(t, "", "draw", "--match", "net/ice", input)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !strings.HasPrefix(r.stdout, "digraph dpdk_dependencies {") {
		t.Errorf("stdout is not classified DOT:\n%s", r.stdout)
	}
	for _, want := range []string{`"net_ice" -> { "ethdev" }`, `"ethdev" -> { "ring", "eal" }`, `label = "drivers"`} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, r.stdout)
		}
	}
	for _, absent := range []string{"testpmd", "iavf"} {
		if strings.Contains(r.stdout, absent) {
			t.Errorf("stdout contains %q outside the closure", absent)
		}
	}
}

func TestDraw_ToFile(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)
	output := filepath.Join(dir, "ring.json")

	r := run(t, "", "draw", "-m", "ring", input, output)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if r.stdout != "" {
		t.Errorf("stdout = %q, want nothing", r.stdout)
	}
	if !strings.Contains(r.stderr, "Wrote json graph") || !strings.Contains(r.stderr, "2 components") {
		t.Errorf("stderr = %q", r.stderr)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, err := depio.ReadJSON(f)
	if err != nil {
		t.Fatalf("output is not a JSON graph: %v", err)
	}
	if g.ComponentCount() != 2 {
		t.Errorf("components = %d, want 2", g.ComponentCount())
	}
}

func TestDraw_Stdin(t *testing.T) {
	isolate(t)
	r := run(t, sampleFile, "draw", "--format", "raw", "--match", "ring", "-")
	if r.err != nil {
		t.Fatal(r.err)
	}
	want := "digraph {\n" +
		`"eal" [dpdk_componentType="lib"]` + "\n" +
		`"ring" -> { "eal" } [dpdk_componentType="lib"]` + "\n" +
		"}\n"
	if r.stdout != want {
		t.Errorf("stdout =\n%s\nwant\n%s", r.stdout, want)
	}
}

func TestDraw_UnknownComponent(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)
	output := filepath.Join(dir, "out.dot")

	r := run(t, "", "draw", "--match", "iavf", input, output)
	var uce *match.UnknownComponentError
	if !errors.As(r.err, &uce) {
		t.Fatalf("error = %v, want *match.UnknownComponentError", r.err)
	}
	if !strings.Contains(uce.Reason, "ambiguous") {
		t.Errorf("reason = %q", uce.Reason)
	}
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Error("no output should be written when the query fails")
	}
}

func TestDraw_SVGCached(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)
	output := filepath.Join(dir, "ice.svg")

	first := run(t, "", "draw", "-m", "net/ice", input, output)
	if first.err != nil {
		t.Fatal(first.err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("output is not SVG: %.80s", data)
	}
	if !strings.Contains(first.stderr, "fresh") {
		t.Errorf("first draw should render: %q", first.stderr)
	}

	second := run(t, "", "draw", "-m", "net/ice", input, output)
	if second.err != nil {
		t.Fatal(second.err)
	}
	if !strings.Contains(second.stderr, "cached") {
		t.Errorf("second draw should hit the cache: %q", second.stderr)
	}

	info := run(t, "", "cache", "info")
	if info.err != nil || !strings.Contains(info.stdout, "Entries") {
		t.Errorf("cache info = %q, %v", info.stdout, info.err)
	}
	cleared := run(t, "", "cache", "clear")
	if cleared.err != nil || !strings.Contains(cleared.stdout, "Cleared 1 cached entries") {
		t.Errorf("cache clear = %q, %v", cleared.stdout, cleared.err)
	}
}

func TestDraw_BadOptions(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)

	for _, args := range [][]string{
		{"draw", "--format", "gif", input},
		{"draw", "--format", "svg", "--layout", "spiral", input},
		{"draw", "--scale", "-1", "--format", "png", input},
	} {
		r := run(t, "", args...)
		if r.err == nil {
			t.Errorf("%v: want error", args)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"-", ""},
		{"out", ""},
		{"out.dot", "dot"},
		{"out.gv", "dot"},
		{"out.SVG", "svg"},
		{"out.png", "png"},
		{"out.pdf", "pdf"},
		{"out.json", "json"},
		{"out.txt", ""},
	}
	for _, tt := range tests {
		if got := formatFromPath(tt.path); got != tt.want {
			t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// =============================================================================
// match
// =============================================================================

func TestMatch(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"match", input, "ice"}, "net_ice\n"},
		{[]string{"match", input, "drivers/net"}, "net_ice\nnet_iavf\n"},
		{[]string{"match", input, "testpmd"}, "dpdk-testpmd\n"},
		{[]string{"match", "--closure", input, "ring"}, "eal\nring\n"},
	}
	for _, tt := range tests {
		r := run(t, "", tt.args...)
		if r.err != nil {
			t.Errorf("%v: %v", tt.args, r.err)
			continue
		}
		if r.stdout != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, r.stdout, tt.want)
		}
	}

	r := run(t, "", "match", input, "nope")
	if !deperrors.Is(r.err, deperrors.ErrCodeUnknownComponent) {
		t.Errorf("unknown query error = %v", r.err)
	}
}

// =============================================================================
// check
// =============================================================================

func TestCheck(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)

	r := run(t, "", "check", input)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if r.stdout != "ethdev: extra deps eal\n" {
		t.Errorf("text report = %q", r.stdout)
	}

	r = run(t, "", "check", "--format", "json", input)
	if r.err != nil {
		t.Fatal(r.err)
	}
	var report transform.Report
	if err := json.Unmarshal([]byte(r.stdout), &report); err != nil {
		t.Fatalf("json report: %v\n%s", err, r.stdout)
	}
	if report.Components != 7 || report.RedundantEdges != 1 || len(report.Findings) != 1 {
		t.Errorf("report = %+v", report)
	}

	r = run(t, "", "check", "--format", "yaml", input)
	if r.err != nil {
		t.Fatal(r.err)
	}
	for _, want := range []string{"redundant_edges: 1", "component: ethdev", "- eal"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("yaml report missing %q:\n%s", want, r.stdout)
		}
	}

	r = run(t, "", "check", "--format", "table", input)
	if r.err != nil {
		t.Fatal(r.err)
	}
	for _, want := range []string{"COMPONENT", "ethdev", "7 components", "1 redundant"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("table report missing %q:\n%s", want, r.stdout)
		}
	}

	r = run(t, "", "check", "--match", "ring", input)
	if r.err != nil || r.stdout != "" {
		t.Errorf("check of a clean selection = %q, %v", r.stdout, r.err)
	}

	r = run(t, "", "check", "--format", "xml", input)
	if !deperrors.Is(r.err, deperrors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", r.err)
	}
}

func TestCheck_Fix(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)
	fixed := filepath.Join(dir, "reduced.dot")

	r := run(t, "", "check", "--fix", fixed, input)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !strings.Contains(r.stderr, "Removed 1 redundant dependencies") {
		t.Errorf("stderr = %q", r.stderr)
	}

	r = run(t, "", "check", fixed)
	if r.err != nil || r.stdout != "" {
		t.Errorf("reduced graph still has findings: %q, %v", r.stdout, r.err)
	}
	g, err := depio.ImportGraph(fixed)
	if err != nil {
		t.Fatal(err)
	}
	if g.ComponentCount() != 7 || g.EdgeCount() != 6 {
		t.Errorf("reduced graph = %d components, %d edges; want 7, 6", g.ComponentCount(), g.EdgeCount())
	}
}

func TestCheck_FixWithMatchKeepsWholeGraph(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)
	fixed := filepath.Join(dir, "reduced.dot")

	r := run(t, "", "check", "--match", "ring", "--fix", fixed, input)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if r.stdout != "" {
		t.Errorf("report of a clean selection = %q", r.stdout)
	}
	g, err := depio.ImportGraph(fixed)
	if err != nil {
		t.Fatal(err)
	}
	if g.ComponentCount() != 7 || g.EdgeCount() != 6 {
		t.Errorf("reduced graph = %d components, %d edges; want 7, 6", g.ComponentCount(), g.EdgeCount())
	}
	if !strings.Contains(r.stderr, "Removed 1 redundant dependencies") {
		t.Errorf("stderr = %q", r.stderr)
	}
}

func TestWriteReportTable(t *testing.T) {
	report := transform.Report{
		Components:     3,
		Edges:          3,
		RedundantEdges: 1,
		Findings:       []transform.Finding{{Component: "ethdev", Type: "lib", Redundant: []string{"eal"}}},
	}
	var buf bytes.Buffer
	if err := writeReportTable(&buf, report); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("table written to a non-terminal contains escape codes:\n%q", out)
	}
	for _, want := range []string{"COMPONENT", "ethdev", "3 components", "3 edges", "1 redundant"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestCheck_Cycle(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "cycle.dot")
	cyclic := `"a" -> { "b" } [dpdk_componentType="lib"]` + "\n" +
		`"b" -> { "a" } [dpdk_componentType="lib"]` + "\n"
	if err := os.WriteFile(input, []byte(cyclic), 0o644); err != nil {
		t.Fatal(err)
	}

	r := run(t, "", "check", input)
	var ce *transform.CycleError
	if !errors.As(r.err, &ce) {
		t.Fatalf("error = %v, want *transform.CycleError", r.err)
	}
}

// =============================================================================
// configuration, cache, misc
// =============================================================================

func TestConfigFile(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)

	cfg := filepath.Join(dir, "depgraph.toml")
	if err := os.WriteFile(cfg, []byte("[render]\nformat = \"raw\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := run(t, "", "--config", cfg, "draw", "-m", "eal", input)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !strings.HasPrefix(r.stdout, "digraph {\n") {
		t.Errorf("configured format not applied:\n%s", r.stdout)
	}

	r = run(t, "", "--config", cfg, "draw", "-m", "eal", "--format", "dot", input)
	if r.err != nil || !strings.HasPrefix(r.stdout, "digraph dpdk_dependencies {") {
		t.Errorf("flag should override config: %v\n%s", r.err, r.stdout)
	}

	if err := os.WriteFile(cfg, []byte("[render]\ncolour = \"red\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r = run(t, "", "--config", cfg, "match", input, "eal")
	if !deperrors.Is(r.err, deperrors.ErrCodeInvalidConfig) {
		t.Errorf("unknown config key error = %v", r.err)
	}
}

func TestConfigFile_MatchOptions(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "deps.dot")
	graph := `"spdk-nvmf" -> { "eal" } [dpdk_componentType="app"]` + "\n" +
		`"eal" [dpdk_componentType="lib"]` + "\n"
	if err := os.WriteFile(input, []byte(graph), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "depgraph.toml")
	if err := os.WriteFile(cfg, []byte("[match]\napp_prefix = \"spdk-\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := run(t, "", "--config", cfg, "match", input, "nvmf")
	if r.err != nil || r.stdout != "spdk-nvmf\n" {
		t.Errorf("match with custom prefix = %q, %v", r.stdout, r.err)
	}
}

func TestCache_Empty(t *testing.T) {
	dir := isolate(t)

	for _, sub := range []string{"info", "prune", "clear"} {
		r := run(t, "", "cache", sub)
		if r.err != nil || !strings.Contains(r.stdout, "Cache is empty") {
			t.Errorf("cache %s = %q, %v", sub, r.stdout, r.err)
		}
	}

	r := run(t, "", "cache", "path")
	if r.err != nil {
		t.Fatal(r.err)
	}
	want := filepath.Join(dir, "cache", "depgraph") + "\n"
	if r.stdout != want {
		t.Errorf("cache path = %q, want %q", r.stdout, want)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestServe_MissingInput(t *testing.T) {
	dir := isolate(t)
	r := run(t, "", "serve", "--addr", "127.0.0.1:0", filepath.Join(dir, "missing.dot"))
	if !errors.Is(r.err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", r.err)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	r := run(t, "", "completion", "bash")
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !strings.Contains(r.stdout, "depgraph") {
		t.Error("bash completion should mention the command name")
	}
}

func TestVerbose(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)

	r := run(t, "", "-v", "match", input, "ring")
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !strings.Contains(r.log, "resolve") {
		t.Errorf("verbose log should include hook output:\n%s", r.log)
	}
}
