package match

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/depgraph/pkg/dag"
	deperrors "github.com/matzehuels/depgraph/pkg/errors"
)

func testGraph(t *testing.T) *dag.Graph {
	t.Helper()
	g := dag.New()
	decl := func(typ, name string, deps ...string) {
		if _, err := g.Set(typ, name, "", dag.EdgeGroup{Deps: deps}); err != nil {
			t.Fatalf("Set(%s, %s) error: %v", typ, name, err)
		}
	}
	decl("lib", "eal")
	decl("lib", "ring", "eal")
	decl("lib", "ethdev", "ring")
	decl("drivers", "common_iavf", "eal")
	decl("drivers", "net_iavf", "common_iavf", "ethdev")
	decl("drivers", "net_ice", "ethdev")
	decl("drivers", "net_ring", "ring")
	decl("drivers", "crypto_qat", "eal")
	decl("app", "dpdk-testpmd", "ethdev")
	decl("app", "test", "eal")
	decl("examples", "dpdk-l2fwd", "ethdev")
	return g
}

func TestResolve(t *testing.T) {
	g := testGraph(t)
	tests := []struct {
		query string
		want  []string
	}{
		// Plain queries
		{"lib", []string{"eal", "ring", "ethdev"}},
		{"testpmd", []string{"dpdk-testpmd"}},
		{"l2fwd", []string{"dpdk-l2fwd"}},
		{"eal", []string{"eal"}},
		{"test", []string{"test"}},
		{"dpdk-testpmd", []string{"dpdk-testpmd"}},
		{"ice", []string{"net_ice"}},
		{"qat", []string{"crypto_qat"}},
		// Category wins over a component with the same name
		{"app", []string{"dpdk-testpmd", "test"}},

		// Two segments
		{"net/ice", []string{"net_ice"}},
		{"common/iavf", []string{"common_iavf"}},
		{"drivers/net", []string{"net_iavf", "net_ice", "net_ring"}},
		{"drivers/net_ice", []string{"net_ice"}},
		{"lib/eal", []string{"eal"}},
		{"app/testpmd", []string{"dpdk-testpmd"}},
		{"examples/l2fwd", []string{"dpdk-l2fwd"}},
		{"app/test", []string{"test"}},

		// Three segments
		{"drivers/net/ice", []string{"net_ice"}},
		{"drivers/common/iavf", []string{"common_iavf"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := Resolve(g, tt.query)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.query, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Resolve(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	g := testGraph(t)
	queries := []string{
		"",
		"nope",
		"iavf", // net_iavf and common_iavf: ambiguous
		"net/nope",
		"drivers/bus",
		"lib/nope",
		"app/nope",
		"lib/ice", // ice is not in lib, and lib is not an app category
		"drivers/net/nope",
		"nope/net/ice",
		"lib/net/ice",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			got, err := Resolve(g, q)
			if err == nil {
				t.Fatalf("Resolve(%q) = %v, want error", q, got)
			}
			var uce *UnknownComponentError
			if !errors.As(err, &uce) {
				t.Fatalf("Resolve(%q) error type = %T, want *UnknownComponentError", q, err)
			}
			if !deperrors.Is(err, deperrors.ErrCodeUnknownComponent) {
				t.Errorf("error code = %v, want %v", deperrors.GetCode(err), deperrors.ErrCodeUnknownComponent)
			}
			if got != nil {
				t.Errorf("Resolve(%q) result = %v, want nil", q, got)
			}
		})
	}
}

func TestResolve_UniqueDriverPolicy(t *testing.T) {
	g := dag.New()
	g.Set("drivers", "net_iavf", "", dag.EdgeGroup{})

	got, err := Resolve(g, "iavf")
	if err != nil {
		t.Fatalf("Resolve(iavf) with one driver error: %v", err)
	}
	if want := []string{"net_iavf"}; !slices.Equal(got, want) {
		t.Errorf("Resolve(iavf) = %v, want %v", got, want)
	}

	g.Set("drivers", "common_iavf", "", dag.EdgeGroup{})
	if _, err := Resolve(g, "iavf"); err == nil {
		t.Error("Resolve(iavf) with two driver classes = nil error, want ambiguity error")
	}
}

func TestResolve_MissingCategories(t *testing.T) {
	// No drivers, app or examples categories at all
	g := dag.New()
	g.Set("lib", "eal", "", dag.EdgeGroup{})

	if _, err := Resolve(g, "ice"); err == nil {
		t.Error("Resolve(ice) = nil error, want UnknownComponentError")
	}
	if _, err := Resolve(g, "net/ice"); err == nil {
		t.Error("Resolve(net/ice) = nil error, want UnknownComponentError")
	}
	got, err := Resolve(g, "eal")
	if err != nil || !slices.Equal(got, []string{"eal"}) {
		t.Errorf("Resolve(eal) = %v, %v", got, err)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	g := testGraph(t)
	first, err := Resolve(g, "drivers/net")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, _ := Resolve(g, "drivers/net")
		if !slices.Equal(first, again) {
			t.Fatalf("Resolve() run %d = %v, want %v", i, again, first)
		}
	}
}

func TestResolver_CustomOptions(t *testing.T) {
	g := dag.New()
	g.Set("tools", "spdk-nvme", "", dag.EdgeGroup{})
	g.Set("pmds", "net_virtio", "", dag.EdgeGroup{})

	r := New(Options{AppPrefix: "spdk-", AppTypes: []string{"tools"}, DriverType: "pmds"})
	tests := map[string][]string{
		"nvme":            {"spdk-nvme"},
		"tools/nvme":      {"spdk-nvme"},
		"virtio":          {"net_virtio"},
		"net/virtio":      {"net_virtio"},
		"pmds/net":        {"net_virtio"},
		"pmds/net/virtio": {"net_virtio"},
	}
	for q, want := range tests {
		got, err := r.Resolve(g, q)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", q, err)
			continue
		}
		if !slices.Equal(got, want) {
			t.Errorf("Resolve(%q) = %v, want %v", q, got, want)
		}
	}
}

func TestMatchers_IndependentRules(t *testing.T) {
	g := testGraph(t)
	r := New(DefaultOptions())

	chain := r.Matchers(1)
	var names []string
	for _, m := range chain {
		names = append(names, m.Name)
	}
	if want := []string{"category", "app-name", "component", "unique-driver"}; !slices.Equal(names, want) {
		t.Errorf("Matchers(1) = %v, want %v", names, want)
	}

	// Each rule can be exercised on its own
	q := ParseQuery("ice")
	for _, m := range chain {
		got, err := m.Match(g, q)
		if err != nil {
			t.Fatalf("%s: error: %v", m.Name, err)
		}
		wantHit := m.Name == "unique-driver"
		if (len(got) > 0) != wantHit {
			t.Errorf("%s matched %v for %q", m.Name, got, q.Raw)
		}
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"ice", []string{"ice"}},
		{"net/ice", []string{"net", "ice"}},
		{"drivers/net/ice", []string{"drivers", "net", "ice"}},
		{"a/b/c/d", []string{"a", "b", "c/d"}},
	}
	for _, tt := range tests {
		if got := ParseQuery(tt.in).Segments; !slices.Equal(got, tt.want) {
			t.Errorf("ParseQuery(%q).Segments = %v, want %v", tt.in, got, tt.want)
		}
	}
}
