package classify

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultModelPaths(t *testing.T) {
	paths := DefaultModelPaths("/models")

	for _, name := range []string{ModelPrimary, ModelDRU, ModelTKDI, ModelMNS} {
		p, ok := paths[name]
		if !ok {
			t.Fatalf("no paths for model %s", name)
		}
		if filepath.Dir(p.Arch) != "/models" || filepath.Dir(p.Weights) != "/models" {
			t.Errorf("model %s paths not under /models: %+v", name, p)
		}
	}

	if paths[ModelPrimary].Arch != "/models/model_new.json" {
		t.Errorf("primary arch = %s, want /models/model_new.json", paths[ModelPrimary].Arch)
	}
}

func TestModelArgs_PathsStayIntact(t *testing.T) {
	dir := "/mo,dels/with, commas"
	args := modelArgs(DefaultModelPaths(dir))

	if len(args) != 12 {
		t.Fatalf("len(args) = %d, want 12", len(args))
	}

	// Triples in cascade order, each path its own argument.
	wantOrder := []string{ModelPrimary, ModelDRU, ModelTKDI, ModelMNS}
	for i, name := range wantOrder {
		if args[3*i] != name {
			t.Errorf("args[%d] = %q, want %q", 3*i, args[3*i], name)
		}
		for _, p := range []string{args[3*i+1], args[3*i+2]} {
			if filepath.Dir(p) != dir {
				t.Errorf("model %s path %q not under %q", name, p, dir)
			}
		}
	}
}

func TestNewService_MissingArtifactsIsFatal(t *testing.T) {
	t.Run("unconfigured model", func(t *testing.T) {
		_, err := NewService(Config{Models: map[string]ModelPaths{}})
		if err == nil {
			t.Error("expected error when no models are configured")
		}
	})

	t.Run("missing files", func(t *testing.T) {
		_, err := NewService(Config{Models: DefaultModelPaths(t.TempDir())})
		if err == nil {
			t.Error("expected error when artifact files do not exist")
		}
	})

	t.Run("partial artifacts", func(t *testing.T) {
		dir := t.TempDir()
		paths := DefaultModelPaths(dir)

		// Only the primary model's files exist
		for _, p := range []string{paths[ModelPrimary].Arch, paths[ModelPrimary].Weights} {
			if err := os.WriteFile(p, []byte("{}"), 0644); err != nil {
				t.Fatalf("write artifact: %v", err)
			}
		}

		_, err := NewService(Config{Models: paths})
		if err == nil {
			t.Error("expected error when disambiguator artifacts are missing")
		}
	})
}
