package captconfigs

import (
	"slices"
	"testing"

	"github.com/reusee/captai/configs"
	"github.com/reusee/captai/modes"
	"github.com/reusee/dscope"
)

func TestDefaults(t *testing.T) {
	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Call(func(
		dangling DanglingAlias,
		parallel Parallel,
	) {
		if dangling != "allow" {
			t.Fatalf("got %v", dangling)
		}
		if parallel < 1 {
			t.Fatalf("got %v", parallel)
		}
	})
}

func TestFromConfig(t *testing.T) {
	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		func() configs.Loader {
			return configs.NewSourceLoader([]configs.Source{
				{
					Name:    "captai.cue",
					Content: []byte(`dangling_alias: "reject", parallel: 3`),
				},
			}, Schema)
		},
	).Call(func(
		dangling DanglingAlias,
		parallel Parallel,
	) {
		if dangling != "reject" {
			t.Fatalf("got %v", dangling)
		}
		if parallel != 3 {
			t.Fatalf("got %v", parallel)
		}
	})
}

func TestSchemaRejectsUnknownPolicy(t *testing.T) {
	loader := configs.NewSourceLoader([]configs.Source{
		{
			Name:    "captai.cue",
			Content: []byte(`dangling_alias: "ignore"`),
		},
	}, Schema)
	var s string
	if err := loader.AssignFirst("dangling_alias", &s); err == nil {
		t.Fatal("should fail")
	}
}

func TestScenarioFiles(t *testing.T) {
	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		func() configs.Loader {
			return configs.NewSourceLoader([]configs.Source{
				{
					Name:    "captai.cue",
					Content: []byte(`scenario_files: ["a.cue", "b.cue"]`),
				},
				{
					Name:    "/etc/captai.cue",
					Content: []byte(`scenario_files: ["b.cue", "c.cue"], parallel: 2`),
				},
			}, Schema)
		},
	).Call(func(
		files ScenarioFiles,
		parallel Parallel,
	) {
		if !slices.Equal(files, ScenarioFiles{"a.cue", "b.cue", "c.cue"}) {
			t.Fatalf("got %v", files)
		}
		if parallel != 2 {
			t.Fatalf("got %v", parallel)
		}
	})
}

func TestNoScenarioFiles(t *testing.T) {
	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Call(func(
		files ScenarioFiles,
	) {
		if len(files) != 0 {
			t.Fatalf("got %v", files)
		}
	})
}
