package scenegraph

import (
	"reflect"
	"strings"
	"testing"
)

func buildScenes(names ...string) []Scene {
	scenes := make([]Scene, 0, len(names))
	for _, n := range names {
		scenes = append(scenes, Scene{Name: n, InBuild: true})
	}
	return scenes
}

func TestValidate_CleanGraph(t *testing.T) {
	doc := Document{
		Scenes: buildScenes("Hub", "Arena_Stormcaller", "Left/stormcaller_Connection1"),
		Overrides: []Override{
			{Source: "Hub", Target: "Left/stormcaller_Connection1"},
		},
		Triggers: []Trigger{
			{Scene: "Left/stormcaller_Connection1", Target: "Arena_Stormcaller", ActivationRegion: "EntryVolume"},
		},
	}

	findings := Validate(doc)
	if errs := Errors(findings); len(errs) != 0 {
		t.Errorf("expected no errors on a clean graph, got %v", errs)
	}
	for _, f := range findings {
		if f.Severity == SeverityWarning {
			t.Errorf("unexpected warning: %v", f)
		}
	}
}

func TestValidate_MissingTargets(t *testing.T) {
	doc := Document{
		Scenes: buildScenes("Hub"),
		Overrides: []Override{
			{Source: "Hub", Target: "Nowhere"},
		},
		Triggers: []Trigger{
			{Scene: "Hub", Target: "AlsoNowhere", ActivationRegion: "EntryVolume"},
		},
	}

	findings := Validate(doc)
	errs := Errors(findings)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Message, `"Nowhere"`) || errs[0].Fix != FixAddScene {
		t.Errorf("unexpected first finding: %v", errs[0])
	}
	if !strings.Contains(errs[1].Message, `"AlsoNowhere"`) {
		t.Errorf("unexpected second finding: %v", errs[1])
	}
}

func TestValidate_MissingActivationRegion(t *testing.T) {
	doc := Document{
		Scenes: buildScenes("Hub", "Arena_Ironmaw"),
		Triggers: []Trigger{
			{Scene: "Hub", Target: "Arena_Ironmaw"},
		},
	}

	findings := Validate(doc)
	errs := Errors(findings)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Fix != FixAssignCollider {
		t.Errorf("expected %s fix tag, got %q", FixAssignCollider, errs[0].Fix)
	}
}

func TestValidate_NotInBuild(t *testing.T) {
	doc := Document{
		Scenes: []Scene{
			{Name: "Hub", InBuild: true},
			{Name: "Arena_Ironmaw", InBuild: false},
		},
		Overrides: []Override{
			{Source: "Hub", Target: "Arena_Ironmaw"},
			{Source: "Hub", Target: "Arena_Ironmaw", Priority: 1},
		},
	}

	findings := Validate(doc)
	errs := Errors(findings)
	// Reported once, even though the scene is referenced twice.
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Fix != FixAddToBuild {
		t.Errorf("expected %s fix tag, got %q", FixAddToBuild, errs[0].Fix)
	}
}

// Mutual overrides between two existing scenes yield exactly one warning
// and no errors for those edges.
func TestValidate_CircularOverrides(t *testing.T) {
	doc := Document{
		Scenes: buildScenes("CavernA", "CavernB"),
		Overrides: []Override{
			{Source: "CavernA", Target: "CavernB"},
			{Source: "CavernB", Target: "CavernA"},
		},
	}

	findings := Validate(doc)
	if errs := Errors(findings); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	var warnings []Finding
	for _, f := range findings {
		if f.Severity == SeverityWarning {
			warnings = append(warnings, f)
		}
	}
	if len(warnings) != 1 {
		t.Fatalf("expected exactly 1 warning, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0].Message, "circular") {
		t.Errorf("warning should mention the cycle: %v", warnings[0])
	}
}

func TestValidate_SelfOverrideIsNotACycle(t *testing.T) {
	doc := Document{
		Scenes: buildScenes("Hub"),
		Overrides: []Override{
			{Source: "Hub", Target: "Hub"},
		},
	}

	for _, f := range Validate(doc) {
		if f.Severity == SeverityWarning {
			t.Errorf("self override should not warn as a pair cycle: %v", f)
		}
	}
}

func TestValidate_UnreachableHint(t *testing.T) {
	doc := Document{
		Scenes: buildScenes("Hub", "Orphan"),
		Overrides: []Override{
			{Source: "Orphan", Target: "Hub"},
		},
	}

	var infos []Finding
	for _, f := range Validate(doc) {
		if f.Severity == SeverityInfo {
			infos = append(infos, f)
		}
	}
	if len(infos) != 1 || !strings.Contains(infos[0].Message, `"Orphan"`) {
		t.Errorf("expected one reachability hint for Orphan, got %v", infos)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	doc := Document{
		Scenes: buildScenes("A", "B", "C"),
		Overrides: []Override{
			{Source: "A", Target: "B"},
			{Source: "B", Target: "A"},
			{Source: "C", Target: "Missing"},
		},
		Triggers: []Trigger{
			{Scene: "A", Target: "C"},
		},
	}

	first := Validate(doc)
	second := Validate(doc)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("validation is not deterministic:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestCountBySeverity(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityError},
		{Severity: SeverityError},
		{Severity: SeverityWarning},
	}
	counts := CountBySeverity(findings)
	if counts[SeverityError] != 2 || counts[SeverityWarning] != 1 || counts[SeverityInfo] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
