package scenegraph

import (
	"fmt"
	"sort"
)

// Suggested-fix tags understood by the editor tooling.
const (
	FixAddScene       = "add-scene"
	FixAssignCollider = "assign-collider"
	FixAddToBuild     = "add-to-build"
	FixReviewCycle    = "review-cycle"
)

// Validate scans a configuration snapshot and returns findings in a
// deterministic order: missing targets first, then missing activation
// regions, then build-membership problems, then cycle warnings, then
// reachability hints. Running it twice on the same document yields the
// same findings.
func Validate(doc Document) []Finding {
	known := make(map[string]Scene, len(doc.Scenes))
	for _, s := range doc.Scenes {
		known[s.Name] = s
	}

	var findings []Finding

	// 1. Every override and trigger target must name a known scene.
	for _, o := range doc.Overrides {
		if _, ok := known[o.Target]; !ok {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Message:  fmt.Sprintf("override %s -> %s: target scene %q does not exist", o.Source, o.Target, o.Target),
				Fix:      FixAddScene,
			})
		}
	}
	for _, t := range doc.Triggers {
		if _, ok := known[t.Target]; !ok {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Message:  fmt.Sprintf("trigger in %s: target scene %q does not exist", t.Scene, t.Target),
				Fix:      FixAddScene,
			})
		}
	}

	// 2. Every trigger needs an activation region assigned.
	for _, t := range doc.Triggers {
		if t.ActivationRegion == "" {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Message:  fmt.Sprintf("trigger in %s targeting %s has no activation region", t.Scene, t.Target),
				Fix:      FixAssignCollider,
			})
		}
	}

	// 3. Every referenced scene must be in the build set. Each scene is
	// reported once, at its first reference.
	reported := make(map[string]bool)
	checkBuild := func(name string) {
		s, ok := known[name]
		if !ok || s.InBuild || reported[name] {
			return
		}
		reported[name] = true
		findings = append(findings, Finding{
			Severity: SeverityError,
			Message:  fmt.Sprintf("scene %q is referenced but not included in the build", name),
			Fix:      FixAddToBuild,
		})
	}
	for _, o := range doc.Overrides {
		checkBuild(o.Source)
		checkBuild(o.Target)
	}
	for _, t := range doc.Triggers {
		checkBuild(t.Scene)
		checkBuild(t.Target)
	}

	// 4. Mutual overrides A -> B and B -> A. One warning per pair; a true
	// cycle may be intentional backtracking, so this is not an error.
	edges := make(map[[2]string]bool, len(doc.Overrides))
	for _, o := range doc.Overrides {
		edges[[2]string{o.Source, o.Target}] = true
	}
	var pairs [][2]string
	seen := make(map[[2]string]bool)
	for e := range edges {
		a, b := e[0], e[1]
		if a == b || !edges[[2]string{b, a}] {
			continue
		}
		key := [2]string{a, b}
		if b < a {
			key = [2]string{b, a}
		}
		if !seen[key] {
			seen[key] = true
			pairs = append(pairs, key)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	for _, p := range pairs {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("potential circular reference: overrides %s -> %s and %s -> %s", p[0], p[1], p[1], p[0]),
			Fix:      FixReviewCycle,
		})
	}

	// 5. Scenes in the build that nothing points at are probably
	// unreachable. Hint only; entry scenes legitimately have no inbound edge.
	inbound := make(map[string]bool)
	for _, o := range doc.Overrides {
		inbound[o.Target] = true
	}
	for _, t := range doc.Triggers {
		inbound[t.Target] = true
	}
	for _, s := range doc.Scenes {
		if s.InBuild && !inbound[s.Name] {
			findings = append(findings, Finding{
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("scene %q has no inbound override or trigger; verify it is reachable", s.Name),
			})
		}
	}

	return findings
}

// Errors filters findings down to the given severity.
func Errors(findings []Finding) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}
