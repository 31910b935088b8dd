// Package scenegraph validates the design-time graph of scene overrides
// and transition triggers: missing targets, scenes left out of the build,
// triggers without an activation region, and mutual override cycles.
// Validation is a pure scan over a configuration snapshot; it never
// mutates anything and can be re-run as the configuration changes.
package scenegraph

// Scene is one known scene in the project configuration.
type Scene struct {
	Name    string `json:"name"`
	InBuild bool   `json:"in_build"` // part of the distributable build set
}

// Override is a configured scene-to-scene redirect: when the loader would
// enter Source, it goes to Target instead. Higher priority wins when
// several overrides share a source.
type Override struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Priority int    `json:"priority,omitempty"`
}

// Trigger is a physical transition volume placed in a scene. Entering its
// activation region sends the player to Target.
type Trigger struct {
	Scene            string `json:"scene"`
	Target           string `json:"target"`
	ActivationRegion string `json:"activation_region,omitempty"` // collider object name
}

// Document is the full configuration snapshot handed to Validate,
// typically strict-decoded from an authored JSON file.
type Document struct {
	Scenes    []Scene    `json:"scenes"`
	Overrides []Override `json:"overrides,omitempty"`
	Triggers  []Trigger  `json:"triggers,omitempty"`
}
