package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/duskforge/riftgate/pkg/scenegraph"
)

// validate checks a scene-graph document for structural defects: missing
// targets, triggers without activation regions, scenes left out of the
// build, and mutual override cycles. Exits non-zero when any Error-level
// finding is present, so it can gate CI.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scenegraph.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	doc, err := loadDocument(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	findings := scenegraph.Validate(doc)
	for _, f := range findings {
		fmt.Println(f.String())
	}

	counts := scenegraph.CountBySeverity(findings)
	fmt.Printf("\n%s: %d error(s), %d warning(s), %d hint(s)\n",
		filepath.Base(filename),
		counts[scenegraph.SeverityError],
		counts[scenegraph.SeverityWarning],
		counts[scenegraph.SeverityInfo])

	if counts[scenegraph.SeverityError] > 0 {
		os.Exit(1)
	}
	fmt.Println("Scene graph is valid!")
}

func loadDocument(filename string) (scenegraph.Document, error) {
	if !strings.HasSuffix(filepath.Base(filename), ".json") {
		return scenegraph.Document{}, fmt.Errorf("scene graph file must have .json extension: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return scenegraph.Document{}, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var doc scenegraph.Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return scenegraph.Document{}, fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}
	return doc, nil
}
