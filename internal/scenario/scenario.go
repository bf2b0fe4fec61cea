// Package scenario loads level-ice resistance cases from HCL files.
//
//	scenario "reference" {
//	  length_m         = 100
//	  breadth_m        = 20
//	  draft_m          = 8
//	  speed            = 5
//	  trim_deg         = 10
//	  keel_deg         = 20
//	  side_deg         = 30
//	  ice_thickness_cm = 50
//	}
package scenario

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"Floe/internal/calc/lindqvist"
)

// Scenario is one named case and the file that declared it.
type Scenario struct {
	Name  string
	File  string
	Input lindqvist.Input
}

type hclScenario struct {
	Name           string  `hcl:"name,label"`
	LengthM        float64 `hcl:"length_m"`
	BreadthM       float64 `hcl:"breadth_m"`
	DraftM         float64 `hcl:"draft_m"`
	Speed          float64 `hcl:"speed"`
	TrimDeg        float64 `hcl:"trim_deg"`
	KeelDeg        float64 `hcl:"keel_deg"`
	SideDeg        float64 `hcl:"side_deg"`
	IceThicknessCM float64 `hcl:"ice_thickness_cm"`
}

type hclScenarioFile struct {
	Scenarios []*hclScenario `hcl:"scenario,block"`
}

// Load parses a single .hcl file, or every .hcl file below a directory in
// lexical order. Scenario names must be unique across all files.
func Load(path string) ([]Scenario, error) {
	files, err := findFiles(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find scenario files in %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	seen := make(map[string]string)
	var out []Scenario
	for _, file := range files {
		scenarios, err := parseFile(parser, file)
		if err != nil {
			return nil, err
		}
		for _, s := range scenarios {
			if prev, ok := seen[s.Name]; ok {
				return nil, fmt.Errorf("duplicate scenario %q in %s (first declared in %s)", s.Name, file, prev)
			}
			seen[s.Name] = file
			out = append(out, s)
		}
	}
	return out, nil
}

func parseFile(parser *hclparse.Parser, file string) ([]Scenario, error) {
	hclFile, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
	}

	var parsed hclScenarioFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	out := make([]Scenario, 0, len(parsed.Scenarios))
	for _, s := range parsed.Scenarios {
		out = append(out, Scenario{
			Name: s.Name,
			File: file,
			Input: lindqvist.Input{
				LengthM:        s.LengthM,
				BreadthM:       s.BreadthM,
				DraftM:         s.DraftM,
				Speed:          s.Speed,
				TrimDeg:        s.TrimDeg,
				KeelDeg:        s.KeelDeg,
				SideDeg:        s.SideDeg,
				IceThicknessCM: s.IceThicknessCM,
			},
		})
	}
	return out, nil
}

func findFiles(root, extension string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
