package model

import (
	"regexp"
	"strings"
)

// Recipe is a catalog recipe. The same ID refers to the same recipe whether it
// came from the remote catalog or from the saved-recipe cache.
type Recipe struct {
	ID           string
	Name         string
	ImageURL     string
	Instructions string
	Ingredients  []Ingredient
	Category     string
	Area         string // Cuisine of origin, e.g. "Italian".
}

// Ingredient is a single ingredient line. Measure may be empty.
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// stepSeparator is the line break the catalog uses between instruction steps.
const stepSeparator = "\r\n"

var (
	// stepNumber matches numbering the catalog already put in front of a step,
	// e.g. "1. " or "2) ". "1.5 kg" is not numbering.
	stepNumber = regexp.MustCompile(`^\s*\d+[.)]\s+`)
	// stepHeading matches a line that is only a step label, e.g. "STEP 1".
	stepHeading = regexp.MustCompile(`(?i)^\s*step\s*\d+\s*[.:]?\s*$`)
)

// Steps splits Instructions into its non-blank steps, in order. Numbering the
// catalog wrote into the text is removed so callers can number steps themselves.
func (r Recipe) Steps() []string {
	steps := []string{}
	for _, step := range strings.Split(r.Instructions, stepSeparator) {
		if stepHeading.MatchString(step) {
			continue
		}
		step = stepNumber.ReplaceAllString(step, "")
		if strings.TrimSpace(step) == "" {
			continue
		}
		steps = append(steps, step)
	}
	return steps
}
