package forms

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ruleSpec is the YAML shape of a single extraction rule.
type ruleSpec struct {
	Field    string `yaml:"field"`
	Pattern  string `yaml:"pattern"`
	Post     string `yaml:"post"`
	Fallback string `yaml:"fallback"`
}

// rulesFile is the YAML shape of a rule override file: one ordered rule
// list per form type. Form types absent from the file keep the built-in
// rules.
type rulesFile struct {
	Intake      []ruleSpec `yaml:"intake"`
	VisualField []ruleSpec `yaml:"vf"`
}

// LoadRules reads a YAML rule override file and returns the effective rule
// set per form type. Deployments use this to track form revisions without a
// rebuild; an empty path returns the built-in rules unchanged.
func LoadRules(path string) (map[FormType][]Rule, error) {
	rules := map[FormType][]Rule{
		Intake:      Rules(Intake),
		VisualField: Rules(VisualField),
	}
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: reading a user-provided rules file is expected
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if len(file.Intake) > 0 {
		compiled, err := compileRules(file.Intake)
		if err != nil {
			return nil, fmt.Errorf("intake rules: %w", err)
		}
		rules[Intake] = compiled
	}
	if len(file.VisualField) > 0 {
		compiled, err := compileRules(file.VisualField)
		if err != nil {
			return nil, fmt.Errorf("vf rules: %w", err)
		}
		rules[VisualField] = compiled
	}

	return rules, nil
}

// compileRules converts YAML rule specs into compiled rules, validating
// patterns, post-processor and fallback identifiers.
func compileRules(specs []ruleSpec) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		if spec.Field == "" {
			return nil, fmt.Errorf("rule %d: missing field name", i)
		}
		pattern, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): invalid pattern: %w", i, spec.Field, err)
		}
		if pattern.NumSubexp() < 1 {
			return nil, fmt.Errorf("rule %d (%s): pattern needs a capture group", i, spec.Field)
		}

		post := PostNone
		if spec.Post != "" {
			post = Post(spec.Post)
			if err := validatePost(post); err != nil {
				return nil, fmt.Errorf("rule %d (%s): %w", i, spec.Field, err)
			}
		}

		fallback := FallbackText
		if spec.Fallback != "" {
			fallback = Fallback(spec.Fallback)
			if err := validateFallback(fallback); err != nil {
				return nil, fmt.Errorf("rule %d (%s): %w", i, spec.Field, err)
			}
		}

		rules = append(rules, Rule{
			Field:    spec.Field,
			Pattern:  pattern,
			Post:     post,
			Fallback: fallback,
		})
	}
	return rules, nil
}
