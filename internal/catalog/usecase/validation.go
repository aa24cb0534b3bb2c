package usecase

import (
	"encoding/json"
	"fmt"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/shared/errors"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
)

// compiledRule is a Rule with its CEL program.
type compiledRule struct {
	field   string
	message string
	program cel.Program
}

// Validator checks documents against a resource's required fields and rules.
// Rules run in declaration order and the first failure is reported.
type Validator struct {
	rules []compiledRule
}

// createCELEnvironment declares the single "doc" variable rules are written against.
func createCELEnvironment() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Declarations(
			decls.NewVar("doc", decls.NewMapType(decls.String, decls.Dyn)),
		),
	)
}

// requiredRule builds the rule enforcing a non-empty field.
func requiredRule(field string) model.Rule {
	return model.Rule{
		Field:      field,
		Expression: fmt.Sprintf(`has(doc.%[1]s) && doc.%[1]s != null && doc.%[1]s != ""`, field),
		Message:    field + " is required",
	}
}

// NewValidator compiles the required-field checks followed by the extra rules.
func NewValidator(required []string, rules []model.Rule) (*Validator, error) {
	env, err := createCELEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	all := make([]model.Rule, 0, len(required)+len(rules))
	for _, field := range required {
		all = append(all, requiredRule(field))
	}
	all = append(all, rules...)

	v := &Validator{rules: make([]compiledRule, 0, len(all))}
	for _, rule := range all {
		program, err := compileCELExpression(env, rule.Expression)
		if err != nil {
			return nil, fmt.Errorf("rule for %q: %w", rule.Field, err)
		}
		v.rules = append(v.rules, compiledRule{field: rule.Field, message: rule.Message, program: program})
	}
	return v, nil
}

// compileCELExpression compiles a CEL expression string into a program
func compileCELExpression(env *cel.Env, expression string) (cel.Program, error) {
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compilation error: %w", issues.Err())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}
	return program, nil
}

// Validate evaluates every rule against the JSON form of item. A rule that
// cannot be evaluated counts as failed.
func (v *Validator) Validate(item interface{}) error {
	doc, err := toDocumentMap(item)
	if err != nil {
		return errors.NewValidationError("document could not be read").WithCause(err)
	}

	vars := map[string]interface{}{"doc": doc}
	for _, rule := range v.rules {
		out, _, err := rule.program.Eval(vars)
		if err != nil {
			return errors.NewValidationError(rule.message).WithDetail("field", rule.field)
		}
		if ok, isBool := out.Value().(bool); !isBool || !ok {
			return errors.NewValidationError(rule.message).WithDetail("field", rule.field)
		}
	}
	return nil
}

func toDocumentMap(item interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]interface{})
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
