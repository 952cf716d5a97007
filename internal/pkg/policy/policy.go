package policy

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/frontandrew/fleetflow/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicy []byte

const (
	tokenPublic = "public"
	tokenAny    = "any"
)

// Rule - правило доступа к одной операции
type Rule struct {
	Public bool
	Any    bool
	Roles  []domain.UserRole
}

// Allows проверяет роль по правилу
func (r Rule) Allows(role domain.UserRole) bool {
	if r.Public || r.Any {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Table - декларативная таблица операция -> роли
type Table struct {
	rules map[string]Rule
}

type document struct {
	Operations map[string][]string `yaml:"operations"`
}

// Default возвращает встроенную таблицу
func Default() (*Table, error) {
	return Parse(defaultPolicy)
}

// Load читает таблицу из файла; пустой путь - встроенная таблица
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return Parse(data)
}

// Parse разбирает YAML таблицу и проверяет роли
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}
	if len(doc.Operations) == 0 {
		return nil, fmt.Errorf("policy defines no operations")
	}

	table := &Table{rules: make(map[string]Rule, len(doc.Operations))}
	for op, tokens := range doc.Operations {
		rule, err := parseRule(tokens)
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", op, err)
		}
		table.rules[op] = rule
	}
	return table, nil
}

func parseRule(tokens []string) (Rule, error) {
	if len(tokens) == 0 {
		return Rule{}, fmt.Errorf("no roles listed")
	}

	var rule Rule
	for _, token := range tokens {
		switch token {
		case tokenPublic:
			rule.Public = true
		case tokenAny:
			rule.Any = true
		default:
			role := domain.UserRole(token)
			if !role.IsValid() {
				return Rule{}, fmt.Errorf("unknown role %q", token)
			}
			rule.Roles = append(rule.Roles, role)
		}
	}
	if (rule.Public || rule.Any) && len(tokens) > 1 {
		return Rule{}, fmt.Errorf("%s/%s cannot be combined with other roles", tokenPublic, tokenAny)
	}
	return rule, nil
}

// Rule возвращает правило операции
func (t *Table) Rule(op string) (Rule, bool) {
	rule, ok := t.rules[op]
	return rule, ok
}

// IsPublic - операция доступна без токена
func (t *Table) IsPublic(op string) bool {
	rule, ok := t.rules[op]
	return ok && rule.Public
}

// Authorize решает, может ли роль выполнить операцию.
// Неизвестная операция запрещена.
func (t *Table) Authorize(op string, role domain.UserRole) error {
	rule, ok := t.rules[op]
	if !ok {
		return fmt.Errorf("%w: unknown operation %s", domain.ErrForbidden, op)
	}
	if !rule.Allows(role) {
		return fmt.Errorf("%w: role %s cannot perform %s", domain.ErrForbidden, role, op)
	}
	return nil
}

// Operations возвращает отсортированный список операций
func (t *Table) Operations() []string {
	ops := make([]string, 0, len(t.rules))
	for op := range t.rules {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}
