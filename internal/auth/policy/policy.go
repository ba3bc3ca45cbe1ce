// Package policy decides whether a request may proceed, given its method,
// path and resolved identity. Decisions come from ordered rule tables
// evaluated first-match; a request that matches no rule is denied.
package policy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aussiebroadwan/gallery/pkg/httpx"
)

// Access is the kind of requirement a rule imposes.
type Access string

const (
	// Public allows everyone, authenticated or not.
	Public Access = "public"
	// Authenticated allows any resolved identity.
	Authenticated Access = "authenticated"
	// Role allows identities holding one specific role.
	Role Access = "role"
	// AnyRole allows identities holding at least one of the listed roles.
	AnyRole Access = "any_role"
	// DenyAll refuses every request.
	DenyAll Access = "deny"
)

// Requirement is what an identity must satisfy for a rule to allow a request.
type Requirement struct {
	Access Access
	Roles  []string
}

// PermitAll is the PUBLIC requirement.
func PermitAll() Requirement { return Requirement{Access: Public} }

// RequireAuthenticated allows any identity.
func RequireAuthenticated() Requirement { return Requirement{Access: Authenticated} }

// RequireRole is ROLE(name).
func RequireRole(name string) Requirement {
	return Requirement{Access: Role, Roles: []string{name}}
}

// RequireAnyRole is ANY_ROLE(names).
func RequireAnyRole(names ...string) Requirement {
	return Requirement{Access: AnyRole, Roles: slices.Clone(names)}
}

// Deny refuses every request.
func Deny() Requirement { return Requirement{Access: DenyAll} }

func (r Requirement) validate() error {
	switch r.Access {
	case Public, Authenticated, DenyAll:
		return nil
	case Role:
		if len(r.Roles) != 1 || r.Roles[0] == "" {
			return fmt.Errorf("policy: role requirement needs exactly one role")
		}
		return nil
	case AnyRole:
		if len(r.Roles) == 0 || slices.Contains(r.Roles, "") {
			return fmt.Errorf("policy: any_role requirement needs at least one role")
		}
		return nil
	default:
		return fmt.Errorf("policy: unknown access %q", r.Access)
	}
}

func (r Requirement) String() string {
	switch r.Access {
	case Role, AnyRole:
		return fmt.Sprintf("%s(%s)", strings.ToUpper(string(r.Access)), strings.Join(r.Roles, ", "))
	default:
		return strings.ToUpper(string(r.Access))
	}
}

// Rule pairs a method and path pattern with a requirement.
//
// Method is a single method, several joined by "|" ("POST|PUT"), or "*"
// (or empty) for any method.
type Rule struct {
	Method      string
	Pattern     string
	Requirement Requirement
}

func (r Rule) String() string {
	m := r.Method
	if m == "" {
		m = "*"
	}
	return fmt.Sprintf("%s %s %s", m, r.Pattern, r.Requirement)
}

// Reason explains a denial.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
	ReasonNoMatch         Reason = "no matching rule"
)

// Decision is the outcome of evaluating a table.
type Decision struct {
	Allowed bool
	Reason  Reason

	// Rule is the rule that matched; nil when nothing matched.
	Rule *Rule
}

type compiledRule struct {
	rule    Rule
	methods methods
	pattern pattern
}

// Table is an immutable, ordered rule list.
type Table struct {
	name  string
	rules []compiledRule
}

// NewTable compiles rules into a table. Rules keep their declared order.
func NewTable(name string, rules ...Rule) (*Table, error) {
	t := &Table{name: name, rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if err := r.Requirement.validate(); err != nil {
			return nil, fmt.Errorf("%s rule %d (%s): %w", name, i, r.Pattern, err)
		}
		p, err := compilePattern(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s rule %d: %w", name, i, err)
		}
		r.Requirement.Roles = slices.Clone(r.Requirement.Roles)
		t.rules = append(t.rules, compiledRule{rule: r, methods: compileMethods(r.Method), pattern: p})
	}
	return t, nil
}

// MustTable is NewTable that panics on error, for built-in tables.
func MustTable(name string, rules ...Rule) *Table {
	t, err := NewTable(name, rules...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

// Rules returns a copy of the table's rules in evaluation order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, cr := range t.rules {
		out[i] = cr.rule
	}
	return out
}

// Evaluate returns the decision of the first rule matching method and path.
// id is nil for unauthenticated requests. With no matching rule the request
// is denied.
func (t *Table) Evaluate(method, path string, id *httpx.Identity) Decision {
	for i := range t.rules {
		cr := &t.rules[i]
		if !cr.methods.match(method) || !cr.pattern.match(path) {
			continue
		}
		d := decide(cr.rule.Requirement, id)
		d.Rule = &cr.rule
		return d
	}
	return Decision{Reason: ReasonNoMatch}
}

func decide(req Requirement, id *httpx.Identity) Decision {
	switch req.Access {
	case Public:
		return Decision{Allowed: true}
	case DenyAll:
		if id == nil {
			return Decision{Reason: ReasonUnauthenticated}
		}
		return Decision{Reason: ReasonForbidden}
	}

	if id == nil {
		return Decision{Reason: ReasonUnauthenticated}
	}
	if req.Access == Authenticated || id.HasAnyRole(req.Roles...) {
		return Decision{Allowed: true}
	}
	return Decision{Reason: ReasonForbidden}
}
