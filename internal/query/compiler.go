// Package query assembles SELECT statements for the fixed entity views and the
// dynamic attribute extension table. SQL text is built only from a closed set
// of predicate and projection templates; every user-supplied value is bound
// positionally, never interpolated.
package query

import (
	"fmt"
	"strings"
)

// MatchKind selects how a predicate compares its column to the bound value.
type MatchKind int

const (
	// MatchExact binds the trimmed value verbatim.
	MatchExact MatchKind = iota
	// MatchSubstring wraps the bound value in wildcards on both sides.
	MatchSubstring
	// MatchEnrolledProgram matches the person against enrolled program names
	// through a correlated EXISTS, for views without a joined program alias.
	MatchEnrolledProgram
	// MatchInterestProgram matches against applied-for program names through a
	// correlated EXISTS.
	MatchInterestProgram
)

// Predicate binds a recognized filter key to a column comparison. Predicates
// are held in slices, not maps, so compiled fragments keep declaration order.
type Predicate struct {
	Key    string
	Column string
	Match  MatchKind
}

// Param is one request parameter. Parameters are carried as an ordered list
// because attribute fragments must be emitted in request key order.
type Param struct {
	Key   string
	Value string
}

// AttributeFilter is one explicit dynamic-attribute condition.
type AttributeFilter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

const attrExistsTemplate = "EXISTS (SELECT 1 FROM attribute_values av_f" +
	" JOIN attributes a_f ON a_f.id = av_f.attribute_id" +
	" WHERE av_f.person_id = %s.id AND a_f.name = ? AND av_f.value LIKE ?)"

const enrolledExistsTemplate = "EXISTS (SELECT 1 FROM enrollments e_f" +
	" JOIN programs p_f ON p_f.id = e_f.program_id" +
	" WHERE e_f.person_id = %s.id AND p_f.name LIKE ?)"

const interestExistsTemplate = "EXISTS (SELECT 1 FROM applications ap_f" +
	" JOIN programs pp_f ON pp_f.id = ap_f.program_id" +
	" WHERE ap_f.person_id = %s.id AND pp_f.name LIKE ?)"

// CompileFixed walks predicates in declaration order and emits one fragment
// per predicate whose key is present with a non-empty trimmed value.
func CompileFixed(params []Param, predicates []Predicate, baseAlias string) ([]string, []interface{}) {
	var fragments []string
	var args []interface{}

	for _, p := range predicates {
		raw, ok := lookup(params, p.Key)
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}

		switch p.Match {
		case MatchSubstring:
			fragments = append(fragments, p.Column+" LIKE ?")
			args = append(args, "%"+value+"%")
		case MatchEnrolledProgram:
			fragments = append(fragments, fmt.Sprintf(enrolledExistsTemplate, baseAlias))
			args = append(args, "%"+value+"%")
		case MatchInterestProgram:
			fragments = append(fragments, fmt.Sprintf(interestExistsTemplate, baseAlias))
			args = append(args, "%"+value+"%")
		default:
			fragments = append(fragments, p.Column+" = ?")
			args = append(args, value)
		}
	}

	return fragments, args
}

// CompileAttributeParams treats every parameter key outside the reserved set
// as a dynamic attribute filter, in request key order. Each fragment binds the
// attribute name and the wildcard-wrapped value, in that order. Unknown keys
// are never an error here; the EXISTS simply matches nothing for unregistered
// names.
func CompileAttributeParams(params []Param, reserved map[string]struct{}, baseAlias string) ([]string, []interface{}) {
	var fragments []string
	var args []interface{}

	for _, p := range params {
		if _, ok := reserved[p.Key]; ok {
			continue
		}
		value := strings.TrimSpace(p.Value)
		if value == "" {
			continue
		}

		fragments = append(fragments, fmt.Sprintf(attrExistsTemplate, baseAlias))
		args = append(args, p.Key, "%"+value+"%")
	}

	return fragments, args
}

// CompileAttributeList emits fragments for an explicit attribute filter list,
// as supplied by the export request body.
func CompileAttributeList(filters []AttributeFilter, baseAlias string) ([]string, []interface{}) {
	var fragments []string
	var args []interface{}

	for _, f := range filters {
		name := strings.TrimSpace(f.Name)
		value := strings.TrimSpace(f.Value)
		if name == "" || value == "" {
			continue
		}

		fragments = append(fragments, fmt.Sprintf(attrExistsTemplate, baseAlias))
		args = append(args, name, "%"+value+"%")
	}

	return fragments, args
}

// WhereClause joins fragments with AND, prefixed with WHERE. Empty input
// yields an empty string.
func WhereClause(fragments []string) string {
	if len(fragments) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(fragments, " AND ")
}

func lookup(params []Param, key string) (string, bool) {
	for _, p := range params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}
