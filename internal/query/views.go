package query

import (
	"fmt"
	"strings"
)

// EntityType names one of the fixed queryable views.
type EntityType string

const (
	EntityStudents   EntityType = "students"
	EntityApplicants EntityType = "applicants"
	EntityPersons    EntityType = "persons"
	EntitySystem     EntityType = "system"
)

// View is a fixed query template: default projection, FROM/JOIN block,
// grouping, ordering and the predicate set its filters compile against.
type View struct {
	Type      EntityType
	BaseAlias string

	// Select holds the default projection, each entry "expr AS alias".
	Select  []string
	From    string
	GroupBy string
	OrderBy string

	// HasAttributes reports whether the view joins the attribute extension
	// table, enabling pivot columns and dynamic attribute filters.
	HasAttributes bool

	Predicates []Predicate

	// Filename is the default export filename stem.
	Filename string
}

var studentsView = View{
	Type:      EntityStudents,
	BaseAlias: "u",
	Select: []string{
		"u.id AS id",
		"u.full_name AS name",
		"u.email AS email",
		"u.phone AS phone",
		"MAX(u.status) AS status",
		"COALESCE(GROUP_CONCAT(DISTINCT p.name SEPARATOR ', '), '') AS programs",
		"MIN(e.enrolled_at) AS enrolled_at",
		"'' AS interests",
	},
	From: "FROM persons u" +
		" INNER JOIN students st ON st.person_id = u.id" +
		" LEFT JOIN enrollments e ON e.person_id = u.id" +
		" LEFT JOIN programs p ON p.id = e.program_id" +
		" LEFT JOIN attribute_values av ON av.person_id = u.id" +
		" LEFT JOIN attributes a ON a.id = av.attribute_id",
	GroupBy:       "GROUP BY u.id",
	OrderBy:       "u.full_name",
	HasAttributes: true,
	Predicates: []Predicate{
		{Key: "name", Column: "u.full_name", Match: MatchSubstring},
		{Key: "email", Column: "u.email", Match: MatchSubstring},
		{Key: "phone", Column: "u.phone", Match: MatchSubstring},
		{Key: "status", Column: "u.status", Match: MatchExact},
		{Key: "program", Column: "p.name", Match: MatchSubstring},
		{Key: "edition", Column: "p.edition", Match: MatchExact},
	},
	Filename: "students",
}

var applicantsView = View{
	Type:      EntityApplicants,
	BaseAlias: "u",
	Select: []string{
		"u.id AS id",
		"u.full_name AS name",
		"u.email AS email",
		"u.phone AS phone",
		"MAX(u.status) AS status",
		"'' AS programs",
		"COALESCE(MAX(pp.name), '') AS interests",
	},
	From: "FROM persons u" +
		" INNER JOIN applications ap ON ap.person_id = u.id" +
		" LEFT JOIN programs pp ON pp.id = ap.program_id" +
		" LEFT JOIN attribute_values av ON av.person_id = u.id" +
		" LEFT JOIN attributes a ON a.id = av.attribute_id",
	GroupBy:       "GROUP BY u.id",
	OrderBy:       "u.full_name",
	HasAttributes: true,
	Predicates: []Predicate{
		{Key: "name", Column: "u.full_name", Match: MatchSubstring},
		{Key: "email", Column: "u.email", Match: MatchSubstring},
		{Key: "phone", Column: "u.phone", Match: MatchSubstring},
		{Key: "status", Column: "u.status", Match: MatchExact},
		{Key: "interest_program", Column: "pp.name", Match: MatchSubstring},
		{Key: "edition", Column: "pp.edition", Match: MatchExact},
	},
	Filename: "applicants",
}

// personsView covers every person regardless of status. Program and interest
// columns come from correlated scalar subqueries rather than joins, so filters
// on them go through EXISTS predicates instead of joined aliases.
var personsView = View{
	Type:      EntityPersons,
	BaseAlias: "u",
	Select: []string{
		"u.id AS id",
		"u.full_name AS name",
		"u.email AS email",
		"u.phone AS phone",
		"MAX(u.status) AS status",
		"(SELECT COALESCE(GROUP_CONCAT(DISTINCT p.name SEPARATOR ', '), '')" +
			" FROM enrollments e JOIN programs p ON p.id = e.program_id" +
			" WHERE e.person_id = u.id) AS programs",
		"(SELECT COALESCE(MAX(pp.name), '')" +
			" FROM applications ap JOIN programs pp ON pp.id = ap.program_id" +
			" WHERE ap.person_id = u.id) AS interests",
	},
	From: "FROM persons u" +
		" LEFT JOIN attribute_values av ON av.person_id = u.id" +
		" LEFT JOIN attributes a ON a.id = av.attribute_id",
	GroupBy:       "GROUP BY u.id",
	OrderBy:       "u.full_name",
	HasAttributes: true,
	Predicates: []Predicate{
		{Key: "name", Column: "u.full_name", Match: MatchSubstring},
		{Key: "email", Column: "u.email", Match: MatchSubstring},
		{Key: "phone", Column: "u.phone", Match: MatchSubstring},
		{Key: "status", Column: "u.status", Match: MatchExact},
		{Key: "marketing", Column: "u.marketing_opt_in", Match: MatchExact},
		{Key: "program", Match: MatchEnrolledProgram},
		{Key: "interest_program", Match: MatchInterestProgram},
	},
	Filename: "persons",
}

var systemView = View{
	Type:      EntitySystem,
	BaseAlias: "u",
	Select: []string{
		"u.id AS id",
		"u.username AS name",
		"u.email AS email",
		"'' AS phone",
		"CASE WHEN u.active = 1 THEN 'active' ELSE 'inactive' END AS status",
		"'' AS programs",
		"'' AS interests",
	},
	From:          "FROM users u",
	OrderBy:       "u.username",
	HasAttributes: false,
	Predicates: []Predicate{
		{Key: "username", Column: "u.username", Match: MatchSubstring},
		{Key: "role", Column: "u.role", Match: MatchExact},
		{Key: "active", Column: "u.active", Match: MatchExact},
	},
	Filename: "system_users",
}

// Resolve maps an entity type name to its view. Unknown names are an error so
// callers can reject the request before any SQL is assembled.
func Resolve(entityType string) (*View, error) {
	switch EntityType(strings.ToLower(strings.TrimSpace(entityType))) {
	case EntityStudents:
		v := studentsView
		return &v, nil
	case EntityApplicants:
		v := applicantsView
		return &v, nil
	case EntityPersons:
		v := personsView
		return &v, nil
	case EntitySystem:
		v := systemView
		return &v, nil
	default:
		return nil, fmt.Errorf("unknown entity type %q", entityType)
	}
}

// ReservedKeys returns the parameter keys claimed by the view's fixed
// predicates. Everything outside this set is treated as an attribute filter.
func (v *View) ReservedKeys() map[string]struct{} {
	reserved := make(map[string]struct{}, len(v.Predicates))
	for _, p := range v.Predicates {
		reserved[p.Key] = struct{}{}
	}
	return reserved
}

// Build assembles the full statement from a projection, compiled WHERE
// fragments and their bind values. Pivot bind values precede WHERE bind
// values because pivot placeholders appear in the SELECT list.
func (v *View) Build(selectList []string, fragments []string, selectArgs, whereArgs []interface{}) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(selectList, ", "))
	b.WriteString(" ")
	b.WriteString(v.From)
	if clause := WhereClause(fragments); clause != "" {
		b.WriteString(" ")
		b.WriteString(clause)
	}
	if v.GroupBy != "" {
		b.WriteString(" ")
		b.WriteString(v.GroupBy)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(v.OrderBy)

	args := make([]interface{}, 0, len(selectArgs)+len(whereArgs))
	args = append(args, selectArgs...)
	args = append(args, whereArgs...)
	return b.String(), args
}
