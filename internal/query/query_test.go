package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryOrdered_PreservesWireOrder(t *testing.T) {
	params := ParseQueryOrdered("b=2&a=1&c=3%204&empty=")

	require.Len(t, params, 4)
	assert.Equal(t, Param{Key: "b", Value: "2"}, params[0])
	assert.Equal(t, Param{Key: "a", Value: "1"}, params[1])
	assert.Equal(t, Param{Key: "c", Value: "3 4"}, params[2])
	assert.Equal(t, Param{Key: "empty", Value: ""}, params[3])
}

func TestResolve(t *testing.T) {
	for _, name := range []string{"students", "applicants", "persons", "system"} {
		v, err := Resolve(name)
		require.NoError(t, err)
		assert.Equal(t, EntityType(name), v.Type)
	}

	v, err := Resolve("  Students ")
	require.NoError(t, err)
	assert.Equal(t, EntityStudents, v.Type)

	_, err = Resolve("invoices")
	assert.Error(t, err)
}

func TestCompileFixed_OrderFollowsPredicates(t *testing.T) {
	v, err := Resolve("students")
	require.NoError(t, err)

	// Request order is deliberately reversed relative to predicate order.
	params := []Param{
		{Key: "program", Value: "Data"},
		{Key: "name", Value: " Ada "},
		{Key: "status", Value: "student"},
	}
	fragments, args := CompileFixed(params, v.Predicates, v.BaseAlias)

	require.Equal(t, []string{
		"u.full_name LIKE ?",
		"u.status = ?",
		"p.name LIKE ?",
	}, fragments)
	assert.Equal(t, []interface{}{"%Ada%", "student", "%Data%"}, args)
}

func TestCompileFixed_SkipsBlankAndMissing(t *testing.T) {
	v, err := Resolve("students")
	require.NoError(t, err)

	params := []Param{
		{Key: "name", Value: "   "},
		{Key: "edition", Value: "2026"},
	}
	fragments, args := CompileFixed(params, v.Predicates, v.BaseAlias)

	assert.Equal(t, []string{"p.edition = ?"}, fragments)
	assert.Equal(t, []interface{}{"2026"}, args)
}

func TestCompileFixed_PersonsProgramUsesExists(t *testing.T) {
	v, err := Resolve("persons")
	require.NoError(t, err)

	params := []Param{
		{Key: "program", Value: "AI"},
		{Key: "interest_program", Value: "Design"},
	}
	fragments, args := CompileFixed(params, v.Predicates, v.BaseAlias)

	require.Len(t, fragments, 2)
	assert.Contains(t, fragments[0], "FROM enrollments e_f")
	assert.Contains(t, fragments[0], "e_f.person_id = u.id")
	assert.Contains(t, fragments[1], "FROM applications ap_f")
	assert.Equal(t, []interface{}{"%AI%", "%Design%"}, args)
}

func TestCompileAttributeParams_RequestOrderAndReserved(t *testing.T) {
	v, err := Resolve("students")
	require.NoError(t, err)
	reserved := v.ReservedKeys()

	params := []Param{
		{Key: "city", Value: "Barcelona"},
		{Key: "name", Value: "Ada"}, // reserved, fixed predicate owns it
		{Key: "company", Value: "ACME"},
		{Key: "blank", Value: "  "},
	}
	fragments, args := CompileAttributeParams(params, reserved, v.BaseAlias)

	require.Len(t, fragments, 2)
	for _, f := range fragments {
		assert.Contains(t, f, "av_f.person_id = u.id")
		assert.Contains(t, f, "a_f.name = ? AND av_f.value LIKE ?")
	}
	// Name then wildcard value, per filter, in request key order.
	assert.Equal(t, []interface{}{"city", "%Barcelona%", "company", "%ACME%"}, args)
}

func TestCompileAttributeList(t *testing.T) {
	fragments, args := CompileAttributeList([]AttributeFilter{
		{Name: "city", Value: "Madrid"},
		{Name: "", Value: "ignored"},
		{Name: "ignored", Value: " "},
	}, "u")

	require.Len(t, fragments, 1)
	assert.Equal(t, []interface{}{"city", "%Madrid%"}, args)
}

func TestWhereClause(t *testing.T) {
	assert.Equal(t, "", WhereClause(nil))
	assert.Equal(t, "WHERE a = ? AND b = ?", WhereClause([]string{"a = ?", "b = ?"}))
}

func TestProject_DefaultsWhenEmpty(t *testing.T) {
	v, err := Resolve("students")
	require.NoError(t, err)

	selectList, args := v.Project(nil, nil)
	assert.Equal(t, v.Select, selectList)
	assert.Empty(t, args)
}

func TestProject_SynonymsResolveToCanonicalAlias(t *testing.T) {
	v, err := Resolve("students")
	require.NoError(t, err)

	for _, req := range [][]string{
		{"email"},
		{"mail"},
		{"correo"},
		{"correu"},
	} {
		selectList, args := v.Project(req, nil)
		require.Len(t, selectList, 1, "request %v", req)
		assert.Equal(t, "u.email AS email", selectList[0])
		assert.Empty(t, args)
	}
}

func TestProject_DropsUnknownAndFallsBack(t *testing.T) {
	v, err := Resolve("students")
	require.NoError(t, err)

	// Unknown mixed with known: unknown silently dropped.
	selectList, _ := v.Project([]string{"nope", "name"}, nil)
	require.Len(t, selectList, 1)
	assert.Equal(t, "u.full_name AS name", selectList[0])

	// All unknown: full default projection.
	selectList, args := v.Project([]string{"nope", "nada"}, nil)
	assert.Equal(t, v.Select, selectList)
	assert.Empty(t, args)
}

func TestProject_AttributePivot(t *testing.T) {
	v, err := Resolve("students")
	require.NoError(t, err)
	attrs := map[string]struct{}{"city": {}, "company": {}}

	selectList, args := v.Project([]string{"name", "city", "company"}, attrs)

	require.Len(t, selectList, 3)
	assert.Equal(t, "u.full_name AS name", selectList[0])
	assert.Equal(t, "MAX(CASE WHEN a.name = ? THEN av.value END) AS `city`", selectList[1])
	assert.Equal(t, "MAX(CASE WHEN a.name = ? THEN av.value END) AS `company`", selectList[2])
	assert.Equal(t, []interface{}{"city", "company"}, args)
}

func TestProject_UnregisteredAttributeDropped(t *testing.T) {
	v, err := Resolve("students")
	require.NoError(t, err)

	selectList, args := v.Project([]string{"name", "shoe_size"}, map[string]struct{}{"city": {}})

	require.Len(t, selectList, 1)
	assert.Equal(t, "u.full_name AS name", selectList[0])
	assert.Empty(t, args)
}

func TestProject_SystemViewHasNoPivots(t *testing.T) {
	v, err := Resolve("system")
	require.NoError(t, err)

	// Even a registered attribute name cannot pivot on a view without the
	// attribute joins.
	selectList, args := v.Project([]string{"city"}, map[string]struct{}{"city": {}})
	assert.Equal(t, v.Select, selectList)
	assert.Empty(t, args)
}

func TestProject_DeduplicatesRepeats(t *testing.T) {
	v, err := Resolve("students")
	require.NoError(t, err)

	selectList, _ := v.Project([]string{"name", "nombre", "name"}, nil)
	require.Len(t, selectList, 1)
}

func TestBuild_PivotArgsPrecedeWhereArgs(t *testing.T) {
	v, err := Resolve("students")
	require.NoError(t, err)
	attrs := map[string]struct{}{"city": {}}

	selectList, selectArgs := v.Project([]string{"name", "city"}, attrs)

	params := []Param{{Key: "status", Value: "student"}, {Key: "city", Value: "Bar"}}
	fragments, whereArgs := CompileFixed(params, v.Predicates, v.BaseAlias)
	attrFragments, attrArgs := CompileAttributeParams(params, v.ReservedKeys(), v.BaseAlias)
	fragments = append(fragments, attrFragments...)
	whereArgs = append(whereArgs, attrArgs...)

	sql, args := v.Build(selectList, fragments, selectArgs, whereArgs)

	assert.Equal(t, []interface{}{"city", "student", "city", "%Bar%"}, args)
	assert.True(t, strings.HasPrefix(sql, "SELECT u.full_name AS name, MAX(CASE WHEN a.name = ?"))
	assert.Contains(t, sql, "WHERE u.status = ? AND EXISTS")
	assert.Contains(t, sql, "GROUP BY u.id")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY u.full_name"))
}

func TestBuild_NoFilters(t *testing.T) {
	v, err := Resolve("system")
	require.NoError(t, err)

	sql, args := v.Build(v.Select, nil, nil, nil)
	assert.NotContains(t, sql, "WHERE")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY u.username"))
	assert.Empty(t, args)
}

func TestAliases(t *testing.T) {
	v, err := Resolve("students")
	require.NoError(t, err)

	aliases := Aliases(v.Select)
	assert.Equal(t, []string{"id", "name", "email", "phone", "status", "programs", "enrolled_at", "interests"}, aliases)

	aliases = Aliases([]string{"MAX(CASE WHEN a.name = ? THEN av.value END) AS `city`"})
	assert.Equal(t, []string{"city"}, aliases)
}
