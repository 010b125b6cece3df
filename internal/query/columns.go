package query

import (
	"fmt"
	"strings"
)

// columnSynonyms maps requested column names, in several spellings kept for
// compatibility with stored presets, to the canonical projection alias.
var columnSynonyms = map[string]string{
	"id": "id",

	"name":      "name",
	"full_name": "name",
	"nombre":    "name",
	"nom":       "name",

	"email":  "email",
	"mail":   "email",
	"correo": "email",
	"correu": "email",

	"phone":    "phone",
	"telefono": "phone",
	"telefon":  "phone",
	"tel":      "phone",

	"status": "status",
	"estado": "status",
	"estat":  "status",

	"programs": "programs",
	"program":  "programs",
	"masters":  "programs",
	"master":   "programs",

	"interests":        "interests",
	"interest":         "interests",
	"interest_program": "interests",

	"enrolled_at":         "enrolled_at",
	"enrollment_date":     "enrolled_at",
	"fecha_matriculacion": "enrolled_at",
}

// Project resolves a requested column list against the view. Fixed columns go
// through the synonym map and must exist in the view's default projection;
// anything else is treated as a dynamic attribute and, when present in
// validAttrs, becomes a MAX(CASE ...) pivot whose attribute name is bound as a
// parameter. Requested names that resolve to nothing are dropped. An empty
// request, or one where every column is dropped, falls back to the default
// projection.
//
// Returned bind values belong to the SELECT list and must precede any WHERE
// bind values when the statement is executed.
func (v *View) Project(columns []string, validAttrs map[string]struct{}) ([]string, []interface{}) {
	if len(columns) == 0 {
		return v.Select, nil
	}

	defaults := v.defaultAliases()

	var selectList []string
	var args []interface{}
	seen := make(map[string]struct{})

	for _, raw := range columns {
		col := strings.TrimSpace(raw)
		if col == "" {
			continue
		}

		// Attribute pivots win over fixed aliases so an attribute registered
		// under a reserved-looking name still exports its own values.
		if v.HasAttributes {
			if _, ok := validAttrs[col]; ok {
				if _, dup := seen[col]; dup {
					continue
				}
				seen[col] = struct{}{}
				selectList = append(selectList,
					fmt.Sprintf("MAX(CASE WHEN a.name = ? THEN av.value END) AS `%s`", escapeIdent(col)))
				args = append(args, col)
				continue
			}
		}

		alias, ok := columnSynonyms[strings.ToLower(col)]
		if !ok {
			continue
		}
		expr, ok := defaults[alias]
		if !ok {
			continue
		}
		if _, dup := seen[alias]; dup {
			continue
		}
		seen[alias] = struct{}{}
		selectList = append(selectList, expr)
	}

	if len(selectList) == 0 {
		return v.Select, nil
	}
	return selectList, args
}

// Aliases lists the output column names of a projection in order, for use as
// export headers.
func Aliases(selectList []string) []string {
	aliases := make([]string, 0, len(selectList))
	for _, entry := range selectList {
		idx := strings.LastIndex(entry, " AS ")
		if idx < 0 {
			aliases = append(aliases, entry)
			continue
		}
		aliases = append(aliases, strings.Trim(entry[idx+4:], "`"))
	}
	return aliases
}

func (v *View) defaultAliases() map[string]string {
	defaults := make(map[string]string, len(v.Select))
	for _, entry := range v.Select {
		idx := strings.LastIndex(entry, " AS ")
		if idx < 0 {
			continue
		}
		defaults[entry[idx+4:]] = entry
	}
	return defaults
}

// escapeIdent guards the backtick-quoted pivot alias. Attribute names come
// from the registered attribute whitelist, so this only has to close the
// quoting hole, not validate.
func escapeIdent(name string) string {
	return strings.ReplaceAll(name, "`", "``")
}
