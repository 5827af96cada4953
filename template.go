package d1

import (
	"strconv"
	"strings"
)

// Statement is SQL with positional placeholders and the values bound to them.
type Statement struct {
	SQL    string
	Params []any
}

// Build joins fragments with the positional placeholders ?1, ?2, ... ?N and
// returns the values as the parameter list. It is the explicit form of a
// tagged template:
//
//	Build([]string{"SELECT * FROM users WHERE id = ", ""}, 1)
//	// Statement{SQL: "SELECT * FROM users WHERE id = ?1", Params: []any{1}}
//
// Values are never inlined or escaped. The engine binds them by position.
// len(fragments) must equal len(values)+1, otherwise ErrInvalidTemplateShape
// is returned.
func Build(fragments []string, values ...any) (Statement, error) {
	if len(fragments) != len(values)+1 {
		return Statement{}, ErrInvalidTemplateShape
	}

	var sb strings.Builder
	for i, f := range fragments {
		sb.WriteString(f)
		if i < len(values) {
			sb.WriteByte('?')
			sb.WriteString(strconv.Itoa(i + 1))
		}
	}

	params := make([]any, len(values))
	copy(params, values)

	return Statement{SQL: sb.String(), Params: params}, nil
}

// MustBuild is like Build but panics if the template is malformed. It
// simplifies initialization of package-level statements.
func MustBuild(fragments []string, values ...any) Statement {
	s, err := Build(fragments, values...)
	if err != nil {
		panic("d1: MustBuild(" + strconv.Quote(strings.Join(fragments, "${}")) + "): " + err.Error())
	}
	return s
}
