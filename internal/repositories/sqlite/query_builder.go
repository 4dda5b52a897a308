package sqlite

import (
	"strings"
)

// whereBuilder accumulates AND-joined conditions and their arguments
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

func (w *whereBuilder) add(condition string, args ...interface{}) {
	w.conditions = append(w.conditions, condition)
	w.args = append(w.args, args...)
}

// addIn adds "column IN (...)". An empty set matches nothing.
func (w *whereBuilder) addIn(column string, values []string) {
	if len(values) == 0 {
		w.conditions = append(w.conditions, "1 = 0")
		return
	}
	w.conditions = append(w.conditions, column+" IN ("+placeholders(len(values))+")")
	for _, v := range values {
		w.args = append(w.args, v)
	}
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
