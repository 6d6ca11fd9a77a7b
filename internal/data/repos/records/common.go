package records

import (
	"strings"

	"gorm.io/gorm"
)

type ListFilter struct {
	Status string
	Search string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// namesWithBase returns the values of column equal to base or shaped like "base (n)".
func namesWithBase(q *gorm.DB, model any, column, base string) ([]string, error) {
	var out []string
	pattern := likeEscaper.Replace(base) + ` (%)`
	err := q.Model(model).
		Where(column+" = ? OR "+column+` LIKE ? ESCAPE '\'`, base, pattern).
		Pluck(column, &out).Error
	return out, err
}

func applyListFilter(q *gorm.DB, f ListFilter, searchCols ...string) *gorm.DB {
	if s := strings.TrimSpace(f.Status); s != "" {
		q = q.Where("status = ?", strings.ToUpper(s))
	}
	if s := strings.TrimSpace(f.Search); s != "" && len(searchCols) > 0 {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		parts := make([]string, 0, len(searchCols))
		args := make([]any, 0, len(searchCols))
		for _, c := range searchCols {
			parts = append(parts, "LOWER("+c+`) LIKE ? ESCAPE '\'`)
			args = append(args, like)
		}
		q = q.Where(strings.Join(parts, " OR "), args...)
	}
	return q
}
