package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likeContains builds a LIKE pattern matching s anywhere, with wildcards in
// s escaped for use with ESCAPE '!'.
func likeContains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// containsFold returns a case-insensitive match of column against a
// likeContains pattern for the dialect of db.
func containsFold(db *gorm.DB, column string) string {
	return containsFoldFor(db.Dialector.Name(), column)
}

// containsFoldFor picks ILIKE on postgres. MySQL's default collations and
// sqlite's LIKE are already case-insensitive; sqlite folds ASCII letters
// only, so there "école" does not find "École" but "École" does.
func containsFoldFor(dialect, column string) string {
	if dialect == "postgres" {
		return column + " ILIKE ? ESCAPE '!'"
	}
	return column + " LIKE ? ESCAPE '!'"
}
