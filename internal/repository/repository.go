package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/egg-stats/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Match MatchRepository
	Odds  OddsSnapshotRepository
	Bets  BetLogRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db database.Querier) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Match: NewPostgresMatchRepository(db),
		Odds:  NewPostgresOddsRepository(db),
		Bets:  NewPostgresBetLogRepository(db),
	}, nil
}

// valuesClause renders a multi-row VALUES list. Each "?" in rowTemplate is
// replaced by the next positional parameter.
func valuesClause(rows int, rowTemplate string) string {
	var b strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(",")
		}
		for _, ch := range rowTemplate {
			if ch == '?' {
				b.WriteString("$")
				b.WriteString(strconv.Itoa(n))
				n++
				continue
			}
			b.WriteRune(ch)
		}
	}
	return b.String()
}
