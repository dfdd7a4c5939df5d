package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/egg-stats/internal/models"
)

// OddsSource fetches bookmaker odds for a sport key
type OddsSource interface {
	FetchOdds(ctx context.Context, sportKey string) ([]models.OddsEvent, error)
}

// FixtureSource fetches fixtures and results from the results feed
type FixtureSource interface {
	// UpcomingMatches returns scheduled fixtures for the given competition codes
	UpcomingMatches(ctx context.Context, codes []string) ([]models.Fixture, error)

	// RecentFinishedMatches returns recently finished fixtures across competitions
	RecentFinishedMatches(ctx context.Context) ([]models.Fixture, error)

	// HistoricalMatches returns every fixture of a competition for the given seasons
	HistoricalMatches(ctx context.Context, code string, seasons []int) ([]models.Fixture, error)
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limited")
	Message string // Error message
	Err     error  // Underlying error
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeNotFound        = "not_found"
	ErrCodeServerError     = "server_error"
	ErrCodeInvalidResponse = "invalid_response"
	ErrCodeNetwork         = "network"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) *DataSourceError {
	return &DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode extracts the data source error code from err, or "" when err is not one
func ErrorCode(err error) string {
	var dsErr *DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ""
}

// IsRateLimited reports whether err is a rate-limit rejection
func IsRateLimited(err error) bool {
	return ErrorCode(err) == ErrCodeRateLimited
}
