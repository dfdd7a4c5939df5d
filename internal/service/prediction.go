package service

import (
	"context"
	"fmt"

	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/poisson"
)

// Prediction is the model's view of a single fixture
type Prediction struct {
	League        string               `json:"league"`
	HomeTeam      string               `json:"home_team"`
	AwayTeam      string               `json:"away_team"`
	LambdaHome    float64              `json:"lambda_home"`
	LambdaAway    float64              `json:"lambda_away"`
	Probabilities models.Probabilities `json:"probabilities"`
	TopPick       models.Outcome       `json:"top_pick"`
	LikelyScore   string               `json:"likely_score"`
	LikelyScoreP  float64              `json:"likely_score_p"`
	TrainedOn     int                  `json:"trained_on"`
}

// PredictionService prices ad-hoc fixtures against a freshly trained model
type PredictionService struct {
	cfg     *config.Config
	builder *ModelBuilder
}

// NewPredictionService creates a prediction service
func NewPredictionService(cfg *config.Config, builder *ModelBuilder) *PredictionService {
	return &PredictionService{cfg: cfg, builder: builder}
}

// Predict trains the league model and prices home against away. Team names
// are resolved against the model, so feed spellings are not required.
func (s *PredictionService) Predict(ctx context.Context, league, home, away string) (*Prediction, error) {
	lc, ok := s.cfg.League(league)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownLeague, league)
	}

	model, trainedOn, err := s.builder.Build(ctx, lc.Code, lc.MinMatches)
	if err != nil {
		return nil, err
	}

	homeName, err := ResolveTeam(model, home)
	if err != nil {
		return nil, err
	}
	awayName, err := ResolveTeam(model, away)
	if err != nil {
		return nil, err
	}
	if homeName == awayName {
		return nil, fmt.Errorf("home and away resolve to the same team %q", homeName)
	}

	lh, la, _ := model.Lambdas(homeName, awayName)
	probs := poisson.MatchProbabilities(lh, la, model.Rho())
	hg, ag, p := poisson.MostLikelyScore(lh, la, model.Rho())

	return &Prediction{
		League:        lc.Code,
		HomeTeam:      homeName,
		AwayTeam:      awayName,
		LambdaHome:    lh,
		LambdaAway:    la,
		Probabilities: probs,
		TopPick:       probs.TopPick(),
		LikelyScore:   fmt.Sprintf("%d-%d", hg, ag),
		LikelyScoreP:  p,
		TrainedOn:     trainedOn,
	}, nil
}
