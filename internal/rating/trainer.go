package rating

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/models"
)

const hoursPerDay = 24.0

// Goal anchoring stops once the implied goal rate is within anchorTolerance
// of the league average, after maxAnchorRounds, or when the cumulative
// rescale would leave [1/maxAnchorScale, maxAnchorScale].
const (
	anchorTolerance = 0.005
	maxAnchorRounds = 100
	maxAnchorScale  = 4.0
)

// Trainer fits models with a fixed configuration
type Trainer struct {
	cfg    Config
	logger logrus.FieldLogger
}

// NewTrainer creates a trainer. A nil logger discards debug output.
func NewTrainer(cfg Config, logger logrus.FieldLogger) *Trainer {
	if logger == nil {
		discard := logrus.New()
		discard.SetLevel(logrus.PanicLevel)
		logger = discard
	}
	return &Trainer{cfg: cfg, logger: logger}
}

// Config returns the trainer's hyperparameters
func (t *Trainer) Config() Config {
	return t.cfg
}

// Train fits a model with the given configuration
func Train(matches []models.Match, cfg Config) *Model {
	return NewTrainer(cfg, nil).Train(matches)
}

// fitMatch is a pre-resolved training row
type fitMatch struct {
	home, away           int
	homeGoals, awayGoals float64
	weight               float64
}

// Train fits attack/defense ratings by time-decayed batch gradient descent,
// then shrinks and anchors them to the observed goal rate. It never fails:
// with no usable matches it returns the neutral model.
func (t *Trainer) Train(matches []models.Match) *Model {
	cfg := t.cfg
	valid := scoredMatches(matches)
	if len(valid) == 0 || cfg.Iterations <= 0 {
		return neutralModel(cfg.Rho)
	}

	goals := 0.0
	for i := range valid {
		goals += float64(*valid[i].HomeGoals + *valid[i].AwayGoals)
	}
	leagueAvg := goals / float64(len(valid))

	asOf := cfg.AsOf
	if asOf.IsZero() {
		asOf = latestDate(valid)
	}

	index := make(map[string]int)
	names := make([]string, 0)
	teamIndex := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		index[name] = len(names)
		names = append(names, name)
		return index[name]
	}

	rows := make([]fitMatch, len(valid))
	for i := range valid {
		m := &valid[i]
		rows[i] = fitMatch{
			home:      teamIndex(m.HomeTeam),
			away:      teamIndex(m.AwayTeam),
			homeGoals: float64(*m.HomeGoals),
			awayGoals: float64(*m.AwayGoals),
			weight:    timeWeight(m.MatchDate, asOf, cfg.HalfLifeDays),
		}
	}

	ratings := make([]TeamStrength, len(names))
	homeAdv := cfg.InitialHomeAdvantage
	lr, l2 := cfg.LearningRate, cfg.L2

	for iter := 0; iter < cfg.Iterations; iter++ {
		for _, r := range rows {
			th := &ratings[r.home]
			ta := &ratings[r.away]

			lambdaH := math.Exp(th.Attack - ta.Defense + homeAdv)
			lambdaA := math.Exp(ta.Attack - th.Defense)

			errH := r.weight * (r.homeGoals - lambdaH)
			errA := r.weight * (r.awayGoals - lambdaA)

			th.Attack += lr * (errH - l2*th.Attack)
			th.Defense += lr * (-errA - l2*th.Defense)
			ta.Attack += lr * (errA - l2*ta.Attack)
			ta.Defense += lr * (-errH - l2*ta.Defense)

			// global scalar, no L2
			homeAdv += lr * errH
		}
		normalize(ratings)
	}

	scale(ratings, cfg.Shrink)

	teams, modelGoals, rounds := anchor(valid, names, ratings, homeAdv, leagueAvg)

	t.logger.WithFields(logrus.Fields{
		"matches":        len(valid),
		"teams":          len(names),
		"home_advantage": homeAdv,
		"league_goals":   leagueAvg,
		"model_goals":    modelGoals,
		"anchor_rounds":  rounds,
	}).Debug("Rating model trained")

	return &Model{
		teams:              teams,
		homeAdvantage:      homeAdv,
		rho:                cfg.Rho,
		leagueAverageGoals: leagueAvg,
	}
}

// anchor rescales ratings by sqrt(leagueAvg/modelGoals) and re-normalizes,
// re-estimating the implied goal rate after each round. A single rescale
// undershoots because goals grow with the spread of the ratings, not linearly.
func anchor(valid []models.Match, names []string, ratings []TeamStrength, homeAdv, leagueAvg float64) (map[string]TeamStrength, float64, int) {
	teams := toMap(names, ratings)
	modelGoals := estimateAverageGoals(valid, teams, homeAdv)
	if leagueAvg <= 0 {
		return teams, modelGoals, 0
	}

	total := 1.0
	rounds := 0
	for ; rounds < maxAnchorRounds; rounds++ {
		if modelGoals <= 0 || math.Abs(modelGoals-leagueAvg)/leagueAvg <= anchorTolerance {
			break
		}
		k := math.Sqrt(leagueAvg / modelGoals)
		if next := total * k; next > maxAnchorScale || next < 1/maxAnchorScale {
			break
		}
		total *= k
		scale(ratings, k)
		normalize(ratings)
		teams = toMap(names, ratings)
		modelGoals = estimateAverageGoals(valid, teams, homeAdv)
	}
	return teams, modelGoals, rounds
}

func scoredMatches(matches []models.Match) []models.Match {
	valid := make([]models.Match, 0, len(matches))
	for i := range matches {
		if matches[i].IsScored() {
			valid = append(valid, matches[i])
		}
	}
	return valid
}

func latestDate(matches []models.Match) time.Time {
	var latest time.Time
	for i := range matches {
		if matches[i].MatchDate.After(latest) {
			latest = matches[i].MatchDate
		}
	}
	return latest
}

// timeWeight halves a match's influence every halfLifeDays. Future dates count as age 0.
func timeWeight(date, asOf time.Time, halfLifeDays float64) float64 {
	days := asOf.Sub(date).Hours() / hoursPerDay
	if math.IsNaN(days) || days < 0 {
		days = 0
	}
	return math.Exp(-math.Ln2 * days / halfLifeDays)
}

// normalize zero-centres attack and defense
func normalize(ratings []TeamStrength) {
	if len(ratings) == 0 {
		return
	}
	var atk, def float64
	for _, r := range ratings {
		atk += r.Attack
		def += r.Defense
	}
	n := float64(len(ratings))
	atk /= n
	def /= n
	for i := range ratings {
		ratings[i].Attack -= atk
		ratings[i].Defense -= def
	}
}

func scale(ratings []TeamStrength, k float64) {
	for i := range ratings {
		ratings[i].Attack *= k
		ratings[i].Defense *= k
	}
}

func toMap(names []string, ratings []TeamStrength) map[string]TeamStrength {
	out := make(map[string]TeamStrength, len(names))
	for i, name := range names {
		out[name] = ratings[i]
	}
	return out
}
