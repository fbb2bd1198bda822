package services

import (
	"context"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/sirupsen/logrus"
)

// SkillPositions are the positions offered in filters and the smash feed.
var SkillPositions = []string{"QB", "RB", "WR", "TE"}

type Options struct {
	Seasons   []int    `json:"seasons"`
	Weeks     []int    `json:"weeks"`
	Teams     []string `json:"teams"`
	Positions []string `json:"positions"`
}

type Summary struct {
	Seasons []int `json:"seasons"`
	Games   int64 `json:"games"`
	Players int64 `json:"players"`
	Teams   int64 `json:"teams"`
}

// OptionsService serves the filter values the dashboard renders dropdowns
// from.
type OptionsService struct {
	db     *database.DB
	cache  Cache
	logger *logrus.Logger
	ttl    time.Duration
}

func NewOptionsService(db *database.DB, cache Cache, logger *logrus.Logger, ttl time.Duration) *OptionsService {
	return &OptionsService{db: db, cache: cache, logger: logger, ttl: ttl}
}

func (s *OptionsService) Options(ctx context.Context) (*Options, error) {
	return remember(ctx, s.cache, OptionsCacheKey(), s.ttl, func() (*Options, error) {
		opts := &Options{Positions: SkillPositions}
		db := s.db.WithContext(ctx)

		if err := db.Model(&models.Game{}).Distinct().Order("season DESC").Pluck("season", &opts.Seasons).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&models.Game{}).Distinct().Order("week ASC").Pluck("week", &opts.Weeks).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&models.Team{}).Order("abbreviation ASC").Pluck("abbreviation", &opts.Teams).Error; err != nil {
			return nil, err
		}

		if opts.Seasons == nil {
			opts.Seasons = []int{}
		}
		if opts.Weeks == nil {
			opts.Weeks = []int{}
		}
		if opts.Teams == nil {
			opts.Teams = []string{}
		}
		return opts, nil
	})
}

func (s *OptionsService) Summary(ctx context.Context) (*Summary, error) {
	out := &Summary{Seasons: []int{}}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Game{}).Count(&out.Games).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Player{}).Count(&out.Players).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Team{}).Count(&out.Teams).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Game{}).Distinct().Order("season ASC").Pluck("season", &out.Seasons).Error; err != nil {
		return nil, err
	}
	return out, nil
}
