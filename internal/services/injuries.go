package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type InjuryRow struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Team       string `json:"team"`
	Position   string `json:"position"`
	Status     string `json:"status"`
	Comment    string `json:"comment"`
	Date       string `json:"date"`
}

func newInjuryRow(inj models.Injury, p models.Player) InjuryRow {
	row := InjuryRow{
		PlayerID:   fmt.Sprint(inj.PlayerID),
		PlayerName: p.FullName(),
		Position:   p.Position,
		Status:     inj.Status,
		Comment:    inj.Comment,
		Date:       inj.Date,
	}
	if p.Team != nil {
		row.Team = p.Team.Abbreviation
	}
	return row
}

type InjuryService struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewInjuryService(db *database.DB, logger *logrus.Logger) *InjuryService {
	return &InjuryService{db: db, logger: logger}
}

// List returns injury reports newest first, optionally narrowed to one
// team and one status (case-insensitive).
func (s *InjuryService) List(ctx context.Context, team, status string) ([]InjuryRow, error) {
	q := s.db.WithContext(ctx).
		Model(&models.Injury{}).
		Preload("Player.Team").
		Joins("JOIN players ON players.id = injuries.player_id")

	if team = strings.TrimSpace(team); team != "" {
		q = q.Joins("JOIN teams ON teams.id = players.team_id").
			Where("teams.abbreviation = ?", strings.ToUpper(team))
	}
	if status = strings.TrimSpace(status); status != "" {
		q = q.Where("LOWER(injuries.status) = ?", strings.ToLower(status))
	}

	var injuries []models.Injury
	if err := q.Order("injuries.date DESC").Order("injuries.player_id ASC").Find(&injuries).Error; err != nil {
		return nil, err
	}

	out := make([]InjuryRow, 0, len(injuries))
	for _, inj := range injuries {
		out = append(out, newInjuryRow(inj, inj.Player))
	}
	return out, nil
}

// Replace swaps the stored reports for a fresh provider snapshot. With no
// team filter the whole table is replaced; otherwise rows are upserted.
func (s *InjuryService) Replace(ctx context.Context, injuries []models.Injury, fullReplace bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if fullReplace {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Injury{}).Error; err != nil {
				return err
			}
		}
		if len(injuries) == 0 {
			return nil
		}
		return tx.Save(&injuries).Error
	})
}
