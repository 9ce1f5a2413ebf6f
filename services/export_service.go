package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/tournament-scoreboard/brackets"
	"github.com/Dosada05/tournament-scoreboard/models"
	"github.com/Dosada05/tournament-scoreboard/repositories"
	"github.com/Dosada05/tournament-scoreboard/storage"
)

const (
	XLSXContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	BracketSheetName  = "Bracket"
	groupSheetPattern = "Group %s"
)

var (
	standingsHeader = []interface{}{"#", "Player", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"}
	bracketHeader   = []interface{}{"Match", "Round", "Side", "Player 1", "Player 2", "Score 1", "Score 2", "Status", "Winner"}
)

// ExportFile is a generated workbook.
type ExportFile struct {
	Filename string
	Content  []byte
}

// PublishedExport is a workbook uploaded to file storage.
type PublishedExport struct {
	Competition models.Competition `json:"competition"`
	Key         string             `json:"key"`
	URL         string             `json:"url"`
}

type ExportService interface {
	StandingsWorkbook(ctx context.Context, competition models.Competition) (*ExportFile, error)
	PublishStandings(ctx context.Context, competition models.Competition) (*PublishedExport, error)
}

type exportService struct {
	deps     Deps
	uploader storage.FileUploader
}

// NewExportService: uploader may be nil, then only downloads are available.
func NewExportService(deps Deps, uploader storage.FileUploader) ExportService {
	return &exportService{deps: deps.withDefaults(), uploader: uploader}
}

// StandingsWorkbook builds one sheet per group in standings order plus the bracket sheet.
func (s *exportService) StandingsWorkbook(ctx context.Context, c models.Competition) (_ *ExportFile, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "export_standings", start, err, slog.String("competition", c.String()))
	}(time.Now())

	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	groups, err := s.deps.Store.Groups.List(ctx, c)
	if err != nil {
		return nil, handleRepositoryError(err, "groups of "+c.String())
	}
	matches, err := s.deps.Store.Matches.List(ctx, repositories.MatchFilter{Competition: c})
	if err != nil {
		return nil, handleRepositoryError(err, "bracket of "+c.String())
	}

	content, err := buildWorkbook(groups, matches)
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook for %s: %w", c, err)
	}
	return &ExportFile{
		Filename: fmt.Sprintf("%s-standings-%s.xlsx", c, s.deps.Now().Format("20060102-150405")),
		Content:  content,
	}, nil
}

func (s *exportService) PublishStandings(ctx context.Context, c models.Competition) (_ *PublishedExport, err error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	file, err := s.StandingsWorkbook(ctx, c)
	if err != nil {
		return nil, err
	}

	defer func(start time.Time) {
		s.deps.observe(ctx, "publish_standings", start, err, slog.String("competition", c.String()))
	}(time.Now())

	key := fmt.Sprintf("exports/%s/standings-%s.xlsx", c, uuid.NewString())
	res, err := s.uploader.Upload(ctx, key, XLSXContentType, bytes.NewReader(file.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to publish standings of %s: %w", c, err)
	}

	out := &PublishedExport{Competition: c, Key: res.Key, URL: res.Location}
	s.deps.Logger.Info("standings published", slog.String("competition", c.String()), slog.String("key", out.Key))
	s.deps.Notifier.Publish(c.String(), EventExportPublished, out)
	return out, nil
}

func buildWorkbook(groups []*models.Group, matches []*models.MatchNode) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for _, g := range groups {
		sheet := fmt.Sprintf(groupSheetPattern, g.Name)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, "A1", &standingsHeader); err != nil {
			return nil, err
		}
		for i, p := range brackets.SortStandings(g.Players) {
			row := []interface{}{i + 1, p.Name, p.MatchesPlayed, p.Wins, p.Draws, p.Losses, p.GoalsFor, p.GoalsAgainst, p.GoalDifference, p.Points}
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return nil, err
			}
		}
		_ = f.SetColWidth(sheet, "B", "B", 24)
	}

	if _, err := f.NewSheet(BracketSheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(BracketSheetName, "A1", &bracketHeader); err != nil {
		return nil, err
	}
	for i, m := range matches {
		winner, _ := m.Winner()
		row := []interface{}{
			m.ID, string(m.Round), string(m.Side),
			derefString(m.Player1), derefString(m.Player2),
			scoreCell(m.Score1), scoreCell(m.Score2),
			string(m.Status), winner,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(BracketSheetName, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(BracketSheetName, "D", "E", 24)

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scoreCell(score *int) interface{} {
	if score == nil {
		return ""
	}
	return *score
}
