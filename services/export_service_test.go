package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/tournament-scoreboard/models"
)

func TestStandingsWorkbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seededBracket(t, models.CompetitionFIFA)
	groups := NewGroupService(f.deps)
	_, err := groups.InitializeGroups(ctx, models.CompetitionFIFA)
	require.NoError(t, err)
	for _, p := range []string{"Low", "High"} {
		_, err := groups.AddPlayer(ctx, models.CompetitionFIFA, "A", p)
		require.NoError(t, err)
	}
	_, err = groups.RecordMatch(ctx, models.CompetitionFIFA, "A", GroupMatchInput{PlayerA: "High", PlayerB: "Low", ScoreA: 3, ScoreB: 0})
	require.NoError(t, err)

	file, err := NewExportService(f.deps, nil).StandingsWorkbook(ctx, models.CompetitionFIFA)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Filename, "fifa-standings-"))

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer wb.Close()

	sheets := wb.GetSheetList()
	assert.Len(t, sheets, 9)
	assert.Equal(t, "Group A", sheets[0])
	assert.Contains(t, sheets, BracketSheetName)

	rows, err := wb.GetRows("Group A")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "High", rows[1][1])
	assert.Equal(t, "3", rows[1][9])
	assert.Equal(t, "Low", rows[2][1])

	bracketRows, err := wb.GetRows(BracketSheetName)
	require.NoError(t, err)
	assert.Len(t, bracketRows, 17)
	assert.Equal(t, "L-R16-1", bracketRows[1][0])
}

func TestPublishStandings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seededBracket(t, models.CompetitionTableTennis)

	_, err := NewExportService(f.deps, nil).PublishStandings(ctx, models.CompetitionTableTennis)
	assert.ErrorIs(t, err, ErrUploadsDisabled)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	uploader := newMemoryUploader()
	out, err := NewExportService(f.deps, uploader).PublishStandings(ctx, models.CompetitionTableTennis)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Key, "exports/table-tennis/standings-"))
	assert.True(t, strings.HasSuffix(out.Key, ".xlsx"))
	assert.Equal(t, "https://cdn.test/"+out.Key, out.URL)
	assert.NotEmpty(t, uploader.objects[out.Key])
	assert.Equal(t, XLSXContentType, uploader.types[out.Key])
	assert.Contains(t, f.notifier.types(), EventExportPublished)
}
