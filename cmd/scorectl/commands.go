package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dosada05/tournament-scoreboard/app"
	"github.com/Dosada05/tournament-scoreboard/config"
	"github.com/Dosada05/tournament-scoreboard/middleware"
	"github.com/Dosada05/tournament-scoreboard/models"
)

var (
	competitionFlag string
	rosterPath      string
	survivalName    string
	tokenSubject    string
	tokenTTL        time.Duration
)

func init() {
	seedCmd.PersistentFlags().StringVarP(&competitionFlag, "competition", "c", string(models.CompetitionFIFA), "Competition key (fifa, table-tennis)")
	seedGroupsCmd.Flags().StringVar(&rosterPath, "roster", "", "JSON file mapping group names to player lists")
	seedSurvivalCmd.Flags().StringVar(&survivalName, "name", "", "Tournament display name")

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "Token lifetime")

	seedCmd.AddCommand(seedBracketCmd, seedGroupsCmd, seedSurvivalCmd)
	rootCmd.AddCommand(seedCmd, tokenCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create initial competition state",
}

var seedBracketCmd = &cobra.Command{
	Use:   "bracket",
	Short: "Create the empty knockout bracket for a competition",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := models.ParseCompetition(competitionFlag)
		if err != nil {
			return err
		}
		return withServices(cmd.Context(), func(ctx context.Context, svc *app.Services) error {
			matches, err := svc.Bracket.SeedBracket(ctx, c)
			if err != nil {
				return err
			}
			logger.Info("bracket seeded", "competition", c, "matches", len(matches))
			return nil
		})
	},
}

var seedGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Create groups A-H, optionally filling them from a roster file",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := models.ParseCompetition(competitionFlag)
		if err != nil {
			return err
		}
		var roster map[string][]string
		if rosterPath != "" {
			f, err := os.Open(rosterPath)
			if err != nil {
				return fmt.Errorf("open roster: %w", err)
			}
			defer f.Close()
			if roster, err = parseRoster(f); err != nil {
				return err
			}
		}
		return withServices(cmd.Context(), func(ctx context.Context, svc *app.Services) error {
			if _, err := svc.Groups.InitializeGroups(ctx, c); err != nil {
				return err
			}
			added := 0
			for _, group := range models.GroupNames {
				for _, name := range roster[group] {
					if _, err := svc.Groups.AddPlayer(ctx, c, group, name); err != nil {
						return fmt.Errorf("group %s, player %q: %w", group, name, err)
					}
					added++
				}
			}
			logger.Info("groups initialized", "competition", c, "players", added)
			return nil
		})
	},
}

var seedSurvivalCmd = &cobra.Command{
	Use:   "survival",
	Short: "Reset the darts survival tournament",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, svc *app.Services) error {
			t, err := svc.Survival.Reset(ctx, survivalName)
			if err != nil {
				return err
			}
			logger.Info("survival tournament reset", "id", t.ID, "name", t.Name)
			return nil
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin JWT for the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		token, err := middleware.IssueToken([]byte(cfg.JWTSecretKey), tokenSubject, middleware.RoleAdmin, tokenTTL, time.Now())
		if err != nil {
			return err
		}
		logger.Debug("token issued", "subject", tokenSubject, "ttl", tokenTTL)
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

// withServices opens the configured store for the duration of fn.
func withServices(ctx context.Context, fn func(ctx context.Context, svc *app.Services) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("memory storage selected; seeded state will not outlive this command")
	}
	store, closeStore, err := app.OpenStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()
	return fn(ctx, app.NewServices(store, nil, nil, nil, logger))
}

// parseRoster reads {"A": ["p1", "p2"], ...}. Unknown group names are rejected.
func parseRoster(r io.Reader) (map[string][]string, error) {
	var roster map[string][]string
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&roster); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	for group := range roster {
		if !models.IsGroupName(group) {
			return nil, fmt.Errorf("roster: unknown group %q", group)
		}
	}
	return roster, nil
}
