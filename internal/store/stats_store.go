package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlayerStats is a per-user win/loss tally across finished matches.
type PlayerStats struct {
	UserID    string
	Wins      int
	Losses    int
	UpdatedAt time.Time
}

type StatsStore struct {
	db *pgxpool.Pool
}

func NewStatsStore(db *pgxpool.Pool) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) InitForUser(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO player_stats (user_id, wins, losses)
		VALUES ($1, 0, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

func (s *StatsStore) Get(ctx context.Context, userID string) (PlayerStats, error) {
	var st PlayerStats
	err := s.db.QueryRow(ctx, `
		SELECT user_id, wins, losses, updated_at
		FROM player_stats
		WHERE user_id=$1
	`, userID).Scan(&st.UserID, &st.Wins, &st.Losses, &st.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// missing stats row is not fatal, report zeros
		return PlayerStats{UserID: userID}, nil
	}
	if err != nil {
		return PlayerStats{}, err
	}
	return st, nil
}

// RecordMatch bumps wins for the winning team's players and losses for the
// rest. Guest ids without a stats row are skipped by the upsert-free update.
func (s *StatsStore) RecordMatch(ctx context.Context, winnerIDs, loserIDs []string) error {
	if len(winnerIDs)+len(loserIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range winnerIDs {
		batch.Queue(`UPDATE player_stats SET wins = wins + 1, updated_at = now() WHERE user_id = $1`, id)
	}
	for _, id := range loserIDs {
		batch.Queue(`UPDATE player_stats SET losses = losses + 1, updated_at = now() WHERE user_id = $1`, id)
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
