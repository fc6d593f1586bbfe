package cache

import (
	"context"
	"testing"

	"rpsarena/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type LeaderboardCacheTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	cache  LeaderboardCache
	ctx    context.Context
}

func (s *LeaderboardCacheTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	cache, err := NewLeaderboardCache(s.client)
	s.Require().NoError(err)
	s.cache = cache
	s.ctx = context.Background()
}

func (s *LeaderboardCacheTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestLeaderboardCacheTestSuite(t *testing.T) {
	suite.Run(t, new(LeaderboardCacheTestSuite))
}

func win(winner string, streak int, loser string) *model.Match {
	return &model.Match{
		RoomCode:   "ABCD",
		Result:     model.ResultWin,
		WinnerName: winner,
		Players: []model.MatchPlayer{
			{Name: winner, Choice: model.Rock, WinStreak: streak, Won: true},
			{Name: loser, Choice: model.Scissors},
		},
	}
}

func (s *LeaderboardCacheTestSuite) TestSaveMatchAndTop() {
	s.Require().NoError(s.cache.SaveMatch(s.ctx, win("Alice", 1, "Bob")))
	s.Require().NoError(s.cache.SaveMatch(s.ctx, win("Alice", 2, "Bob")))
	s.Require().NoError(s.cache.SaveMatch(s.ctx, win("Bob", 1, "Alice")))

	top, err := s.cache.Top(s.ctx, 10)

	s.Require().NoError(err)
	s.Equal([]LeaderboardEntry{
		{Rank: 1, Name: "Alice", Wins: 2, BestStreak: 2, Played: 3},
		{Rank: 2, Name: "Bob", Wins: 1, BestStreak: 1, Played: 3},
	}, top)
}

func (s *LeaderboardCacheTestSuite) TestBestStreakNeverDecreases() {
	s.Require().NoError(s.cache.SaveMatch(s.ctx, win("Alice", 3, "Bob")))
	s.Require().NoError(s.cache.SaveMatch(s.ctx, win("Alice", 1, "Carol")))

	streak, err := s.client.HGet(s.ctx, streaksKey, "Alice").Int()
	s.Require().NoError(err)
	s.Equal(3, streak)
}

func (s *LeaderboardCacheTestSuite) TestDrawRegistersBothPlayers() {
	draw := &model.Match{
		Result: model.ResultDraw,
		Players: []model.MatchPlayer{
			{Name: "Alice", Choice: model.Paper},
			{Name: "Bob", Choice: model.Paper},
		},
	}
	s.Require().NoError(s.cache.SaveMatch(s.ctx, draw))

	top, err := s.cache.Top(s.ctx, 10)

	s.Require().NoError(err)
	s.Len(top, 2)
	for _, entry := range top {
		s.Zero(entry.Wins)
		s.Zero(entry.BestStreak)
		s.Equal(1, entry.Played)
	}
}

func (s *LeaderboardCacheTestSuite) TestTopLimit() {
	s.Require().NoError(s.cache.SaveMatch(s.ctx, win("Alice", 1, "Bob")))

	top, err := s.cache.Top(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal("Alice", top[0].Name)

	empty, err := s.cache.Top(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *LeaderboardCacheTestSuite) TestRedisUnavailable() {
	s.mr.Close()

	s.Error(s.cache.SaveMatch(s.ctx, win("Alice", 1, "Bob")))
	_, err := s.cache.Top(s.ctx, 5)
	s.Error(err)
}

func (s *LeaderboardCacheTestSuite) TestNilArguments() {
	_, err := NewLeaderboardCache(nil)
	s.Error(err)
	s.Error(s.cache.SaveMatch(s.ctx, nil))
}
