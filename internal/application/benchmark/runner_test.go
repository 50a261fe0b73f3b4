package benchmark_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/trekbot-go/internal/application/benchmark"
	"github.com/andrescamacho/trekbot-go/internal/application/player"
	"github.com/andrescamacho/trekbot-go/internal/domain/game"
	"github.com/andrescamacho/trekbot-go/internal/domain/strategy"
	"github.com/andrescamacho/trekbot-go/test/helpers"
)

func TestRunner_PlaysEveryRequestedGame(t *testing.T) {
	// Arrange
	var played int64
	play := func(ctx context.Context, index int) (player.Result, error) {
		atomic.AddInt64(&played, 1)
		return player.Result{Outcome: game.OutcomeLost, Turns: 10}, nil
	}
	runner := benchmark.NewRunner(play, benchmark.Options{Games: 8, Concurrency: 3})

	// Act
	report, err := runner.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.EqualValues(t, 8, played)
	assert.Len(t, report.Games, 8)
	assert.Equal(t, 8, report.Count(game.OutcomeLost))
}

func TestRunner_ConcurrencyIsBounded(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	inFlight, peak := 0, 0
	play := func(ctx context.Context, index int) (player.Result, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return player.Result{Outcome: game.OutcomeWon}, nil
	}
	runner := benchmark.NewRunner(play, benchmark.Options{Games: 10, Concurrency: 2})

	// Act
	_, err := runner.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.LessOrEqual(t, peak, 2)
}

func TestRunner_AbortedGamesAreRecordedNotFatal(t *testing.T) {
	// Arrange - every other game aborts
	play := func(ctx context.Context, index int) (player.Result, error) {
		if index%2 == 0 {
			return player.Result{Outcome: game.OutcomeAborted, FaultReason: "output ended mid-game"}, nil
		}
		return player.Result{Outcome: game.OutcomeWon, Turns: 30}, nil
	}
	runner := benchmark.NewRunner(play, benchmark.Options{Games: 6})

	// Act
	report, err := runner.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, report.Count(game.OutcomeAborted))
	assert.Equal(t, 3, report.Count(game.OutcomeWon))
	assert.Equal(t, 1.0, report.WinRate(), "aborted games do not dilute the win rate")
}

func TestRunner_FatalGameErrorStopsNewGames(t *testing.T) {
	// Arrange
	defect := errors.New("strategy produced an illegal command")
	var played int64
	play := func(ctx context.Context, index int) (player.Result, error) {
		atomic.AddInt64(&played, 1)
		return player.Result{Outcome: game.OutcomeAborted}, defect
	}
	runner := benchmark.NewRunner(play, benchmark.Options{Games: 50, Concurrency: 1})

	// Act
	report, err := runner.Run(context.Background())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, defect)
	assert.Less(t, played, int64(50), "the run must stop early")
	assert.NotEmpty(t, report.Games, "finished games stay recorded")
}

func TestRunner_CancellationStopsNewGamesButKeepsResults(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	var played int64
	play := func(ctx context.Context, index int) (player.Result, error) {
		if atomic.AddInt64(&played, 1) == 3 {
			cancel()
		}
		return player.Result{Outcome: game.OutcomeLost}, nil
	}
	runner := benchmark.NewRunner(play, benchmark.Options{Games: 100, Concurrency: 1})

	// Act
	report, err := runner.Run(ctx)

	// Assert
	require.NoError(t, err)
	assert.Less(t, int64(len(report.Games)), int64(100))
	assert.GreaterOrEqual(t, len(report.Games), 3)
}

func TestRunner_SeededGamesAreIndependentOfBatchSize(t *testing.T) {
	// Arrange - every game replays the same transcript against a random
	// strategy seeded by its game index
	collect := func(games, concurrency int) map[int][]string {
		var mu sync.Mutex
		writes := make(map[int][]string)
		play := func(ctx context.Context, index int) (player.Result, error) {
			conn := helpers.NewScriptedConn(
				helpers.Exchange{Lines: []string{"COMMAND?"}},
				helpers.Exchange{Lines: []string{"COMMAND?"}},
				helpers.Exchange{Lines: []string{"MISSION ACCOMPLISHED"}},
			)
			p := player.New(conn, strategy.NewRandom(1000+int64(index)), player.Options{
				ReadTimeout:    time.Second,
				WallClock:      5 * time.Second,
				MaxTurns:       10,
				TerminateGrace: 10 * time.Millisecond,
			})
			result, err := p.Play(ctx)
			mu.Lock()
			writes[index] = conn.Writes()
			mu.Unlock()
			return result, err
		}
		runner := benchmark.NewRunner(play, benchmark.Options{Games: games, Concurrency: concurrency})
		_, err := runner.Run(context.Background())
		require.NoError(t, err)
		return writes
	}

	// Act
	solo := collect(1, 1)
	batch := collect(5, 3)
	rerun := collect(5, 3)

	// Assert - game 0 plays identically alone or inside a batch, and the
	// whole batch replays identically
	require.Len(t, batch, 5)
	assert.Equal(t, solo[0], batch[0])
	assert.Equal(t, batch, rerun)
}

func TestRunner_NoGamesStarted(t *testing.T) {
	// Arrange - the context is already dead
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	play := func(ctx context.Context, index int) (player.Result, error) {
		t.Fatal("no game should start")
		return player.Result{}, nil
	}
	runner := benchmark.NewRunner(play, benchmark.Options{Games: 5})

	// Act
	_, err := runner.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, benchmark.ErrNoGamesStarted)
}
