package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dyike/StockAnalyzer/internal/analysis"
	"github.com/dyike/StockAnalyzer/internal/dataflows"
	"github.com/dyike/StockAnalyzer/internal/pipeline"
)

const body = `{"Time Series (Daily)": {
	"2024-01-03": {"1. open":"11","2. high":"13","3. low":"10","4. close":"12.1","5. volume":"1200"},
	"2024-01-02": {"1. open":"10","2. high":"12","3. low":"9","4. close":"11","5. volume":"1000"},
	"2024-01-01": {"1. open":"9","2. high":"10","3. low":"8","4. close":"10","5. volume":"800"}
}}`

func payload(symbol, effective string, outcome dataflows.FetchOutcome) *dataflows.Payload {
	return &dataflows.Payload{Symbol: symbol, EffectiveSymbol: effective, Outcome: outcome, Body: []byte(body)}
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	// Arrange: a fetcher returning a successful payload.
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), "AAPL").
		Return(payload("AAPL", "AAPL", dataflows.OutcomeSuccess), dataflows.OutcomeSuccess, nil).
		Times(1)

	// Act: run every stage.
	p := pipeline.New(fetcher, "aapl")
	result, err := p.Run(context.Background())

	// Assert: all stages complete and both derived columns exist.
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageReturnSeriesComputed, p.Stage())
	assert.Equal(t, "AAPL", result.EffectiveSymbol)
	assert.Equal(t, dataflows.OutcomeSuccess, result.Outcome)
	require.NotNil(t, result.Series)
	assert.Equal(t, 3, result.Series.Len())
	assert.True(t, result.Series.HasDailyReturn)
	assert.True(t, result.Series.HasCumulativeReturn)
	assert.Equal(t, 2, result.Summary.Count)
	assert.InDelta(t, 0.1, result.Summary.Mean, 1e-12)
	assert.InDelta(t, 1.21, result.Series.Rows[2].CumulativeReturn, 1e-12)
}

func TestRun_RateLimitedRelabels(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), "TSLA").
		Return(payload("TSLA", "IBM", dataflows.OutcomeRateLimited), dataflows.OutcomeRateLimited, nil)

	result, err := pipeline.New(fetcher, "TSLA").Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "TSLA", result.Symbol)
	assert.Equal(t, "IBM", result.EffectiveSymbol)
	assert.Equal(t, "IBM", result.Series.Symbol)
	assert.Equal(t, dataflows.OutcomeRateLimited, result.Outcome)
}

func TestRun_InvalidTickerHalts(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), "XXXX").
		Return(nil, dataflows.OutcomeInvalidTickerOrKey, dataflows.ErrInvalidTickerOrKey)

	p := pipeline.New(fetcher, "XXXX")
	result, err := p.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, dataflows.ErrInvalidTickerOrKey)
	assert.Equal(t, pipeline.StageUninitialized, p.Stage())
	assert.Equal(t, dataflows.OutcomeInvalidTickerOrKey, result.Outcome)
	assert.Nil(t, result.Series)
}

func TestRun_TransportErrorSurfaces(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	transportErr := &dataflows.TransportError{Symbol: "AAPL", Err: errors.New("connection reset by peer")}
	fetcher.EXPECT().
		Fetch(gomock.Any(), "AAPL").
		Return(nil, dataflows.OutcomeUnknown, transportErr)

	p := pipeline.New(fetcher, "AAPL")
	_, err := p.Run(context.Background())

	var target *dataflows.TransportError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, pipeline.StageUninitialized, p.Stage())
}

func TestStages_OutOfOrder(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	p := pipeline.New(fetcher, "AAPL")

	// Act + Assert: nothing has been fetched yet.
	err := p.Clean()
	var stageErr *pipeline.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.ErrorIs(t, err, analysis.ErrEmptyDataset)
	assert.Equal(t, pipeline.StageFetched, stageErr.Want)
	assert.Equal(t, pipeline.StageUninitialized, stageErr.Got)

	err = p.ComputeMetrics()
	assert.ErrorIs(t, err, analysis.ErrDataNotCleaned)

	err = p.AddCumulativeReturn()
	assert.ErrorIs(t, err, analysis.ErrDataNotCleaned)

	assert.Equal(t, pipeline.StageUninitialized, p.Stage())
	assert.Nil(t, p.Result().Series)
}

func TestStages_MetricsBeforeClean(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), "AAPL").
		Return(payload("AAPL", "AAPL", dataflows.OutcomeSuccess), dataflows.OutcomeSuccess, nil)

	p := pipeline.New(fetcher, "AAPL")
	require.NoError(t, p.Fetch(context.Background()))

	err := p.ComputeMetrics()
	assert.ErrorIs(t, err, analysis.ErrDataNotCleaned)
	assert.Equal(t, pipeline.StageFetched, p.Stage())
	assert.Zero(t, p.Result().Summary.Count)
}

func TestStages_CumulativeBeforeMetrics(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), "AAPL").
		Return(payload("AAPL", "AAPL", dataflows.OutcomeSuccess), dataflows.OutcomeSuccess, nil)

	p := pipeline.New(fetcher, "AAPL")
	require.NoError(t, p.Fetch(context.Background()))
	require.NoError(t, p.Clean())

	err := p.AddCumulativeReturn()
	assert.ErrorIs(t, err, pipeline.ErrMetricsNotComputed)
	assert.Equal(t, pipeline.StageCleaned, p.Stage())
}

func TestStages_RepeatedStep(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), "AAPL").
		Return(payload("AAPL", "AAPL", dataflows.OutcomeSuccess), dataflows.OutcomeSuccess, nil).
		Times(1)

	p := pipeline.New(fetcher, "AAPL")
	require.NoError(t, p.Fetch(context.Background()))
	assert.ErrorIs(t, p.Fetch(context.Background()), pipeline.ErrStageCompleted)

	require.NoError(t, p.Clean())
	assert.ErrorIs(t, p.Clean(), pipeline.ErrStageCompleted)
}

func TestStage_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cleaned", pipeline.StageCleaned.String())
	assert.Equal(t, "stage(9)", pipeline.Stage(9).String())
}
