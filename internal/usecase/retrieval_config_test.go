package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRetrievalConfig_IsValid(t *testing.T) {
	cfg := DefaultRetrievalConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50, cfg.LexicalLimit)
	assert.Equal(t, 50, cfg.DenseLimit)
	assert.Equal(t, 30, cfg.MMRPoolSize)
	assert.Equal(t, 0.7, cfg.MMRLambda)
	assert.Equal(t, 8, cfg.FinalK)
	assert.True(t, cfg.Reranking.Enabled)
	assert.Equal(t, time.Hour, cfg.Reranking.CacheTTL)
}

func TestRetrievalConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RetrievalConfig)
		errMsg string
	}{
		{
			name:   "zero lexical limit",
			mutate: func(c *RetrievalConfig) { c.LexicalLimit = 0 },
			errMsg: "lexicalLimit",
		},
		{
			name:   "negative dense limit",
			mutate: func(c *RetrievalConfig) { c.DenseLimit = -1 },
			errMsg: "denseLimit",
		},
		{
			name:   "zero mmr pool",
			mutate: func(c *RetrievalConfig) { c.MMRPoolSize = 0 },
			errMsg: "mmrPoolSize",
		},
		{
			name:   "lambda above one",
			mutate: func(c *RetrievalConfig) { c.MMRLambda = 1.5 },
			errMsg: "mmrLambda",
		},
		{
			name:   "lambda below zero",
			mutate: func(c *RetrievalConfig) { c.MMRLambda = -0.1 },
			errMsg: "mmrLambda",
		},
		{
			name:   "zero finalK",
			mutate: func(c *RetrievalConfig) { c.FinalK = 0 },
			errMsg: "finalK",
		},
		{
			name: "finalK exceeds pool",
			mutate: func(c *RetrievalConfig) {
				c.FinalK = 40
				c.MMRPoolSize = 30
			},
			errMsg: "must not exceed",
		},
		{
			name: "enabled reranking needs positive ttl",
			mutate: func(c *RetrievalConfig) {
				c.Reranking.Enabled = true
				c.Reranking.CacheTTL = 0
			},
			errMsg: "cacheTTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRetrievalConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRetrievalConfig_LambdaBoundsValid(t *testing.T) {
	for _, lambda := range []float64{0.0, 0.5, 1.0} {
		cfg := DefaultRetrievalConfig()
		cfg.MMRLambda = lambda
		assert.NoError(t, cfg.Validate())
	}
}

func TestRerankingConfig_DisabledSkipsValidation(t *testing.T) {
	cfg := DefaultRetrievalConfig()
	cfg.Reranking.Enabled = false
	cfg.Reranking.CacheTTL = 0

	assert.NoError(t, cfg.Validate())
}
