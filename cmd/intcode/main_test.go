package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/config"
)

func TestCircuitFlags(t *testing.T) {
	seven := int64(7)

	table := map[string]struct {
		text     string
		phases   string
		feedback bool
		signal   *int64
		mode     string
		values   []int64
		output   int64
	}{
		"config-feedback": {
			text: `
[program]
source = "99"

[circuit]
phases = [0, 1]
mode = "feedback"
signal = 3
`,
			phases: "9,8,7,6,5",
			mode:   config.CIRCUIT_MODE_FEEDBACK,
			values: []int64{9, 8, 7, 6, 5},
			output: 3,
		},
		"config-series": {
			text: `
[program]
source = "99"

[circuit]
phases = [0, 1]
signal = 3
`,
			phases:   "9,8",
			feedback: true,
			signal:   &seven,
			mode:     config.CIRCUIT_MODE_FEEDBACK,
			values:   []int64{9, 8},
			output:   7,
		},
		"no-config": {
			phases: "4,3,2,1,0",
			mode:   config.CIRCUIT_MODE_SERIES,
			values: []int64{4, 3, 2, 1, 0},
		},
		"no-phases": {
			text: `
[program]
source = "99"

[circuit]
phases = [5, 6]
mode = "feedback"
`,
			mode:   config.CIRCUIT_MODE_FEEDBACK,
			values: []int64{5, 6},
		},
	}

	for name, test := range table {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			cfg := &config.Config{}
			if len(test.text) != 0 {
				var err error
				cfg, err = config.Parse([]byte(test.text), "")
				assert.NoError(err)
				if err != nil {
					t.FailNow()
				}
			}

			err := circuitFlags(cfg, test.phases, test.feedback, test.signal)
			assert.NoError(err)
			assert.Equal(test.mode, cfg.Circuit.Mode)
			assert.Equal(test.values, cfg.Circuit.Phases)
			assert.Equal(test.output, cfg.Circuit.Signal)
		})
	}
}

func TestCircuitFlagsInvalid(t *testing.T) {
	assert := assert.New(t)

	cfg := &config.Config{}
	err := circuitFlags(cfg, "1,x,3", false, nil)
	assert.Error(err)
	assert.Empty(cfg.Circuit.Phases)
}
