package conformance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verity-lang/verity/internal/schema"
)

func TestDefaultSuitePasses(t *testing.T) {
	report := Run(DefaultSuite())

	require.Equal(t, report.Counts.Total, len(DefaultSuite()))
	for _, c := range report.Cases {
		assert.Equal(t, "passed", c.Status, "%s/%s: %s", c.Suite, c.Name, c.Detail)
	}
	assert.Equal(t, 0, report.Counts.Failed)
	assert.Equal(t, report.Counts.Total, report.Counts.Passed)
}

func TestReportToJSONMatchesSchemaTestV1(t *testing.T) {
	report := Run(DefaultSuite())
	data, err := report.ToJSON()
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, schema.TestV1, parsed["schema"])
	assert.True(t, schema.Accepts(parsed["schema"].(string), schema.TestV1))
}

func TestCasesSortedBySuiteThenName(t *testing.T) {
	report := Run(DefaultSuite())
	for i := 1; i < len(report.Cases); i++ {
		prev, cur := report.Cases[i-1], report.Cases[i]
		if prev.Suite != cur.Suite {
			assert.True(t, prev.Suite < cur.Suite)
			continue
		}
		assert.True(t, prev.Name <= cur.Name)
	}
}
