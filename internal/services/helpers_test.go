package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"polio-eradicator/internal/logger"
	"polio-eradicator/internal/models"
)

const scenarioOne = `{
	"A": {"coordinates": [10, 20], "occurrences": {"2000": 5, "2001": 0}},
	"B": {"coordinates": [30, 40], "occurrences": {"2000": 10, "2001": 0}}
}`

func decode(t *testing.T, doc string) *models.Dataset {
	t.Helper()
	ds, err := DecodeDataset(strings.NewReader(doc))
	require.NoError(t, err)
	return ds
}

func newService(policy YearPolicy) *DatasetService {
	return NewDatasetService(logger.NewNop(), IndexOptions{Policy: policy})
}
