package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
)

var tableFixture = []SectionStat{
	{DisplayName: "North", Total: 10, Occupied: 2, Rate: 0.2},
	{DisplayName: "St. Leo's", Total: 4, Occupied: 4, Rate: 1},
	{DisplayName: "Garden", Total: 30, Occupied: 15, Rate: 0.5},
}

func TestParseSortField(t *testing.T) {
	f, err := ParseSortField("")
	require.NoError(t, err)
	assert.Equal(t, SortByRate, f)

	f, err = ParseSortField("Total")
	require.NoError(t, err)
	assert.Equal(t, SortByTotal, f)

	_, err = ParseSortField("color")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	assert.Len(t, Filter(tableFixture, ""), 3)

	got := Filter(tableFixture, "leo")
	require.Len(t, got, 1)
	assert.Equal(t, "St. Leo's", got[0].DisplayName)

	assert.Empty(t, Filter(tableFixture, "zzz"))
}

func TestSort(t *testing.T) {
	byRate := Sort(tableFixture, SortByRate, true)
	assert.Equal(t, "St. Leo's", byRate[0].DisplayName)
	assert.Equal(t, "North", byRate[2].DisplayName)

	byName := Sort(tableFixture, SortByName, false)
	assert.Equal(t, []string{"Garden", "North", "St. Leo's"},
		[]string{byName[0].DisplayName, byName[1].DisplayName, byName[2].DisplayName})

	byTotal := Sort(tableFixture, SortByTotal, false)
	assert.Equal(t, 4, byTotal[0].Total)

	// input untouched
	assert.Equal(t, "North", tableFixture[0].DisplayName)
}

func TestFilterByStatus(t *testing.T) {
	plots := []models.Feature{
		plot(models.Properties{"LOTSTATUS": "Has Burial"}),
		plot(models.Properties{"LOTSTATUS": "Reserved"}),
		plot(models.Properties{}),
	}

	assert.Len(t, FilterByStatus(plots, ""), 3)
	assert.Len(t, FilterByStatus(plots, models.StatusOccupied), 1)
	assert.Len(t, FilterByStatus(plots, models.StatusReserved), 1)
	assert.Len(t, FilterByStatus(plots, models.StatusAvailable), 1)
}
