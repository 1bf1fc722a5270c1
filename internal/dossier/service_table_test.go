package dossier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/dossier-builder/internal/types"
)

func TestServiceRows_SkipsIncompleteRotations(t *testing.T) {
	rows := serviceRows([]types.TrainingRecord{
		&types.RotationRecord{ID: "open", Title: "Pågående", StartDate: "2024-01-01"},
		&types.RotationRecord{ID: "bad", Title: "Okänd", StartDate: "jan 2024", EndDate: "2024-02-01"},
		&types.RotationRecord{ID: "reversed", Title: "Baklänges", StartDate: "2024-02-01", EndDate: "2024-01-01"},
		&types.CourseRecord{ID: "k1", Title: "Kurs", StartDate: "2024-01-01", EndDate: "2024-01-03"},
		&types.RotationRecord{ID: "ok", Title: "Medicin", StartDate: "2024-01-01T00:00:00Z", EndDate: "2024-01-31", PercentFTE: 75},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Medicin", rows[0].title)
	assert.Equal(t, 75.0, rows[0].percent)
	// 31 days at 75% is 0.76 full-time months.
	assert.Equal(t, 0.8, rows[0].months())
}

func TestServiceTable_ColumnsAndTotal(t *testing.T) {
	rows := serviceRows([]types.TrainingRecord{
		&types.RotationRecord{Title: "Kirurgi", StartDate: "2023-07-01", EndDate: "2023-12-31", AcuteCare: true},
		&types.RotationRecord{Title: "Psykiatri", Site: "Psykiatriska kliniken", StartDate: "2023-01-01", EndDate: "2023-03-31", PercentFTE: 100},
	})

	table := serviceTable(rows)

	assert.Equal(t, "Psykiatriska kliniken\nKirurgi", table[keyServiceTitles])
	assert.Equal(t, "2023-01-01 - 2023-03-31\n2023-07-01 - 2023-12-31", table[keyServicePeriods])
	assert.Equal(t, "100%\n100%", table[keyServicePercent])
	assert.Equal(t, "3\n6", table[keyServiceMonths])
	assert.Equal(t, "9", table[keyServiceTotal])
	assert.Equal(t, "", table[keyPrimaryCare])
	assert.Equal(t, "Kirurgi", table[keyAcuteCare])
}

func TestServiceTable_Empty(t *testing.T) {
	assert.Nil(t, serviceTable(nil))
}
