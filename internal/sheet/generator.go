package sheet

import (
	"fmt"
	"math/rand/v2"

	"github.com/okian/mockstats/internal/domain/aggregate"
	"github.com/okian/mockstats/internal/domain/model"
)

// Series written by the generator. The first is committed while seeding,
// the second is left active.
const (
	seedFirstSeries  = "MOCK 1"
	seedSecondSeries = "MOCK 2"
)

var seedElectives = []string{"French", "Religious and Moral Education", "Computing", "Creative Arts"} //nolint:gochecknoglobals // fixed subject list

var seedFacilitators = []string{"A. Mensah", "B. Owusu", "C. Boateng", "D. Asante", "E. Adjei", "F. Darko", "G. Ofori", "H. Appiah"} //nolint:gochecknoglobals // fixed staff list

// performer bands give generated students a spread of abilities.
var performerBands = []struct{ min, spread float64 }{ //nolint:gochecknoglobals // fixed distribution
	{30, 25}, // weak
	{45, 30}, // average
	{55, 30}, // average
	{70, 25}, // strong
	{85, 15}, // elite
}

// generateSchools builds n synthetic schools of students each. Equal seeds
// give equal schools.
func generateSchools(seed uint64, n, students int) []model.SchoolRegistryEntry {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	subjects := append(aggregate.DefaultCoreSubjects(), seedElectives...)

	out := make([]model.SchoolRegistryEntry, 0, n)
	for i := range n {
		id := fmt.Sprintf("seed-%03d", i+1)
		// Schools differ in overall level.
		lift := rng.Float64()*20 - 10

		staff := make([]model.StaffAssignment, 0, len(subjects))
		for j, s := range subjects {
			staff = append(staff, model.StaffAssignment{
				Facilitator: seedFacilitators[(i+j)%len(seedFacilitators)],
				Subject:     s,
			})
		}

		roster := make([]model.StudentRecord, 0, students)
		for k := range students {
			band := performerBands[rng.IntN(len(performerBands))]
			roster = append(roster, model.StudentRecord{
				ID:   fmt.Sprintf("%s-s%03d", id, k+1),
				Name: fmt.Sprintf("Student %d", k+1),
				MockData: map[string]model.SeriesScores{
					seedFirstSeries:  seriesScores(rng, subjects, band.min+lift, band.spread),
					seedSecondSeries: seriesScores(rng, subjects, band.min+lift+rng.Float64()*6-2, band.spread),
				},
			})
		}

		external := map[string][]int{}
		for _, s := range subjects[:aggregate.CoreCount] {
			gvs := make([]int, students)
			for k := range gvs {
				gvs[k] = 1 + rng.IntN(9)
			}
			external[s] = gvs
		}

		out = append(out, model.SchoolRegistryEntry{
			ID:           id,
			Name:         fmt.Sprintf("Seed School %d", i+1),
			Registrant:   "mocksheet",
			StudentCount: students,
			Dataset: model.Dataset{
				Roster:          roster,
				Staff:           staff,
				ExternalResults: external,
				Settings: model.Settings{
					ActiveSeries:  seedFirstSeries,
					GradingMode:   model.ModeNormReferenced,
					SectionMaxima: model.SectionMaxima{SectionA: 40, SectionB: 60},
				},
			},
		})
	}
	return out
}

func seriesScores(rng *rand.Rand, subjects []string, base, spread float64) model.SeriesScores {
	sc := model.SeriesScores{
		Scores:        make(map[string]float64, len(subjects)),
		SectionScores: make(map[string]model.SectionScore, len(subjects)),
	}
	for _, s := range subjects {
		v := clamp(base + rng.Float64()*spread)
		sc.Scores[s] = v
		a := round1(v * 0.4)
		sc.SectionScores[s] = model.SectionScore{SectionA: a, SectionB: round1(v - a)}
	}
	return sc
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return round1(v)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
