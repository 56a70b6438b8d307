// Package fixtures generates deterministic result corpora for seeding the
// memory backend and exercising the service end to end.
package fixtures

import (
	"math/rand"

	"github.com/natigahub/natiga/internal/domain/model"
)

// Generation tuning constants.
const (
	firstSeatNo   = 100_001
	categoryCount = 5
	gradeMin      = 50.0
	gradeRange    = 50.0

	// One record in ungradedEvery has no grade yet; one in uncategorizedEvery
	// is missing its category.
	ungradedEvery      = 17
	uncategorizedEvery = 29
)

// Name part pools. Full names are three tokens, matching the corpus the
// service searches in production.
var (
	firstNames = []string{
		"Ahmed", "Mohamed", "Mahmoud", "Omar", "Youssef", "Khaled", "Tarek",
		"Sara", "Mona", "Nour", "Aya", "Fatma", "Salma", "Hana", "Mariam",
	}
	middleNames = []string{
		"Mohamed", "Ahmed", "Hassan", "Hussein", "Ali", "Ibrahim", "Mostafa",
		"Adel", "Samir", "Kamal", "Fouad", "Said", "Gamal", "Nabil", "Ramadan",
	}
	lastNames = []string{
		"Ali", "Hassan", "Ibrahim", "Mahmoud", "Abdelrahman", "Elsayed",
		"Farag", "Ghanem", "Khalil", "Mansour", "Osman", "Radwan", "Shaker",
		"Tawfik", "Zaki",
	}
)

// Generate produces count records with deterministic content for a given
// seed. Seat numbers are sequential and unique; most records carry a grade
// and category, a few are left ungraded or uncategorized the way a live
// results table is mid-publication.
func Generate(seed int64, count int) []model.ResultRecord {
	if count <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	records := make([]model.ResultRecord, 0, count)

	for i := 0; i < count; i++ {
		rec := model.ResultRecord{
			Name: firstNames[rng.Intn(len(firstNames))] + " " +
				middleNames[rng.Intn(len(middleNames))] + " " +
				lastNames[rng.Intn(len(lastNames))],
			SeatNo: int64(firstSeatNo + i),
		}

		if (i+1)%uncategorizedEvery != 0 {
			rec.Category = model.Int64Ptr(int64(rng.Intn(categoryCount) + 1))
		}
		if (i+1)%ungradedEvery != 0 {
			rec.Grade = model.Float64Ptr(gradeMin + rng.Float64()*gradeRange)
		}

		records = append(records, rec)
	}

	return records
}
