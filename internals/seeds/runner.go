package seeds

import (
	"math/rand/v2"
	"time"

	"gorm.io/gorm"

	"library_backend/internals/seeds/library"
)

func RunAllSeeds(db *gorm.DB) error {
	seed := uint64(time.Now().UnixNano())
	rng := rand.New(rand.NewPCG(seed, seed>>1))

	//* Library
	return library.SeedLibrary(db, rng)
}
