package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/prbeaches/directory/api/internal/config"
	"github.com/prbeaches/directory/api/internal/logging"
	"github.com/prbeaches/directory/api/internal/public/domain"
	"github.com/prbeaches/directory/api/internal/server"
)

type seedOptions struct {
	envDir      string
	envName     string
	reviewCount int
	pending     int
	randomSeed  int64
}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envDir, opts.envName); err != nil {
		logging.Fatal().Err(err).Msg("failed to read env files")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console", Output: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	store, err := server.OpenDatastore(ctx, cfg.Datastore)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open datastore")
	}
	defer func() {
		_ = store.Close(context.Background())
	}()

	beaches := catalog()
	for i := range beaches {
		if err := store.Beaches.Upsert(ctx, &beaches[i]); err != nil {
			logging.Fatal().Err(err).Str("slug", beaches[i].Slug).Msg("failed to upsert beach")
		}
	}
	logging.Info().Int("beaches", len(beaches)).Str("driver", store.Driver).Msg("catalogue upserted")

	rng := rand.New(rand.NewSource(opts.randomSeed))
	reviews := generateReviews(rng, beaches, opts.reviewCount, opts.pending)
	for i := range reviews {
		if err := store.Reviews.Create(ctx, &reviews[i]); err != nil {
			logging.Fatal().Err(err).Str("beach_id", reviews[i].BeachID).Msg("failed to insert review")
		}
	}

	for _, b := range beaches {
		facet, err := store.AdminReviews.RecalculateCommunity(ctx, b.ID)
		if err != nil {
			logging.Fatal().Err(err).Str("beach_id", b.ID).Msg("failed to rebuild community rating")
		}
		logging.Debug().Str("slug", b.Slug).Int("count", facet.Count).Msg("community rating rebuilt")
	}

	logging.Info().
		Int("reviews", len(reviews)).
		Int("pending", min(opts.pending, len(reviews))).
		Int64("seed", opts.randomSeed).
		Msg("seed complete")
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envDir, "env-dir", "env", "directory holding shared.env and <env>.env")
	flag.StringVar(&opts.envName, "env", "local", "env file name, e.g. local or staging")
	flag.IntVar(&opts.reviewCount, "reviews", 240, "community reviews to generate across all beaches")
	flag.IntVar(&opts.pending, "pending", 8, "how many generated reviews stay pending moderation")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "random seed for reproducible data")
	flag.Parse()

	if opts.reviewCount < 0 {
		opts.reviewCount = 0
	}
	if opts.pending < 0 {
		opts.pending = 0
	}
	return opts
}

// loadEnvFiles reads shared.env then <env>.env when present. Variables already set in the
// process win.
func loadEnvFiles(dir, envName string) error {
	for _, name := range []string{"shared.env", fmt.Sprintf("%s.env", envName)} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

var reviewComments = []string{
	"Crystal clear water and easy parking before 10am.",
	"Busy on Sunday afternoon but worth it for the sunset.",
	"Great snorkeling along the reef on the left side.",
	"Bring water shoes, the entrance is rocky.",
	"Kiosks nearby had the best alcapurrias we tried.",
	"Strong current today, lifeguards kept everyone close to shore.",
	"Quiet weekday visit, had the whole cove to ourselves.",
	"Sargassum in the morning, cleared up after lunch.",
	"Perfect spot for kids, calm and shallow.",
	"Waves were firing, lots of surfers out at dawn.",
}

var reviewerNames = []string{
	"Marisol", "Javier", "Carmen", "Luis", "Ana", "Gabriel", "Yaritza", "Héctor", "Nilda", "Pedro",
}

// generateReviews spreads total reviews across beaches, skewing toward the first entries so some
// beaches pass the community threshold and others keep the third-party rating.
func generateReviews(rng *rand.Rand, beaches []domain.Beach, total, pending int) []domain.Review {
	if len(beaches) == 0 || total == 0 {
		return nil
	}
	now := time.Now().UTC()
	reviews := make([]domain.Review, 0, total)
	for i := range total {
		b := beaches[skewedIndex(rng, len(beaches))]
		status := domain.ReviewApproved
		if i < pending {
			status = domain.ReviewPending
		}
		created := now.Add(-time.Duration(rng.Intn(180*24)) * time.Hour)
		reviews = append(reviews, domain.Review{
			BeachID:    b.ID,
			AuthorID:   fmt.Sprintf("seed-user-%03d", rng.Intn(400)),
			AuthorName: reviewerNames[rng.Intn(len(reviewerNames))],
			Rating:     ratingNear(rng, b.ThirdParty),
			Comment:    reviewComments[rng.Intn(len(reviewComments))],
			Status:     status,
			CreatedAt:  created,
			UpdatedAt:  created,
		})
	}
	return reviews
}

func skewedIndex(rng *rand.Rand, n int) int {
	a, b := rng.Intn(n), rng.Intn(n)
	return min(a, b)
}

// ratingNear draws a 1..5 star rating centred on the beach's third-party score.
func ratingNear(rng *rand.Rand, facet domain.RatingFacet) int {
	centre := 4.2
	if facet.Value != nil {
		centre = *facet.Value
	}
	r := int(centre + rng.NormFloat64()*0.8 + 0.5)
	return max(1, min(5, r))
}
