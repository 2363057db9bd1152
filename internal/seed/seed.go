// Package seed populates the phonebook with deterministic sample mappings
// for local development and load testing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/utafrali/phonebook/internal/domain"
	apperrors "github.com/utafrali/phonebook/pkg/errors"
)

// Creator is satisfied by *service.AddressService.
type Creator interface {
	Create(ctx context.Context, phone, address string) (*domain.Address, error)
}

// Result summarizes a seeding run.
type Result struct {
	Created int
	Skipped int // phone already mapped
}

var streets = []string{
	"Lavochkina", "Sovetskaya", "Tverskaya", "Arbat", "Pokrovka",
	"Myasnitskaya", "Petrovka", "Nevsky Prospekt", "Bolshaya Ordynka",
	"Leninsky Prospekt", "Profsoyuznaya", "Sadovaya", "Kutuzovsky Prospekt",
}

var cities = []string{"Moscow", "Saint Petersburg", "Kazan", "Novosibirsk", "Yekaterinburg"}

// Generate returns n distinct mappings derived from seed. The same seed
// always yields the same mappings.
func Generate(seed int64, n int) []domain.Address {
	rng := rand.New(rand.NewSource(seed))
	seen := make(map[string]struct{}, n)
	out := make([]domain.Address, 0, n)

	for len(out) < n {
		// Russian mobile numbers: +7 9XX XXX XX XX.
		p := fmt.Sprintf("+79%09d", rng.Intn(1_000_000_000))
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		addr := fmt.Sprintf("%s, %s %d, apt %d",
			cities[rng.Intn(len(cities))],
			streets[rng.Intn(len(streets))],
			1+rng.Intn(150),
			1+rng.Intn(300),
		)
		out = append(out, domain.Address{PhoneNumber: p, Address: addr})
	}
	return out
}

// Run creates every mapping through c. Existing phones are skipped; any other
// error aborts the run.
func Run(ctx context.Context, c Creator, mappings []domain.Address, logger *slog.Logger) (Result, error) {
	var res Result
	for i, m := range mappings {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		_, err := c.Create(ctx, m.PhoneNumber, m.Address)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, apperrors.ErrAlreadyExists):
			res.Skipped++
		default:
			return res, fmt.Errorf("seed %s: %w", m.PhoneNumber, err)
		}

		if (i+1)%1000 == 0 {
			logger.Info("seed progress",
				slog.Int("processed", i+1),
				slog.Int("total", len(mappings)),
			)
		}
	}
	return res, nil
}
