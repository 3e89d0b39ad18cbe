package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"homeserve/database/repository"
	userRepo "homeserve/database/repository/user"
	workerRepo "homeserve/database/repository/worker"
	"homeserve/models"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type seedOptions struct {
	WorkersPerCategory int
	Users              int
	Password           string
	Cities             []string
}

type seedResult struct {
	Workers int
	Users   int
	Skipped int
}

var skillsByCategory = map[string][]string{
	"plumbing":         {"leak repair", "pipe fitting", "drain unblocking"},
	"electrical":       {"wiring", "lighting", "socket install"},
	"cleaning":         {"deep clean", "move-out clean", "carpets"},
	"carpentry":        {"furniture assembly", "door fitting", "shelving"},
	"painting":         {"interior", "exterior", "wallpaper"},
	"appliance_repair": {"fridges", "washing machines", "ovens"},
	"gardening":        {"lawn mowing", "hedge trimming", "planting"},
	"pest_control":     {"rodents", "termites", "bed bugs"},
	"laundry":          {"wash and fold", "ironing", "dry cleaning"},
	"moving":           {"packing", "loading", "furniture disposal"},
}

// seedAccounts creates verified demo workers for every service category
// and verified demo users, all sharing opts.Password. Existing emails are
// skipped so the command can be re-run.
func seedAccounts(ctx context.Context, users userRepo.UserRepository, workers workerRepo.WorkerRepository, opts seedOptions, rnd *rand.Rand) (seedResult, error) {
	var res seedResult
	if opts.Password == "" {
		return res, errors.New("password is required")
	}
	if len(opts.Cities) == 0 {
		opts.Cities = []string{"Nairobi"}
	}
	hash, err := utils.HashPassword(opts.Password)
	if err != nil {
		return res, err
	}
	logger := utils.GetLogger()

	n := 0
	for _, cat := range models.ServiceCategories {
		for i := 1; i <= opts.WorkersPerCategory; i++ {
			n++
			w := &models.Worker{
				ID:              uuid.New().String(),
				Name:            fmt.Sprintf("%s Pro %d", cat.Name, i),
				Email:           fmt.Sprintf("%s_worker_%d@example.com", cat.ID, i),
				PhoneNumber:     fmt.Sprintf("700000%04d", n),
				ServiceCategory: cat.ID,
				Skills:          skillsByCategory[cat.ID],
				Bio:             fmt.Sprintf("Experienced %s professional.", strings.ToLower(cat.Name)),
				HourlyRate:      math.Round((15+rnd.Float64()*35)*100) / 100,
				ExperienceYears: 1 + rnd.Intn(15),
				City:            opts.Cities[rnd.Intn(len(opts.Cities))],
				IsAvailable:     true,
				Verified:        true,
				EmailVerified:   true,
				PasswordHash:    hash,
			}
			switch err := workers.Create(ctx, w); {
			case errors.Is(err, repository.ErrDuplicate):
				res.Skipped++
			case err != nil:
				return res, fmt.Errorf("seed worker %s: %w", w.Email, err)
			default:
				res.Workers++
			}
		}
	}

	for i := 1; i <= opts.Users; i++ {
		u := &models.User{
			ID:           uuid.New().String(),
			Name:         fmt.Sprintf("Demo User %d", i),
			Email:        fmt.Sprintf("user_%d@example.com", i),
			PhoneNumber:  fmt.Sprintf("710000%04d", i),
			Address:      fmt.Sprintf("%d Sample Street, %s", i, opts.Cities[(i-1)%len(opts.Cities)]),
			Verified:     true,
			PasswordHash: hash,
		}
		switch err := users.Create(ctx, u); {
		case errors.Is(err, repository.ErrDuplicate):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed user %s: %w", u.Email, err)
		default:
			res.Users++
		}
	}

	logger.Info("seed complete",
		zap.Int("workers", res.Workers),
		zap.Int("users", res.Users),
		zap.Int("skipped", res.Skipped))
	return res, nil
}
