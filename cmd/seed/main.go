// Command seed fills the configured MongoDB with demo workers and users.
package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"homeserve/config"
	"homeserve/database"
	userRepo "homeserve/database/repository/user"
	workerRepo "homeserve/database/repository/worker"
	"homeserve/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed demo workers and users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadConfig()
			if err := database.InitDB(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			defer func() { _ = database.Close(context.Background()) }()

			db := database.DB()
			rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
			_, err := seedAccounts(ctx, userRepo.NewMongoUserRepo(db), workerRepo.NewMongoWorkerRepo(db), opts, rnd)
			return err
		},
	}
	cmd.Flags().IntVar(&opts.WorkersPerCategory, "workers", 3, "workers per service category")
	cmd.Flags().IntVar(&opts.Users, "users", 5, "demo users")
	cmd.Flags().StringVar(&opts.Password, "password", "Demo#Pass1", "password for every seeded account")
	cmd.Flags().StringSliceVar(&opts.Cities, "cities", []string{"Nairobi", "Mombasa", "Kisumu"}, "cities to spread workers across")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		utils.GetLogger().Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
}
