package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	"riot-reimagined/internal/constants"
	"riot-reimagined/internal/domain"
	fxmodules "riot-reimagined/internal/fx"
	"riot-reimagined/internal/repository"

	"github.com/cockroachdb/errors"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
)

const defaultPassword = "123456"

var demoUsers = []struct {
	name  string
	email string
}{
	{"Admin User", "admin@example.com"},
	{"John Doe", "john@example.com"},
	{"Jane Smith", "jane@example.com"},
}

func main() {
	destroy := flag.Bool("d", false, "only delete existing users")
	flag.Parse()

	var (
		repo   *repository.UserRepository
		db     *sql.DB
		logger zerolog.Logger
	)
	app := fx.New(
		fxmodules.Storage,
		fx.NopLogger,
		fx.Populate(&repo, &db, &logger),
	)
	if err := app.Err(); err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to build seeder")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, repo, *destroy, logger); err != nil {
		logger.Error().Err(err).Msg("seeding failed")
		db.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, repo *repository.UserRepository, destroy bool, logger zerolog.Logger) error {
	deleted, err := repo.DeleteAll(ctx)
	if err != nil {
		return err
	}
	if destroy {
		logger.Info().Int64("deleted", deleted).Msg("data destroyed")
		return nil
	}

	users, err := buildDemoUsers(time.Now().UTC())
	if err != nil {
		return err
	}
	if err := repo.InsertBatch(ctx, users); err != nil {
		return err
	}
	logger.Info().Int64("deleted", deleted).Int("inserted", len(users)).Msg("data imported")
	return nil
}

// buildDemoUsers gives every demo account the same default password.
func buildDemoUsers(now time.Time) ([]domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), constants.PasswordHashCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash default password")
	}

	users := make([]domain.User, 0, len(demoUsers))
	for _, u := range demoUsers {
		id, err := gonanoid.New()
		if err != nil {
			return nil, errors.Wrap(err, "generate user id")
		}
		users = append(users, domain.User{
			ID:           id,
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hash),
			CreatedAt:    now,
		})
	}
	return users, nil
}
