// Package seed loads the initial users and stations into empty stores.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
	"github.com/sp23/transit-system/internal/core/service"
)

//go:embed default.yaml
var defaultSeed []byte

// Data is the seed file layout.
type Data struct {
	Users    []UserSeed    `yaml:"users"`
	Stations []StationSeed `yaml:"stations"`
}

type UserSeed struct {
	UserName string   `yaml:"userName"`
	Password string   `yaml:"password"`
	Roles    []string `yaml:"roles"`
}

type StationSeed struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	// Manager is the user name of the station manager, if any.
	Manager string `yaml:"manager"`
}

// Load parses the seed file at path, or the embedded defaults when path is empty.
func Load(path string) (*Data, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &d, nil
}

// Apply creates the seed users when the credential store is empty and the
// seed stations when the station store is empty. Each half is skipped
// independently so a restart against persistent stores is a no-op.
func Apply(ctx context.Context, d *Data, users ports.UserRepository, stations ports.StationRepository, log zerolog.Logger) error {
	userCount, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("checking user count: %w", err)
	}
	if userCount > 0 {
		log.Info().Int64("users", userCount).Msg("users exist, skipping user seed")
	} else {
		for _, u := range d.Users {
			if err := createUser(ctx, users, u); err != nil {
				return err
			}
		}
		log.Info().Int("users", len(d.Users)).Msg("seeded users")
	}

	stationCount, err := stations.Count(ctx)
	if err != nil {
		return fmt.Errorf("checking station count: %w", err)
	}
	if stationCount > 0 {
		log.Info().Int64("stations", stationCount).Msg("stations exist, skipping station seed")
		return nil
	}
	for _, s := range d.Stations {
		if err := createStation(ctx, users, stations, s); err != nil {
			return err
		}
	}
	log.Info().Int("stations", len(d.Stations)).Msg("seeded stations")
	return nil
}

func createUser(ctx context.Context, users ports.UserRepository, u UserSeed) error {
	roles, err := domain.NewUserInput{UserName: u.UserName, Password: u.Password, Roles: u.Roles}.Validate()
	if err != nil {
		return fmt.Errorf("seed user %q: %w", u.UserName, err)
	}
	hash, err := service.HashPassword(u.Password)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}
	if _, err := users.Create(ctx, &domain.User{UserName: u.UserName, PasswordHash: hash, Roles: roles}); err != nil {
		return fmt.Errorf("creating seed user %q: %w", u.UserName, err)
	}
	return nil
}

func createStation(ctx context.Context, users ports.UserRepository, stations ports.StationRepository, s StationSeed) error {
	in := domain.StationInput{Name: s.Name, Address: s.Address}
	if s.Manager != "" {
		manager, err := users.FindByUserName(ctx, s.Manager)
		if err != nil {
			return fmt.Errorf("seed station %q: manager %q: %w", s.Name, s.Manager, err)
		}
		in.ManagerID = &manager.ID
	}
	if err := in.Validate(); err != nil {
		return fmt.Errorf("seed station %q: %w", s.Name, err)
	}
	station := in.Apply(domain.Station{})
	if _, err := stations.Create(ctx, &station); err != nil {
		return fmt.Errorf("creating seed station %q: %w", s.Name, err)
	}
	return nil
}
