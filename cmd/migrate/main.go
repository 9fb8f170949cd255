// Command migrate applies or rolls back the SQL schema.
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down 1
//	go run ./cmd/migrate version
//	go run ./cmd/migrate force 1
package main

import (
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"schoolms_backend/internals/configs"
	database "schoolms_backend/internals/databases"
	"schoolms_backend/internals/seeds"
)

func main() {
	cfg := configs.LoadEnv()
	configs.SetupLogger(cfg)

	if len(os.Args) < 2 {
		logrus.Fatal("usage: migrate up|down N|version|force V|seed")
	}
	if err := run(cfg, os.Args[1], os.Args[2:]); err != nil {
		logrus.WithError(err).Fatal("migrate failed")
	}
}

func run(cfg *configs.Config, cmd string, args []string) error {
	if cmd == "seed" {
		db, err := database.ConnectDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)
		return seeds.RunAllSeeds(db)
	}

	m, err := database.NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		n, convErr := intArg(args, 1)
		if convErr != nil {
			return convErr
		}
		err = m.Steps(-n)
	case "force":
		v, convErr := intArg(args, -1)
		if convErr != nil {
			return convErr
		}
		err = m.Force(v)
	case "version":
		v, dirty, vErr := m.Version()
		if vErr != nil && !errors.Is(vErr, migrate.ErrNilVersion) {
			return vErr
		}
		logrus.Infof("version=%d dirty=%v", v, dirty)
		return nil
	default:
		return errors.Errorf("unknown command %q", cmd)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	logrus.Infof("%s done", cmd)
	return nil
}

// intArg reads args[0]; def < 0 makes it required.
func intArg(args []string, def int) (int, error) {
	if len(args) == 0 {
		if def < 0 {
			return 0, errors.New("missing numeric argument")
		}
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %q", args[0])
	}
	return n, nil
}
