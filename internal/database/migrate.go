package database

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// RunMigrations applies pending schema migrations from dir. An empty dir
// disables migration entirely.
func RunMigrations(dir, databaseURL string, log *logrus.Logger) error {
	if dir == "" {
		log.Info("migrations disabled")
		return nil
	}

	m, err := migrate.New("file://"+dir, databaseURL)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("schema up to date")
			return nil
		}
		return err
	}

	log.Info("migrations applied")
	return nil
}
