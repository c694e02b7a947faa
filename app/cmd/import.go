package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/bobylevd/team-balancer/app/roster"
)

// Import is a command to load a roster file into the store.
type Import struct {
	StoreOpts
	Roster string `long:"roster" env:"ROSTER" description:"YAML roster file" required:"true"`

	CommonOpts
}

// Execute runs the command.
func (i *Import) Execute([]string) error {
	ros, err := roster.Load(i.Roster)
	if err != nil {
		return err
	}
	pool, err := ros.Competitors(i.DefaultRating)
	if err != nil {
		return fmt.Errorf("read roster: %w", err)
	}

	svc, closeStore, err := i.service(nil)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := svc.Import(context.Background(), pool); err != nil {
		return fmt.Errorf("import roster: %w", err)
	}

	log.Printf("[INFO] imported %d players from %s", len(pool), i.Roster)
	return nil
}
