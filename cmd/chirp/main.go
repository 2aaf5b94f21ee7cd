package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/chirp-dev/chirp/cmd/migrate"
	"github.com/chirp-dev/chirp/cmd/serve"
)

func main() {
	root := &cobra.Command{
		Use:           "chirp",
		Short:         "REST backend for users, posts and comments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serve.NewServeCommand())
	root.AddCommand(migrate.NewMigrateCommand())

	if err := root.Execute(); err != nil {
		log.Fatalf("chirp: %v", err)
	}
}
