package main

import (
	"clinic-service/internal/app/config"
	"clinic-service/internal/app/drivers/database"
	"clinic-service/internal/app/drivers/logger"
	"clinic-service/internal/app/services/shared/diagnostics"
	"clinic-service/internal/pkg/utils"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const usage = `Usage:
  diagnostic inspect --collection NAME [--filter EXTJSON] [--projection EXTJSON] [--limit N]
  diagnostic delete  --collection NAME --filter EXTJSON [--yes] [--allow-all]
`

func main() {
	log := logger.NewLogrusLogger(utils.GetEnvString("LOGGER_LEVEL", "info"), false)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	flags := pflag.NewFlagSet(command, pflag.ExitOnError)
	collection := flags.StringP("collection", "c", "", "collection to operate on")
	filter := flags.StringP("filter", "f", "", "Extended JSON filter document")
	projection := flags.StringP("projection", "p", "", "Extended JSON projection document (inspect only)")
	limit := flags.Int64P("limit", "l", 20, "maximum documents to print, 0 for all (inspect only)")
	assumeYes := flags.BoolP("yes", "y", false, "skip the confirmation prompt (delete only)")
	allowAll := flags.Bool("allow-all", false, "permit delete with an empty filter")
	timeout := flags.Duration("timeout", 30*time.Second, "operation timeout")
	flags.Parse(os.Args[2:])

	query := diagnostics.Query{
		Collection: *collection,
		Filter:     *filter,
		Projection: *projection,
		Limit:      *limit,
		AllowAll:   *allowAll,
	}

	driverConfig := config.NewDriverConfig()
	mongoClient := database.NewMongoDB(driverConfig)
	defer mongoClient.Disconnect(context.Background())

	store := diagnostics.NewCollectionMongoStore(mongoClient.Database(driverConfig.MongoDB.DbName))
	tool := diagnostics.NewDiagnostics(store, log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var err error
	switch command {
	case "inspect":
		err = runInspect(ctx, tool, query, log)
	case "delete":
		var confirmer diagnostics.Confirmer = diagnostics.PromptConfirmer{In: os.Stdin, Out: os.Stdout}
		if *assumeYes {
			confirmer = diagnostics.AutoConfirmer{}
		}
		err = runDelete(ctx, tool, query, confirmer)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if errors.Is(err, diagnostics.ErrDeleteNotConfirmed) {
		os.Exit(1)
	}
	if err != nil {
		log.WithError(err).Error("diagnostic failed")
		os.Exit(1)
	}
}

func runInspect(ctx context.Context, tool *diagnostics.Diagnostics, query diagnostics.Query, log *logrus.Logger) error {
	result, err := tool.Inspect(ctx, query)
	if err != nil {
		return err
	}

	for _, document := range result.Documents {
		formatted, err := diagnostics.FormatDocument(document)
		if err != nil {
			log.WithError(err).Warn("cannot render document")
			continue
		}
		fmt.Println(formatted)
	}
	fmt.Printf("%d document(s) matched, %d shown\n", result.Matched, len(result.Documents))
	return nil
}

func runDelete(ctx context.Context, tool *diagnostics.Diagnostics, query diagnostics.Query, confirmer diagnostics.Confirmer) error {
	result, err := tool.Delete(ctx, query, confirmer)
	if err != nil {
		return err
	}
	fmt.Printf("%d document(s) matched, %d deleted\n", result.Matched, result.Deleted)
	return nil
}
