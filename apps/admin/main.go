package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/user"
	logsvc "github.com/trezcool/englishpoc/services/logger"
	"github.com/trezcool/englishpoc/storage/database"
	"github.com/trezcool/englishpoc/storage/database/mongodb"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	logger = logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	if conf.Database.Engine != core.DBEngineMongo {
		logger.Fatal("the admin CLI needs the document store: set database.engine to " + core.DBEngineMongo)
	}

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		usrSvc:   user.NewService(mongorepos.NewUserRepository(db.Database)),
		validate: validate,
		out:      os.Stdout,
		ensureIndexes: func(ctx context.Context) ([]string, error) {
			return database.Migrate(ctx, db)
		},
	}
	err = cli.run(os.Args)
	if cerr := db.Close(); cerr != nil {
		logger.Error("closing database", cerr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
