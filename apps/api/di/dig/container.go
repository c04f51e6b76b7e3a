package dig_container

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/englishpoc/apps/api/echo"
	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/assignment"
	"github.com/trezcool/englishpoc/core/grammar"
	"github.com/trezcool/englishpoc/core/student"
	sa "github.com/trezcool/englishpoc/core/studentassignment"
	"github.com/trezcool/englishpoc/core/user"
	logsvc "github.com/trezcool/englishpoc/services/logger"
	"github.com/trezcool/englishpoc/storage/database"
	inmemdb "github.com/trezcool/englishpoc/storage/database/inmem"
	mongorepos "github.com/trezcool/englishpoc/storage/database/mongodb"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Repositories are the storage backends of every service, picked by the configured DB engine.
type Repositories struct {
	dig.Out
	Store     io.Closer
	Users     user.Repository
	Students  student.Repository
	Templates assignment.Repository
	Lessons   grammar.Repository
	Links     sa.Repository
}

type serverParams struct {
	dig.In
	Conf          *core.Config
	Logger        core.Logger
	UserSvc       user.ServiceInterface
	StudentSvc    student.ServiceInterface
	AssignmentSvc assignment.ServiceInterface
	LinkSvc       sa.ServiceInterface
	GrammarSvc    grammar.ServiceInterface
	Validate      *validator.Validate
	Translator    ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) Repositories {
	if conf.Database.Engine == core.DBEngineInMem {
		loggerParam.Logger.Warn("using the in-memory store: data will not survive a restart")
		db := inmemdb.Open()
		return Repositories{
			Store:     db,
			Users:     inmemdb.NewUserRepository(db),
			Students:  inmemdb.NewStudentRepository(db),
			Templates: inmemdb.NewTemplateRepository(db),
			Lessons:   inmemdb.NewLessonRepository(db),
			Links:     inmemdb.NewLinkRepository(db),
		}
	}

	setUp := func() (*database.DB, error) {
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
		defer cancel()
		indexes, err := database.Migrate(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		loggerParam.Logger.Info(fmt.Sprintf("indexes ready: %s", strings.Join(indexes, ", ")))
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return Repositories{
		Store:     db,
		Users:     mongorepos.NewUserRepository(db.Database),
		Students:  mongorepos.NewStudentRepository(db.Database),
		Templates: mongorepos.NewTemplateRepository(db.Database),
		Lessons:   mongorepos.NewLessonRepository(db.Database),
		Links:     mongorepos.NewLinkRepository(db.Database),
	}
}

func newValidate() *validator.Validate {
	return validator.New()
}

func newStudentService(repo student.Repository, users user.Repository) student.ServiceInterface {
	return student.NewService(repo, users)
}

func newAssignmentService(repo assignment.Repository, lessons grammar.Repository) assignment.ServiceInterface {
	return assignment.NewService(repo, lessons)
}

func newLinkService(repo sa.Repository, students student.Repository, templates assignment.Repository) sa.ServiceInterface {
	return sa.NewService(repo, students, templates)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:          p.Conf,
		Logger:        p.Logger,
		UserSvc:       p.UserSvc,
		StudentSvc:    p.StudentSvc,
		AssignmentSvc: p.AssignmentSvc,
		LinkSvc:       p.LinkSvc,
		GrammarSvc:    p.GrammarSvc,
		Validate:      p.Validate,
		Translator:    p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newValidate))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(user.NewService))
	must(c.Provide(grammar.NewService))
	must(c.Provide(newStudentService))
	must(c.Provide(newAssignmentService))
	must(c.Provide(newLinkService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
