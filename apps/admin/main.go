package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/activity"
	"github.com/trezcool/edutracker/core/report"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/subject"
	"github.com/trezcool/edutracker/core/user"
	appfs "github.com/trezcool/edutracker/fs"
	emailsvc "github.com/trezcool/edutracker/services/email"
	logsvc "github.com/trezcool/edutracker/services/logger"
	"github.com/trezcool/edutracker/services/spreadsheet"
	inmemdb "github.com/trezcool/edutracker/storage/database/inmem"
	"github.com/trezcool/edutracker/storage/seed"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	logger = logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	// validators
	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	subject.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up store & services
	db := inmemdb.NewDB()
	activities := activity.NewService(inmemdb.NewActivityRepository(db))
	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	studentSvc := student.NewService(inmemdb.NewStudentRepository(db), activities, conf)
	subjectSvc := subject.NewService(inmemdb.NewSubjectRepository(db), studentSvc, activities)
	reportSvc := report.NewService(
		studentSvc,
		subjectSvc,
		activities,
		spreadsheet.NewExporter(),
		emailsvc.NewConsoleService(conf, logger),
	)

	// load the sample school
	_, err := seed.Load(context.Background(), appfs.SeedData(), seed.Services{
		Validate:   validate,
		UserSvc:    usrSvc,
		StudentSvc: studentSvc,
		SubjectSvc: subjectSvc,
	})
	errAndDie(err)

	// start CLI
	cli := commandLine{
		out:      os.Stdout,
		fd:       int(os.Stdout.Fd()),
		students: studentSvc,
		reports:  reportSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed: " + err.Error())
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
