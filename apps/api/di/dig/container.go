package dig_container

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/edutracker/apps/api/echo"
	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/activity"
	"github.com/trezcool/edutracker/core/report"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/subject"
	"github.com/trezcool/edutracker/core/user"
	emailsvc "github.com/trezcool/edutracker/services/email"
	logsvc "github.com/trezcool/edutracker/services/logger"
	"github.com/trezcool/edutracker/services/spreadsheet"
	inmemdb "github.com/trezcool/edutracker/storage/database/inmem"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newStoreLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newAuthenticator(conf *core.Config, svc *user.Service) user.Authenticator {
	return user.NewMockAuthenticator(conf.Auth.LoginDelay, svc)
}

func newStudentCounter(svc *student.Service) subject.StudentCounter {
	return svc
}

func newServerDeps(
	conf *core.Config,
	logger core.Logger,
	validate *validator.Validate,
	translator ut.Translator,
	auth user.Authenticator,
	usrSvc *user.Service,
	studentSvc *student.Service,
	subjectSvc *subject.Service,
	reportSvc *report.Service,
) echoapi.ServerDeps {
	return echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		Authenticator: auth,
		UserSvc:       usrSvc,
		StudentSvc:    studentSvc,
		SubjectSvc:    subjectSvc,
		ReportSvc:     reportSvc,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(inmemdb.NewDB))
	must(c.Provide(newEmailService))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))

	// repositories
	must(c.Provide(inmemdb.NewUserRepository))
	must(c.Provide(inmemdb.NewStudentRepository))
	must(c.Provide(inmemdb.NewSubjectRepository))
	must(c.Provide(inmemdb.NewActivityRepository))

	// services
	must(c.Provide(activity.NewService, dig.As(
		new(student.ActivityRecorder),
		new(subject.ActivityRecorder),
		new(report.ActivityFeed),
	)))
	must(c.Provide(user.NewService))
	must(c.Provide(newAuthenticator))
	must(c.Provide(student.NewService))
	must(c.Provide(newStudentCounter))
	must(c.Provide(subject.NewService))
	must(c.Provide(spreadsheet.NewExporter, dig.As(new(report.Exporter))))
	must(c.Provide(report.NewService))

	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
