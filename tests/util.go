package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/activity"
	"github.com/trezcool/edutracker/core/grading"
	"github.com/trezcool/edutracker/core/report"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/subject"
	"github.com/trezcool/edutracker/core/user"
	appfs "github.com/trezcool/edutracker/fs"
	emailsvc "github.com/trezcool/edutracker/services/email"
	logsvc "github.com/trezcool/edutracker/services/logger"
	"github.com/trezcool/edutracker/services/spreadsheet"
	inmemdb "github.com/trezcool/edutracker/storage/database/inmem"
)

const Term = "First Term 2024"

// Env bundles the services of one test, all backed by a fresh in-memory DB.
type Env struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	DB         *inmemdb.DB
	Mail       *emailsvc.ConsoleServiceMock

	ActivitySvc *activity.Service
	UserSvc     *user.Service
	StudentSvc  *student.Service
	SubjectSvc  *subject.Service
	ReportSvc   *report.Service
}

func NewConfig() *core.Config {
	return &core.Config{
		AppName:          "EduTracker",
		Env:              "TEST",
		Build:            "test",
		TestMode:         true,
		SecretKey:        "test-secret",
		DefaultFromEmail: "EduTracker <noreply@edutracker.test>",
		FrontendBaseURL:  "http://edutracker.test",
		CurrentTerm:      Term,
		Server: core.ServerConfig{
			Host:               "localhost",
			JWTExpirationDelta: 24 * time.Hour,
		},
	}
}

func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
}

func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	subject.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func Setup(t *testing.T) *Env {
	t.Helper()
	if err := core.ParseEmailTemplates(appfs.EmailTemplates(), true); err != nil {
		t.Fatalf("Setup() failed: %v", err)
	}

	env := &Env{Conf: NewConfig(), DB: inmemdb.NewDB()}
	env.Logger = NewLogger(env.Conf)
	env.Validate, env.Translator = NewValidator()
	env.Mail = emailsvc.NewConsoleServiceMock(env.Conf, env.Logger)

	env.ActivitySvc = activity.NewService(inmemdb.NewActivityRepository(env.DB))
	env.UserSvc = user.NewService(inmemdb.NewUserRepository(env.DB))
	env.StudentSvc = student.NewService(inmemdb.NewStudentRepository(env.DB), env.ActivitySvc, env.Conf)
	env.SubjectSvc = subject.NewService(inmemdb.NewSubjectRepository(env.DB), env.StudentSvc, env.ActivitySvc)
	env.ReportSvc = report.NewService(env.StudentSvc, env.SubjectSvc, env.ActivitySvc, spreadsheet.NewExporter(), env.Mail)
	return env
}

func CreateStudent(t *testing.T, svc *student.Service, name, class string, parentEmail ...string) student.Student {
	t.Helper()
	ns := student.NewStudent{Name: name, Class: class, ParentName: "Parent of " + name}
	if len(parentEmail) > 0 {
		ns.ParentEmail = parentEmail[0]
	}
	s, err := svc.Create(context.Background(), ns)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateSubject(t *testing.T, svc *subject.Service, name, code, class string) subject.Subject {
	t.Helper()
	subj, err := svc.Create(context.Background(), subject.NewSubject{Name: name, Code: code, Class: class, Teacher: "Sarah Johnson"})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return subj
}

func RecordScore(t *testing.T, svc *student.Service, id, subj string, ca, exam int) student.Student {
	t.Helper()
	s, err := svc.RecordScore(context.Background(), id, student.ScoreEntry{
		Subject:              subj,
		Term:                 Term,
		ContinuousAssessment: ca,
		Examination:          exam,
	})
	if err != nil {
		t.Fatalf("RecordScore() failed: %v", err)
	}
	return s
}

func SetAttendance(t *testing.T, svc *student.Service, id string, present, total int) student.Student {
	t.Helper()
	s, err := svc.SetAttendance(context.Background(), id, grading.Attendance{DaysPresent: present, TotalDays: total})
	if err != nil {
		t.Fatalf("SetAttendance() failed: %v", err)
	}
	return s
}
