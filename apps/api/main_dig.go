package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	dig_container "github.com/trezcool/edutracker/apps/api/di/dig"
	echoapi "github.com/trezcool/edutracker/apps/api/echo"
	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/subject"
	"github.com/trezcool/edutracker/core/user"
	appfs "github.com/trezcool/edutracker/fs"
	"github.com/trezcool/edutracker/storage/seed"
)

func startWithDig() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		storeLoggerParam dig_container.StoreLoggerParam,
		validate *validator.Validate,
		translator ut.Translator,
		usrSvc *user.Service,
		studentSvc *student.Service,
		subjectSvc *subject.Service,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		core.InitValidators(validate, translator)
		student.InitValidators(validate, translator)
		subject.InitValidators(validate, translator)
		user.InitValidators(validate, translator)

		if err := core.ParseEmailTemplates(appfs.EmailTemplates(), false); err != nil {
			apiLogger.Fatal(fmt.Sprintf("could not parse email templates: %v", err), err)
		}

		defer apiLogger.Info("Application stopped")

		// =========================================================================
		// Load Sample Data

		if conf.SeedSampleData {
			storeLogger := storeLoggerParam.Logger
			sum, err := seed.Load(context.Background(), appfs.SeedData(), seed.Services{
				Validate:   validate,
				UserSvc:    usrSvc,
				StudentSvc: studentSvc,
				SubjectSvc: subjectSvc,
			})
			if err != nil {
				storeLogger.Fatal(fmt.Sprintf("could not load sample data: %v", err), err)
			}
			storeLogger.Info(fmt.Sprintf(
				"sample data loaded : %d students, %d subjects, %d scores", sum.Students, sum.Subjects, sum.Scores,
			))
		}

		// =========================================================================
		// Start Debug Service
		//
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)
		expvar.NewString("term").Set(conf.CurrentTerm)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start API Service

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			apiLogger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					apiLogger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
