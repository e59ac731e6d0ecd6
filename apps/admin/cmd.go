package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/trezcool/edutracker/core/report"
	"github.com/trezcool/edutracker/core/student"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out      io.Writer
	fd       int // of out, to detect a terminal
	students *student.Service
	reports  *report.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  grade -ca MARK -exam MARK - compute a subject's total and grade")
	fmt.Fprintln(cli.out, "  report -student NAME [-term TERM] [-remarks TEXT] [-out FILE.xlsx] - print a student's report card")
	fmt.Fprintln(cli.out, "  analytics [-term TERM] - print the class comparison and top performers")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func isSet(fs *flag.FlagSet, name string) (set bool) {
	fs.Visit(func(f *flag.Flag) {
		set = set || f.Name == name
	})
	return set
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	gradeCmd := cli.newFlagSet("grade")
	gradeCA := gradeCmd.Int("ca", 0, "Continuous assessment mark, out of 40.")
	gradeExam := gradeCmd.Int("exam", 0, "Examination mark, out of 60.")

	reportCmd := cli.newFlagSet("report")
	reportStudent := reportCmd.String("student", "", "The student's name, or part of it.")
	reportTerm := reportCmd.String("term", "", "The term (defaults to the current term).")
	reportRemarks := reportCmd.String("remarks", "", "The teacher's remarks (defaults to a comment on the overall grade).")
	reportOut := reportCmd.String("out", "", "Also export the report card to this .xlsx file.")

	analyticsCmd := cli.newFlagSet("analytics")
	analyticsTerm := analyticsCmd.String("term", "", "The term (defaults to the current term).")

	switch args[1] {
	case "grade":
		if err := cli.parse(gradeCmd, args[2:]); err != nil {
			return err
		}
		if !isSet(gradeCmd, "ca") || !isSet(gradeCmd, "exam") {
			gradeCmd.Usage()
			return errHelp
		}
		return cli.grade(*gradeCA, *gradeExam)
	case "report":
		if err := cli.parse(reportCmd, args[2:]); err != nil {
			return err
		}
		if *reportStudent == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(ctx, *reportStudent, *reportTerm, *reportRemarks, *reportOut)
	case "analytics":
		if err := cli.parse(analyticsCmd, args[2:]); err != nil {
			return err
		}
		return cli.analytics(ctx, *analyticsTerm)
	default:
		cli.printUsage()
		return errHelp
	}
}
