package main

import (
	"fmt"

	"github.com/trezcool/edutracker/core/grading"
)

func (cli *commandLine) grade(ca, exam int) error {
	score, err := grading.ComputeSubjectResult(ca, exam)
	if err != nil {
		return err
	}
	p := cli.printer()
	fmt.Fprintf(cli.out, "%s%d/100\n", p.label("Total"), score.Total())
	fmt.Fprintf(cli.out, "%s%s\n", p.label("Grade"), p.grade(score.Grade()))
	return nil
}
