package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutracker/core/student"
	appfs "github.com/trezcool/edutracker/fs"
	"github.com/trezcool/edutracker/storage/seed"
	"github.com/trezcool/edutracker/tests"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	env := testutil.Setup(t)
	_, err := seed.Load(context.Background(), appfs.SeedData(), seed.Services{
		Validate:   env.Validate,
		UserSvc:    env.UserSvc,
		StudentSvc: env.StudentSvc,
		SubjectSvc: env.SubjectSvc,
	})
	require.NoError(t, err)

	isTerminalFunc = func(fd int) bool { return false }

	out := new(bytes.Buffer)
	return &commandLine{
		out:      out,
		fd:       -1,
		students: env.StudentSvc,
		reports:  env.ReportSvc,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string
}

func runCLITests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				assert.EqualError(t, err, tt.wantErrStr)
			default:
				assert.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: []string{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "help flag", args: []string{"grade", "-h"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"analytics", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
	})
}

func Test_commandLine_grade(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "no args", args: []string{"grade"}, wantErr: errHelp},
		{name: "exam missing", args: []string{"grade", "-ca", "35"}, wantErr: errHelp},
		{
			name:       "ca out of range",
			args:       []string{"grade", "-ca", "41", "-exam", "50"},
			wantErrStr: "continuous_assessment must be between 0 and 40 (got 41)",
		},
		{
			name:       "exam out of range",
			args:       []string{"grade", "-ca", "30", "-exam", "-1"},
			wantErrStr: "examination must be between 0 and 60 (got -1)",
		},
		{name: "A", args: []string{"grade", "-ca", "35", "-exam", "55"}, wantOut: []string{"90/100", "A"}},
		{name: "boundary B", args: []string{"grade", "-ca", "30", "-exam", "50"}, wantOut: []string{"80/100", "B"}},
		{name: "zero", args: []string{"grade", "-ca", "0", "-exam", "0"}, wantOut: []string{"0/100", "F"}},
	})
}

func Test_commandLine_report(t *testing.T) {
	cli, out := setup(t)
	export := filepath.Join(t.TempDir(), "alice.xlsx")

	runCLITests(t, cli, out, []cliTest{
		{name: "no args", args: []string{"report"}, wantErr: errHelp},
		{name: "unknown student", args: []string{"report", "-student", "Nobody"}, wantErr: student.ErrNotFound},
		{
			name:       "ambiguous name",
			args:       []string{"report", "-student", "brown"},
			wantErrStr: `"brown" matches several students: Carol Brown, Michael Brown`,
		},
		{
			name: "unknown term",
			args: []string{"report", "-student", "Alice Johnson", "-term", "Third Term 1999"},
			wantErrStr: "report card for Third Term 1999: no input to compute from",
		},
		{
			name: "exact name",
			args: []string{"report", "-student", "alice johnson"},
			wantOut: []string{
				"Student Report Card",
				"Alice Johnson",
				"Class 5A",
				"First Term 2024",
				"Mathematics",
				"Excellent performance",
				"88%",
				"1 of 4",
				"85/90 days (94.4%, Good)",
				"Very good work this term.",
			},
		},
		{
			name:    "partial name with remarks",
			args:    []string{"report", "-student", "grace", "-remarks", "Keep reading every day."},
			wantOut: []string{"Grace Lee", "Class 4B", "2 of 2", "Keep reading every day."},
		},
		{
			name:    "export",
			args:    []string{"report", "-student", "Alice Johnson", "-out", export},
			wantOut: []string{"Report card exported to " + export},
		},
	})

	info, err := os.Stat(export)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func Test_commandLine_report_styled(t *testing.T) {
	cli, out := setup(t)
	isTerminalFunc = func(fd int) bool { return true }
	defer func() { isTerminalFunc = func(fd int) bool { return false } }()

	require.NoError(t, cli.run([]string{"admin", "report", "-student", "Emma Davis"}))
	assert.Contains(t, out.String(), "╭")
	assert.Contains(t, out.String(), "Emma Davis")
	assert.Contains(t, out.String(), "92%")
}

func Test_commandLine_analytics(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{
			name: "current term",
			args: []string{"analytics"},
			wantOut: []string{
				"School Analytics: First Term 2024",
				"7 (7 graded)",
				"89.8%",
				"A: 1",
				"B: 3",
				"Class 4B",
				"Class 5A",
				"Class 5B",
			},
		},
		{name: "unknown term", args: []string{"analytics", "-term", "Third Term 1999"}, wantOut: []string{"7 (0 graded)"}},
	})

	require.NoError(t, cli.run([]string{"admin", "analytics"}))
	text := out.String()
	top := text[strings.Index(text, "Top Performers"):]
	assert.Less(t, strings.Index(top, "Emma Davis"), strings.Index(top, "Alice Johnson"))
	assert.Less(t, strings.Index(top, "Alice Johnson"), strings.Index(top, "Carol Brown"))
}
