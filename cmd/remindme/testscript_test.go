package main

import (
	"testing"

	"github.com/amonks/remindme/internal/testsupport"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestTaskScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/tasks",
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(t, env, "remindme")
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"envset": testsupport.CmdEnvSet,
			"taskid": testsupport.CmdTaskID,
		},
	})
}

func TestVersionScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/version",
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(t, env, "remindme")
		},
	})
}
