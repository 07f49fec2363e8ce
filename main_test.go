package main

import (
	"testing"

	"github.com/bep/helpers/envhelpers"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestScripts(t *testing.T) {
	params := commonTestScriptsParam
	params.Dir = "testscripts"
	testscript.Run(t, params)
}

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"recheckout": main,
	})
}

var commonTestScriptsParam = testscript.Params{
	Setup: func(env *testscript.Env) error {
		envhelpers.SetEnvVars(&env.Vars,
			"HOME", env.WorkDir,
			"GIT_CONFIG_NOSYSTEM", "1",
			"GIT_AUTHOR_NAME", "recheckout",
			"GIT_AUTHOR_EMAIL", "recheckout@example.com",
			"GIT_COMMITTER_NAME", "recheckout",
			"GIT_COMMITTER_EMAIL", "recheckout@example.com",
			"GITHUB_ACTIONS", "",
			"GITHUB_OUTPUT", "",
		)
		return nil
	},
}
