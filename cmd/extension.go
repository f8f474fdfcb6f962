package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog"
)

// Environment variables passed to extensions. They are the ones read by the
// configuration, so that an extension calling viewprofit shares its settings.
const (
	EnvConfigFile  = "VIEWPROFIT_CONFIG"
	EnvData        = "VIEWPROFIT_DATA"
	EnvDatabaseURL = "VIEWPROFIT_DATABASE_URL"
	EnvVerbose     = "VIEWPROFIT_VERBOSE"
)

// ExtensionPrefix prefixes the name of the extension binaries.
const ExtensionPrefix = "viewprofit-"

// RunExtension attempts to find and execute an external viewprofit-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(log zerolog.Logger, subcommand string, args []string) (bool, int) {
	externalCmdName := ExtensionPrefix + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Debug().Err(err).Str("extension", externalCmdName).Msg("extension not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables, unset flags leave the
	// environment as is.
	cmd.Env = os.Environ()
	for name, value := range map[string]string{
		EnvConfigFile:  *configFile,
		EnvData:        *dataDir,
		EnvDatabaseURL: *databaseURL,
	} {
		if value != "" {
			cmd.Env = append(cmd.Env, name+"="+value)
		}
	}
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	log.Debug().Str("extension", lp).Strs("args", args).Msg("running extension")
	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
