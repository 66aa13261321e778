package lifecycle

import (
	"strings"

	"github.com/LsHallo/certbot-multidomain/internal/executor"
	"github.com/LsHallo/certbot-multidomain/internal/logger"
)

// logOutput writes captured process output to the log. Stdout goes to INFO
// and stderr to ERROR regardless of the exit status; certbot prints its
// progress on stderr, so operators see it either way.
func logOutput(res *executor.Result) {
	if res == nil {
		return
	}
	if out := strings.TrimSpace(string(res.Stdout)); out != "" {
		logger.Info("%s", out)
	}
	if errOut := strings.TrimSpace(string(res.Stderr)); errOut != "" {
		logger.Error("%s", errOut)
	}
}

// exitCode returns the exit code of res, or -1 if nothing ran
func exitCode(res *executor.Result) int {
	if res == nil {
		return -1
	}
	return res.ExitCode
}
