package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/buxgalter/pkg/optimistic"
	"github.com/mesh-intelligence/buxgalter/pkg/tableview"
	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// exitError carries an explicit exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error   { return &exitError{code: exitUserError, err: err} }
func systemError(err error) error { return &exitError{code: exitSysError, err: err} }

// userErrors are the conditions caused by bad input rather than by the
// environment.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidData,
	types.ErrInvalidFilter,
	types.ErrUnknownField,
	types.ErrInvalidStatus,
	types.ErrTableNotFound,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrPageSizeInvalid,
	types.ErrVATRateInvalid,
	tableview.ErrInvalidPageSize,
	optimistic.ErrNotConfirmed,
}

// exitCode maps err to a process exit code.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		return exitUserError
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	if isUsageError(err) {
		return exitUserError
	}
	return exitSysError
}

// isUsageError recognizes cobra's unknown-command error, which is not
// routed through the flag error func.
func isUsageError(err error) bool {
	return strings.HasPrefix(err.Error(), "unknown command")
}

// args wraps a cobra positional-argument check so that its failure is a
// user error.
func args(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := check(cmd, a); err != nil {
			return userError(err)
		}
		return nil
	}
}
