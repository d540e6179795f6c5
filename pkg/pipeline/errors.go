package pipeline

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
)

var (
	// ErrTypeCheck is matched by a ProcessError whose transform returned a dataset
	// violating the dataset contract.
	ErrTypeCheck = errors.New("transform result does not satisfy the dataset contract")
	// ErrDuplicateIdentity marks an add on an existing key. AddProcess turns it into an update.
	ErrDuplicateIdentity = errors.New("process already exists")
	ErrUnknownIdentity   = errors.New("process does not exist")
	// ErrNoValidBackup means no snapshot exists at or below a rollback target.
	// It can only happen when the tracker state is inconsistent.
	ErrNoValidBackup        = errors.New("no valid backup")
	ErrNoDataLoaded         = errors.New("tracker contains no data")
	ErrConfirmationDeclined = errors.New("confirmation declined")
	ErrOrderOutOfRange      = errors.New("order out of range")
	ErrBackupNotFound       = errors.New("backup not found")
	ErrInputMustBeSet       = errors.New("input must be set")
)

// IsDeclined reports whether err comes from a declined confirmation.
// A declined operation leaves the tracker untouched.
func IsDeclined(err error) bool {
	return errors.Is(err, ErrConfirmationDeclined)
}

// ProcessError reports a process whose transform failed. Consolidation stops
// at Order; earlier processes stay consolidated.
type ProcessError struct {
	Err       error
	Key       model.Key
	Order     int
	TypeCheck bool
}

func newProcessError(order int, key model.Key, err error, typeCheck bool) *ProcessError {
	return &ProcessError{Order: order, Key: key, Err: err, TypeCheck: typeCheck}
}

func (e *ProcessError) Error() string {
	if e.TypeCheck {
		return fmt.Sprintf("process order %d [%s]: %s: %v", e.Order, e.Key, ErrTypeCheck, e.Err)
	}

	return fmt.Sprintf("process order %d [%s]: %v", e.Order, e.Key, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Is matches ErrTypeCheck for contract failures.
func (e *ProcessError) Is(target error) bool {
	return e.TypeCheck && target == ErrTypeCheck
}

// IdentityError reports an operation on a process key.
type IdentityError struct {
	Err error
	Key model.Key
}

func newIdentityError(key model.Key, err error) *IdentityError {
	return &IdentityError{Key: key, Err: err}
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("process [%s]: %v", e.Key, e.Err)
}

func (e *IdentityError) Unwrap() error {
	return e.Err
}
