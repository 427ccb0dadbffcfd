package logic

import (
	"errors"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	"github.com/Wepsel/Ouderenapp/common/errorx"

	"github.com/zeromicro/go-zero/core/breaker"
)

const (
	ErrMsgActivityIDInvalid = "Ongeldig activiteitnummer"
	ErrMsgNameEmpty         = "Naam is verplicht"
	ErrMsgDateInvalid       = "Ongeldige datum"
	ErrMsgCapacityInvalid   = "Aantal plaatsen mag niet negatief zijn"
)

// ToBizError maps registration errors to business codes. Errors it does not
// recognise become internal errors.
func ToBizError(err error) error {
	if err == nil {
		return nil
	}
	var bizErr *errorx.BizError
	if errors.As(err, &bizErr) {
		return bizErr
	}

	switch {
	case errors.Is(err, registration.ErrActivityNotFound):
		return errorx.New(errorx.CodeActivityNotFound)
	case errors.Is(err, registration.ErrUserNotFound):
		return errorx.New(errorx.CodeUserNotFound)
	case errors.Is(err, registration.ErrAlreadyRegistered):
		return errorx.New(errorx.CodeAlreadyRegistered)
	case errors.Is(err, registration.ErrCapacityExceeded):
		return errorx.New(errorx.CodeCapacityExceeded)
	case errors.Is(err, registration.ErrNotRegistered):
		return errorx.New(errorx.CodeNotRegistered)
	case errors.Is(err, registration.ErrCancelDisabled):
		return errorx.New(errorx.CodeCancelDisabled)
	case errors.Is(err, registration.ErrInvalidActivity):
		return errorx.New(errorx.CodeInvalidActivity)
	case errors.Is(err, breaker.ErrServiceUnavailable):
		return errorx.ErrServiceUnavailable()
	case registration.IsTransient(err):
		return errorx.New(errorx.CodeRegistrationRetry)
	default:
		return err
	}
}
