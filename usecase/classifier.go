package usecase

import (
	"errors"

	"karaoke-browser/domain/model"
)

// FailureAction says how the fetch loop reacts to a failed provider call.
type FailureAction int

const (
	Terminal FailureAction = iota
	Rotate
)

func (a FailureAction) String() string {
	if a == Rotate {
		return "rotate"
	}
	return "terminal"
}

// Classification is the verdict on one failed provider call.
type Classification struct {
	Action  FailureAction
	Message string
}

var rotateReasons = map[string]struct{}{
	"quotaExceeded":      {},
	"dailyLimitExceeded": {},
	"keyInvalid":         {},
}

// Classify decides between rotating the credential and giving up. Only the
// reason matters; the status code is carried for logging.
func Classify(status int, reason, message string) Classification {
	if _, ok := rotateReasons[reason]; ok {
		return Classification{Action: Rotate, Message: message}
	}
	if message == "" {
		message = model.DefaultProviderMessage
	}
	return Classification{Action: Terminal, Message: message}
}

// ClassifyError classifies any error returned by the search provider.
// Errors without a provider response are terminal.
func ClassifyError(err error) Classification {
	var pe *model.ProviderError
	if errors.As(err, &pe) {
		return Classify(pe.StatusCode, pe.Reason, pe.Message)
	}
	if err == nil {
		return Classification{Action: Terminal, Message: model.DefaultProviderMessage}
	}
	return Classification{Action: Terminal, Message: err.Error()}
}
