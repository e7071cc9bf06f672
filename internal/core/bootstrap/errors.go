package bootstrap

import "errors"

var (
	ErrPlanExhausted           = errors.New("no module variant could be initialized")
	ErrEnvironmentIncompatible = errors.New("environment cannot host any module variant")
	ErrAlreadyStarted          = errors.New("bootstrap already started")
	ErrNoResult                = errors.New("module loader finished without a result")
)
