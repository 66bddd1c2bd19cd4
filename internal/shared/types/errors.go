package types

import "errors"

var (
	ErrNoProfilesFound      = errors.New("no billing profiles found. Please configure AWS CLI or a file source first")
	ErrNoValidProfilesFound = errors.New("none of the specified profiles were found in the configuration")
	ErrNoBillingData        = errors.New("no billing data available for the selected period")
)
