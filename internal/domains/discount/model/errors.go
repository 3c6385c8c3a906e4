package model

import "errors"

var (
	ErrRuleNotFound = errors.New("discount rule not found")
)
