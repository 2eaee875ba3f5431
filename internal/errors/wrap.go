package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Construction and inspection helpers re-exported from cockroachdb/errors.
var (
	New            = crdb.New
	Newf           = crdb.Newf
	Errorf         = crdb.Errorf
	Wrap           = crdb.Wrap
	Wrapf          = crdb.Wrapf
	WithDetail     = crdb.WithDetail
	WithDetailf    = crdb.WithDetailf
	WithHint       = crdb.WithHint
	Mark           = crdb.Mark
	Is             = crdb.Is
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	CombineErrors  = crdb.CombineErrors
	GetAllDetails  = crdb.GetAllDetails
	FlattenDetails = crdb.FlattenDetails
	GetAllHints    = crdb.GetAllHints
)
