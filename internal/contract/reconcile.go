package contract

import (
	"github.com/alexanderramin/shiftlog/internal/app"
	"github.com/alexanderramin/shiftlog/internal/domain"
)

type SolveRequest = app.SolveRequest

func NewSolveRequest(site, month string, class domain.EquipmentClass) SolveRequest {
	return app.NewSolveRequest(site, month, class)
}

type SolveResponse = app.SolveResponse

type SolveAllResponse = app.SolveAllResponse

type SolveErrorCode = app.SolveErrorCode

const (
	SolveErrNoTotals       SolveErrorCode = app.SolveErrNoTotals
	SolveErrUnknownSite    SolveErrorCode = app.SolveErrUnknownSite
	SolveErrInvalidRequest SolveErrorCode = app.SolveErrInvalidRequest
	SolveErrStructural     SolveErrorCode = app.SolveErrStructural
	SolveErrTimeout        SolveErrorCode = app.SolveErrTimeout
	SolveErrTotalsLocked   SolveErrorCode = app.SolveErrTotalsLocked
	SolveErrInternal       SolveErrorCode = app.SolveErrInternal
)

type SolveError = app.SolveError
