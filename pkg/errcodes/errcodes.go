package errcodes

import (
	"net/http"

	"git.appkode.ru/pub/go/failure"
)

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	OfferNotFound        failure.ErrorCode = "OfferNotFound"
	InvalidOfferID       failure.ErrorCode = "InvalidOfferID"
	InvalidOfferPrice    failure.ErrorCode = "InvalidOfferPrice"
	InvalidDemandTons    failure.ErrorCode = "InvalidDemandTons"
	InvalidReliability   failure.ErrorCode = "InvalidReliability"
	DealNotFound         failure.ErrorCode = "DealNotFound"
	InvalidDealID        failure.ErrorCode = "InvalidDealID"
	InvalidDealStatus    failure.ErrorCode = "InvalidDealStatus"
	DealNotNegotiable    failure.ErrorCode = "DealNotNegotiable"
	LandownerNotFound    failure.ErrorCode = "LandownerNotFound"
	InvalidLandownerID   failure.ErrorCode = "InvalidLandownerID"
	InvalidPartyID       failure.ErrorCode = "InvalidPartyID"
	InvalidQuantity      failure.ErrorCode = "InvalidQuantity"
	InvalidAllocation    failure.ErrorCode = "InvalidAllocation"
	EmptyAllocation      failure.ErrorCode = "EmptyAllocation"
	InsufficientTons     failure.ErrorCode = "InsufficientTons"
	NotificationNotFound failure.ErrorCode = "NotificationNotFound"
	PredictionFailed     failure.ErrorCode = "PredictionFailed"
)

// HTTPStatus maps a domain error code to the HTTP status it travels as.
// Unknown codes fall back to 500.
func HTTPStatus(code failure.ErrorCode) int {
	switch code {
	case OfferNotFound, DealNotFound, LandownerNotFound, NotificationNotFound, NotFound:
		return http.StatusNotFound
	case InvalidOfferID, InvalidOfferPrice, InvalidDemandTons, InvalidReliability,
		InvalidDealID, InvalidLandownerID, InvalidPartyID, InvalidQuantity,
		InvalidAllocation, EmptyAllocation, ValidationError, InvalidPaging:
		return http.StatusBadRequest
	case InvalidDealStatus, DealNotNegotiable, InsufficientTons:
		return http.StatusConflict
	case PredictionFailed:
		return http.StatusBadGateway
	case TimeoutExceeded:
		return http.StatusGatewayTimeout
	case Forbidden:
		return http.StatusForbidden
	case InternalServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
