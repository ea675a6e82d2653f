package errors

import (
	"errors"

	"github.com/louisbranch/millionaire/internal/platform/errors/i18n"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultLocale is used when a caller sends no accept-language.
const DefaultLocale = i18n.BaseLocale

// HandleError turns err into a gRPC status error. Application errors carry
// an ErrorInfo with their code and a LocalizedMessage rendered for locale;
// anything else becomes a generic Internal status. Status errors pass through.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		return status.Error(codes.Internal, "an unexpected error occurred")
	}
	if locale == "" {
		locale = DefaultLocale
	}
	catalog := i18n.GetCatalog(locale)
	return localizedStatus(appErr, catalog.Locale(), catalog.Format(string(appErr.Code), appErr.Params))
}

func localizedStatus(e *Error, locale, message string) error {
	st := status.New(e.Code.GRPCCode(), e.Message)
	detailed, err := st.WithDetails(
		&errdetails.ErrorInfo{Reason: string(e.Code), Domain: Domain, Metadata: e.Params},
		&errdetails.LocalizedMessage{Locale: locale, Message: message},
	)
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// CodeFromStatus reads the application code from the ErrorInfo detail of a
// gRPC status error. It returns CodeUnknown when none is attached.
func CodeFromStatus(err error) Code {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		return CodeUnknown
	}
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetDomain() == Domain {
			return Code(info.GetReason())
		}
	}
	return CodeUnknown
}
