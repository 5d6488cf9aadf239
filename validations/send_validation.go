package validations

import (
	"context"

	domainSend "github.com/enviamsg/wa-relay/domains/send"
	pkgError "github.com/enviamsg/wa-relay/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateSendMessage(ctx context.Context, request domainSend.MessageRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Phone, validation.Required.Error("el número es obligatorio")),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
