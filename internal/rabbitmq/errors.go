package rabbitmq

import (
	"errors"

	"github.com/GoArmGo/foodgram/internal/domain"
)

// IsPermanent сообщает, что повторная доставка сообщения бессмысленна.
func IsPermanent(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound)
}
