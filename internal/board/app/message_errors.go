package app

import (
	"errors"

	"message_board_service/internal/board/domain"
	errprocess "message_board_service/pkg/err"

	"github.com/gofiber/fiber/v2"
)

// resolveError domain 錯誤對應 http status, store 內部錯誤不外洩
func resolveError(err error) (int, errprocess.Response) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, errprocess.Response{Error: errprocess.KindValidation, Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, errprocess.Response{Error: errprocess.KindNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict, errprocess.Response{Error: errprocess.KindAlreadyExists, Message: err.Error()}
	case errors.Is(err, domain.ErrStoreUnavailable):
		return fiber.StatusInternalServerError, errprocess.Response{Error: errprocess.KindStoreUnavailable, Message: "message store is unavailable, retry later"}
	default:
		return errprocess.Internal(err)
	}
}
