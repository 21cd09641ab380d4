package api

import (
	"errors"
	"fmt"
)

var errBadRequest = errors.New("bad request")

func badRequest(msg string) error {
	return fmt.Errorf("%s: %w", msg, errBadRequest)
}
