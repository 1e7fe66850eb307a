package rates

import (
	"errors"
	"fmt"
)

var errZeroRate = errors.New("price feed returned a non-positive rate")

type feedStatusError struct {
	status int
}

func (e *feedStatusError) Error() string {
	return fmt.Sprintf("price feed returned status %d", e.status)
}

func errFeedStatus(status int) error {
	return &feedStatusError{status: status}
}
